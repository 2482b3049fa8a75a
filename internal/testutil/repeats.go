// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

// Repeats returns size bytes of data where most of the content is a copy of
// some earlier part of the data. Copies produce long shared prefixes between
// rotations, which is the worst case for comparison based rotation sorting.
// The alphabet of the random portions is restricted to alphabet.
func Repeats(r *Rand, size int, alphabet string) []byte {
	var b []byte

	randLen := func() (l int) {
		p := r.Float32()
		switch {
		case p <= 0.25: // 4..8
			l = 4 + r.Intn(4)
		case p <= 0.50: // 8..16
			l = 8 + r.Intn(8)
		case p <= 0.75: // 16..32
			l = 16 + r.Intn(16)
		default: // 32..64
			l = 32 + r.Intn(32)
		}
		return l
	}

	randDist := func() (d int) {
		for d == 0 || d > len(b) {
			p := r.Float32()
			switch {
			case p <= 0.2: // 1..2
				d = 1 + r.Intn(1)
			case p <= 0.4: // 2..16
				d = 2 + r.Intn(14)
			case p <= 0.6: // 16..128
				d = 16 + r.Intn(112)
			case p <= 0.8: // 128..1024
				d = 128 + r.Intn(896)
			default: // 1024..8192
				d = 1024 + r.Intn(7168)
			}
		}
		return d
	}

	writeRand := func(l int) {
		b = append(b, r.Symbols(l, alphabet)...)
	}

	writeCopy := func(d, l int) {
		for i := 0; i < l; i++ {
			b = append(b, b[len(b)-d])
		}
	}

	writeRand(randLen())
	for len(b) < size {
		if r.Float32() <= 0.1 {
			writeRand(randLen())
		} else {
			writeCopy(randDist(), randLen())
		}
	}
	return b[:size]
}
