// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bwt

// The transform works on the extended string T = input + sentinel, which is
// never materialised. Position len(input) of T is the sentinel. Since T
// contains exactly one sentinel, no two distinct rotations compare equal and
// the order of rotations is total without any tie-breaking key.
//
// Sorted rotations of "banana$", and the symbol preceding each one:
//	6  $banana  a
//	5  a$banan  n
//	3  ana$ban  n
//	1  anana$b  b
//	0  banana$  $
//	4  na$bana  a
//	2  nana$ba  a
//
// The inverse uses the LF-mapping: the k-th occurrence of a symbol in the
// last column corresponds to the k-th occurrence of the same symbol in the
// first column. The first column is just the sorted last column, provided
// equal symbols keep their relative order. Walking this mapping from the
// sentinel yields the input from front to back.
//
// References:
//	Burrows M and Wheeler D, "A block sorting lossless data compression
//	algorithm", Technical Report 124, Digital Equipment Corporation, 1994.

import "bytes"

// Transform computes the forward BWT of input. It returns an
// *InvalidInputError if input contains the sentinel.
func (t *Transformer) Transform(input []byte) ([]byte, error) {
	if i := bytes.IndexByte(input, t.sentinel); i >= 0 {
		return nil, &InvalidInputError{Sentinel: t.sentinel, Offset: i}
	}

	var sa []int
	switch t.method {
	case RankDoubling:
		sa = t.sortDoubling(input)
	default:
		sa = t.sortRotations(input)
	}

	n := len(input)
	output := make([]byte, n+1)
	for i, idx := range sa {
		if idx == 0 {
			output[i] = t.sentinel
		} else {
			output[i] = input[idx-1]
		}
	}
	return output, nil
}

// InverseTransform reconstructs the input to Transform from its output.
// It returns a *FormatError if buf does not contain exactly one sentinel, or
// if the sentinel is reached again before the whole input is recovered.
func (t *Transformer) InverseTransform(buf []byte) ([]byte, error) {
	ptr, cnt := -1, 0
	for i, b := range buf {
		if b == t.sentinel {
			if cnt == 0 {
				ptr = i
			}
			cnt++
		}
	}
	if cnt != 1 {
		return nil, &FormatError{Sentinel: t.sentinel, Count: cnt}
	}

	next := t.firstColumn(buf)
	output := make([]byte, len(buf)-1)
	pos := ptr
	for i := range output {
		pos = next[pos]
		if pos == ptr {
			return nil, &FormatError{Sentinel: t.sentinel, Count: 1, Emitted: i}
		}
		output[i] = buf[pos]
	}
	return output, nil
}

// firstColumn returns the positions in buf ordered by symbol, which is the
// first column of the sorted rotation matrix. Equal symbols are kept in the
// order they appear in buf, as the LF-mapping is only valid for a stable sort.
// A counting sort is stable by construction.
func (t *Transformer) firstColumn(buf []byte) []int {
	var c [257]int
	for _, b := range buf {
		c[t.keys[b]]++
	}

	var sum int
	for i, v := range c {
		sum += v
		c[i] = sum - v
	}

	next := make([]int, len(buf))
	for i, b := range buf {
		k := t.keys[b]
		next[c[k]] = i
		c[k]++
	}
	return next
}
