// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bwt

import (
	"sort"
	"sync"
)

// Inputs shorter than this are always sorted on a single goroutine.
const minParallelSize = 1 << 12

// rotations sorts the starting offsets of the rotations of buf + sentinel.
type rotations struct {
	buf  []byte
	keys *[256]uint16
	offs []int
}

// key returns the sort key of the symbol at position i of the extended string.
func (r *rotations) key(i int) uint16 {
	if i == len(r.buf) {
		return 0 // Sentinel
	}
	return r.keys[r.buf[i]]
}

// less compares the rotations starting at a and b. The loop always ends by
// the time either rotation reaches the sentinel.
func (r *rotations) less(a, b int) bool {
	m := len(r.buf) + 1
	for n := 0; n < m; n++ {
		if x, y := r.key(a), r.key(b); x != y {
			return x < y
		}
		if a++; a == m {
			a = 0
		}
		if b++; b == m {
			b = 0
		}
	}
	return false
}

func (r *rotations) Len() int           { return len(r.offs) }
func (r *rotations) Less(i, j int) bool { return r.less(r.offs[i], r.offs[j]) }
func (r *rotations) Swap(i, j int)      { r.offs[i], r.offs[j] = r.offs[j], r.offs[i] }

// sortRotations returns the offsets of all len(buf)+1 rotations in sorted
// order using a comparison sort.
func (t *Transformer) sortRotations(buf []byte) []int {
	offs := make([]int, len(buf)+1)
	for i := range offs {
		offs[i] = i
	}
	r := &rotations{buf: buf, keys: &t.keys, offs: offs}
	if t.jobs > 1 && len(offs) >= minParallelSize {
		r.sortParallel(t.jobs)
	} else {
		sort.Sort(r)
	}
	return offs
}

// sortParallel sorts contiguous chunks of offs concurrently and then merges
// adjacent chunks until one remains. Since no two rotations compare equal,
// the result is the same as a sequential sort.
func (r *rotations) sortParallel(jobs int) {
	type span struct{ lo, hi int }

	size := (len(r.offs) + jobs - 1) / jobs
	var spans []span
	for lo := 0; lo < len(r.offs); lo += size {
		hi := lo + size
		if hi > len(r.offs) {
			hi = len(r.offs)
		}
		spans = append(spans, span{lo, hi})
	}

	var wg sync.WaitGroup
	for _, s := range spans {
		wg.Add(1)
		go func(s span) {
			defer wg.Done()
			sort.Sort(&rotations{buf: r.buf, keys: r.keys, offs: r.offs[s.lo:s.hi]})
		}(s)
	}
	wg.Wait()

	tmp := make([]int, len(r.offs))
	for len(spans) > 1 {
		var next []span
		for i := 0; i < len(spans); i += 2 {
			if i+1 == len(spans) {
				next = append(next, spans[i])
				break
			}
			a, b := spans[i], spans[i+1]
			r.merge(tmp[a.lo:b.hi], r.offs[a.lo:a.hi], r.offs[b.lo:b.hi])
			copy(r.offs[a.lo:b.hi], tmp[a.lo:b.hi])
			next = append(next, span{a.lo, b.hi})
		}
		spans = next
	}
}

func (r *rotations) merge(out, left, right []int) {
	for len(left) > 0 && len(right) > 0 {
		if r.less(left[0], right[0]) {
			out[0], left = left[0], left[1:]
		} else {
			out[0], right = right[0], right[1:]
		}
		out = out[1:]
	}
	n := copy(out, left)
	copy(out[n:], right)
}

// sortDoubling returns the offsets of all len(buf)+1 rotations in sorted
// order using cyclic prefix doubling.
//
// After the round for length k, sa holds the rotations ordered by their first
// k symbols and cls holds the rank of each rotation among those prefixes.
// The next round orders by the pair (cls[i], cls[i+k]). Shifting every entry
// of sa back by k already orders them by the second component, so a stable
// counting sort on the first component completes the round in O(n).
// Rounds stop once every rotation has a distinct rank.
func (t *Transformer) sortDoubling(buf []byte) []int {
	m := len(buf) + 1
	r := rotations{buf: buf, keys: &t.keys}

	sa := make([]int, m)
	cls := make([]int, m)

	var c [257]int
	for i := 0; i < m; i++ {
		c[r.key(i)]++
	}
	for i := 1; i < len(c); i++ {
		c[i] += c[i-1]
	}
	for i := m - 1; i >= 0; i-- {
		k := r.key(i)
		c[k]--
		sa[c[k]] = i
	}
	classes := 1
	for i := 1; i < m; i++ {
		if r.key(sa[i]) != r.key(sa[i-1]) {
			classes++
		}
		cls[sa[i]] = classes - 1
	}

	tmp := make([]int, m)
	ncls := make([]int, m)
	cnt := make([]int, m)
	for k := 1; classes < m; k <<= 1 {
		for i, s := range sa {
			if s -= k % m; s < 0 {
				s += m
			}
			tmp[i] = s
		}

		for i := range cnt[:classes] {
			cnt[i] = 0
		}
		for _, s := range tmp {
			cnt[cls[s]]++
		}
		for i := 1; i < classes; i++ {
			cnt[i] += cnt[i-1]
		}
		for i := m - 1; i >= 0; i-- {
			s := tmp[i]
			cnt[cls[s]]--
			sa[cnt[cls[s]]] = s
		}

		ncls[sa[0]] = 0
		classes = 1
		for i := 1; i < m; i++ {
			cur, prev := sa[i], sa[i-1]
			if cls[cur] != cls[prev] || cls[(cur+k)%m] != cls[(prev+k)%m] {
				classes++
			}
			ncls[cur] = classes - 1
		}
		cls, ncls = ncls, cls
	}
	return sa
}
