// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bwt

import "strings"

// SortMethod selects the algorithm used to order rotations in the forward
// transform. All methods produce identical output.
type SortMethod int

const (
	// RotationSort compares rotations symbol by symbol using a comparison
	// sort. It is simple, but quadratic in the worst case (see SoftLimit).
	RotationSort SortMethod = iota

	// RankDoubling sorts rotations by prefix doubling with counting sorts,
	// which runs in O(n log n) time and O(n) extra space.
	RankDoubling
)

func (m SortMethod) String() string {
	switch m {
	case RotationSort:
		return "rotation"
	case RankDoubling:
		return "doubling"
	default:
		return "unknown"
	}
}

// ParseSortMethod parses the name of a SortMethod as returned by String.
func ParseSortMethod(s string) (SortMethod, error) {
	switch strings.ToLower(s) {
	case "rotation":
		return RotationSort, nil
	case "doubling":
		return RankDoubling, nil
	default:
		return 0, Error("unknown sort method: " + s)
	}
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithSentinel sets the reserved sentinel symbol.
func WithSentinel(b byte) Option {
	return func(t *Transformer) { t.sentinel = b }
}

// WithMethod sets the sorting method of the forward transform.
func WithMethod(m SortMethod) Option {
	return func(t *Transformer) { t.method = m }
}

// WithJobs sets the number of goroutines RotationSort may use.
// Values less than 1 are treated as 1.
func WithJobs(n int) Option {
	return func(t *Transformer) { t.jobs = n }
}

// Transformer computes the forward and inverse BWT for a fixed sentinel.
// A Transformer holds no mutable state and is safe for concurrent use.
type Transformer struct {
	sentinel byte
	method   SortMethod
	jobs     int

	// keys maps each byte to its sort key. The sentinel maps to 0 and every
	// other byte b maps to b+1, so the sentinel sorts first.
	keys [256]uint16
}

// NewTransformer returns a Transformer using DefaultSentinel and RotationSort
// on a single goroutine, unless overridden by opts.
func NewTransformer(opts ...Option) *Transformer {
	t := &Transformer{sentinel: DefaultSentinel, method: RotationSort, jobs: 1}
	for _, opt := range opts {
		opt(t)
	}
	switch t.method {
	case RotationSort, RankDoubling:
	default:
		panic("bwt: invalid sort method")
	}
	if t.jobs < 1 {
		t.jobs = 1
	}
	for i := range t.keys {
		t.keys[i] = uint16(i) + 1
	}
	t.keys[t.sentinel] = 0
	return t
}

// Sentinel reports the reserved sentinel symbol.
func (t *Transformer) Sentinel() byte { return t.sentinel }

// Method reports the sorting method of the forward transform.
func (t *Transformer) Method() SortMethod { return t.method }
