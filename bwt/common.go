// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bwt implements the Burrows-Wheeler Transform with an explicit
// sentinel symbol, along with its exact inverse.
//
// The forward transform appends a reserved sentinel to the input, sorts all
// cyclic rotations of the result, and outputs the symbol preceding each sorted
// rotation. The sentinel always orders below every other byte regardless of
// its numeric value, and it appears exactly once in the output. It marks where
// the inverse transform must begin, so no separate origin pointer is needed.
//
// For example, with the default sentinel of '$':
//	Transform("banana")         => "annb$aa"
//	InverseTransform("annb$aa") => "banana"
//
// None of the functions in this package modify their input slices.
package bwt

import "fmt"

// DefaultSentinel is the sentinel used by Transform and InverseTransform.
const DefaultSentinel = '$'

// SoftLimit is the input length beyond which the RotationSort method should
// be expected to take seconds rather than milliseconds. Comparing rotations
// costs up to O(n) each, so the sort is O(n² log n) on repetitive data.
// Use RankDoubling or split the input into blocks for anything larger.
const SoftLimit = 1 << 15

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string { return "bwt: " + string(e) }

var (
	// ErrInvalidInput matches every *InvalidInputError.
	ErrInvalidInput error = Error("input contains the sentinel")

	// ErrFormat matches every *FormatError.
	ErrFormat error = Error("invalid transformed input")
)

// InvalidInputError is returned by Transform when the input already contains
// the sentinel symbol.
type InvalidInputError struct {
	Sentinel byte
	Offset   int // Offset of the first sentinel in the input
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("bwt: input contains the sentinel %q at offset %d", e.Sentinel, e.Offset)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// FormatError is returned by InverseTransform when the input could not have
// been produced by Transform with the same sentinel.
type FormatError struct {
	Sentinel byte
	Count    int // Number of sentinels found in the input

	// Emitted is the number of symbols reconstructed before the walk
	// returned to the sentinel early. It is only meaningful if Count is 1.
	Emitted int
}

func (e *FormatError) Error() string {
	if e.Count != 1 {
		return fmt.Sprintf("bwt: found %d occurrences of the sentinel %q, want exactly 1", e.Count, e.Sentinel)
	}
	return fmt.Sprintf("bwt: reached the sentinel %q after %d symbols, input is corrupted", e.Sentinel, e.Emitted)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

var std = NewTransformer()

// Transform computes the forward BWT of input using DefaultSentinel and the
// RotationSort method. The output is one byte longer than the input.
func Transform(input []byte) ([]byte, error) {
	return std.Transform(input)
}

// InverseTransform reconstructs the input to Transform from its output,
// assuming DefaultSentinel.
func InverseTransform(buf []byte) ([]byte, error) {
	return std.InverseTransform(buf)
}
