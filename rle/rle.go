// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package rle implements a simplistic run-length encoding intended for the
// output of a Burrows-Wheeler Transform.
//
// Every maximal run of identical bytes is written as the byte itself followed
// by the decimal digits of the run length. Runs of length one are written as
// the bare byte. For example:
//	"AAAAABBBCCDAA" => "A5B3C2DA2"
//	"ABCD"          => "ABCD"
//
// The encoding is not uniquely decodable. If the input contains ASCII digits,
// a count cannot be told apart from a following literal; "1111" and "14"
// both encode to "14". For this reason no decoder is provided.
package rle

import (
	"io"
	"strconv"
)

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string { return "rle: " + string(e) }

var errClosed error = Error("writer is closed")

// Encode returns the run-length encoding of buf.
// The output is never longer than the input.
func Encode(buf []byte) []byte {
	out := make([]byte, 0, len(buf))
	for i := 0; i < len(buf); {
		j := i + 1
		for j < len(buf) && buf[j] == buf[i] {
			j++
		}
		out = appendRun(out, buf[i], j-i)
		i = j
	}
	return out
}

func appendRun(dst []byte, sym byte, n int) []byte {
	dst = append(dst, sym)
	if n > 1 {
		dst = strconv.AppendInt(dst, int64(n), 10)
	}
	return dst
}

// Writer is an io.WriteCloser that run-length encodes everything written to
// it. Runs may span multiple calls to Write, so the final run is only written
// to the underlying io.Writer by Close.
type Writer struct {
	wr  io.Writer
	sym byte // Symbol of the pending run
	cnt int  // Length of the pending run; zero if none
	buf []byte
	err error
}

// NewWriter returns a Writer that writes encoded data to w.
func NewWriter(w io.Writer) *Writer {
	rw := new(Writer)
	rw.Reset(w)
	return rw
}

// Write encodes buf. The output for every run completed by buf is written to
// the underlying io.Writer before Write returns.
func (rw *Writer) Write(buf []byte) (int, error) {
	if rw.err != nil {
		return 0, rw.err
	}

	rw.buf = rw.buf[:0]
	for _, b := range buf {
		if rw.cnt > 0 && b == rw.sym {
			rw.cnt++
			continue
		}
		if rw.cnt > 0 {
			rw.buf = appendRun(rw.buf, rw.sym, rw.cnt)
		}
		rw.sym, rw.cnt = b, 1
	}
	if len(rw.buf) > 0 {
		if _, err := rw.wr.Write(rw.buf); err != nil {
			rw.err = err
			return 0, err
		}
	}
	return len(buf), nil
}

// Close writes the pending run, if any. It does not close the underlying
// io.Writer. Subsequent writes fail.
func (rw *Writer) Close() error {
	if rw.err == errClosed {
		return nil
	}
	if rw.err != nil {
		return rw.err
	}
	if rw.cnt > 0 {
		rw.buf = appendRun(rw.buf[:0], rw.sym, rw.cnt)
		rw.cnt = 0
		if _, err := rw.wr.Write(rw.buf); err != nil {
			rw.err = err
			return err
		}
	}
	rw.err = errClosed
	return nil
}

// Reset discards the Writer's state and makes it equivalent to the result of
// NewWriter, but writing to w instead.
func (rw *Writer) Reset(w io.Writer) {
	*rw = Writer{wr: w, buf: rw.buf[:0]}
}
