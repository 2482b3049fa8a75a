// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bench measures how well the Burrows-Wheeler Transform followed by
// run-length encoding clusters repeated symbols in real files, and compares
// the result with general purpose compressors.
//
// The package only drives the bwt and rle packages; it contains no part of
// either algorithm.
package bench

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/dsnet/bwt/internal/testutil"
	strconv "github.com/dsnet/golib/unitconv"
)

// Encoder returns a compressor writing to w at the given level.
type Encoder func(w io.Writer, lvl int) io.WriteCloser

var (
	// Encoders holds the reference compressors by name.
	Encoders map[string]Encoder

	// List of search paths for test files.
	Paths []string
)

func RegisterEncoder(name string, enc Encoder) {
	if Encoders == nil {
		Encoders = make(map[string]Encoder)
	}
	Encoders[name] = enc
}

// EncoderNames returns the names of all registered encoders in sorted order.
func EncoderNames() []string {
	var s []string
	for k := range Encoders {
		s = append(s, k)
	}
	sort.Strings(s)
	return s
}

// CompressedSize reports the number of bytes enc produces for input.
func CompressedSize(input []byte, enc Encoder, lvl int) (int64, error) {
	var cw countWriter
	wr := enc(&cw, lvl)
	_, err := io.Copy(wr, bytes.NewReader(input))
	if cerr := wr.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, err
	}
	return cw.N, nil
}

// countWriter discards everything written to it, counting the bytes.
type countWriter struct{ N int64 }

func (cw *countWriter) Write(buf []byte) (int, error) {
	cw.N += int64(len(buf))
	return len(buf), nil
}

// LoadFile loads file, searching Paths if it is relative. If n >= 0, the
// data is truncated or replicated to exactly n bytes.
func LoadFile(file string, n int) ([]byte, error) {
	b, err := os.ReadFile(getPath(file))
	if err != nil {
		return nil, err
	}
	if n > len(b) && len(b) == 0 {
		return nil, fmt.Errorf("bench: cannot resize empty file %s", file)
	}
	return testutil.ResizeData(b, n), nil
}

func getPath(file string) string {
	if path.IsAbs(file) {
		return file
	}
	for _, p := range Paths {
		p = path.Join(p, file)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return file
}

// Name returns a label for file f resized to n bytes.
func Name(f string, n int) string {
	var sn string
	switch n {
	case 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9:
		s := fmt.Sprintf("%e", float64(n))
		re := regexp.MustCompile("\\.0*e\\+0*")
		sn = re.ReplaceAllString(s, "e")
	default:
		sn = formatSize(int64(n))
	}
	return fmt.Sprintf("%s:%s", path.Base(f), sn)
}

func formatSize(n int64) string {
	s := strconv.FormatPrefix(float64(n), strconv.Base1024, 2)
	return strings.Replace(s, ".00", "", -1)
}
