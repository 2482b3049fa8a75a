// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"fmt"
	"io"
	"strings"
)

// PrintReports writes a table of stage sizes for every report to w.
// Every reference codec adds two columns: the codec applied to the raw input,
// and the codec applied to the bwt+rle output.
//
// The header row is:
//	input  raw  bwt  bwt+rle  rle  ratio  flate  bwt+rle+flate  ...
func PrintReports(w io.Writer, reports []*Report) error {
	var codecs []string
	seen := make(map[string]bool)
	for _, r := range reports {
		for _, ref := range r.References {
			if !seen[ref.Codec] {
				seen[ref.Codec] = true
				codecs = append(codecs, ref.Codec)
			}
		}
	}

	// Allocate result table.
	const fixed = 6
	cells := make([][]string, 1+len(reports))
	for i := range cells {
		cells[i] = make([]string, fixed+2*len(codecs))
	}

	// Label the first row.
	copy(cells[0], []string{"input", "raw", "bwt", "bwt+rle", "rle", "ratio"})
	for i, c := range codecs {
		cells[0][fixed+2*i] = c
		cells[0][fixed+2*i+1] = "bwt+rle+" + c
	}

	// Insert all rows.
	for j, r := range reports {
		row := cells[1+j]
		row[0] = r.Name
		row[1] = formatSize(r.Size)
		row[2] = formatSize(r.TransformedSize)
		row[3] = formatSize(r.EncodedSize)
		row[4] = formatSize(r.RawEncodedSize)
		if r.EncodedSize > 0 {
			row[5] = fmt.Sprintf("%.2fx", float64(r.Size)/float64(r.EncodedSize))
		}
		for _, ref := range r.References {
			for i, c := range codecs {
				if c == ref.Codec {
					row[fixed+2*i] = formatSize(ref.RawSize)
					row[fixed+2*i+1] = formatSize(ref.EncodedSize)
				}
			}
		}
	}

	// Compute the maximum lengths.
	maxLens := make([]int, len(cells[0]))
	for _, row := range cells {
		for i, s := range row {
			if maxLens[i] < len(s) {
				maxLens[i] = len(s)
			}
		}
	}

	// Print padded versions of all cells.
	for _, row := range cells {
		var sb strings.Builder
		for i, s := range row {
			if i == 0 {
				sb.WriteString(s + strings.Repeat(" ", maxLens[i]-len(s)))
			} else {
				sb.WriteString(strings.Repeat(" ", 2+maxLens[i]-len(s)) + s)
			}
		}
		sb.WriteString("\n")
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}
