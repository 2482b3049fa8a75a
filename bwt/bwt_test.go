// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bwt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dsnet/bwt/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

const twain = "../testdata/twain.txt"

// transformers returns one Transformer per forward sorting strategy.
// All of them must produce identical output.
func transformers(opts ...Option) map[string]*Transformer {
	with := func(o ...Option) []Option { return append(append([]Option{}, opts...), o...) }
	return map[string]*Transformer{
		"rotation": NewTransformer(with(WithMethod(RotationSort))...),
		"parallel": NewTransformer(with(WithMethod(RotationSort), WithJobs(3))...),
		"doubling": NewTransformer(with(WithMethod(RankDoubling))...),
	}
}

func TestTransform(t *testing.T) {
	var ss = func(s string) string {
		const limit = 256
		if len(s) > limit {
			return fmt.Sprintf("%q...", s[:limit])
		}
		return fmt.Sprintf("%q", s)
	}

	var vectors = []struct {
		input  string // The input test string
		output string // Expected output string after BWT
	}{{
		input:  "",
		output: "$",
	}, {
		input:  "a",
		output: "a$",
	}, {
		input:  "ab",
		output: "b$a",
	}, {
		input:  "aaaa",
		output: "aaaa$",
	}, {
		input:  "banana",
		output: "annb$aa",
	}, {
		input:  "abracadabra",
		output: "ard$rcaaaabb",
	}, {
		input:  "mississippi",
		output: "ipssm$pissii",
	}, {
		// Every input byte is numerically smaller than '$',
		// but the sentinel must still sort first.
		input:  "\x00!#",
		output: "#$\x00!",
	}}

	for name, tr := range transformers() {
		for i, v := range vectors {
			b, err := tr.Transform([]byte(v.input))
			if err != nil {
				t.Errorf("%s, test %d, unexpected error: %v", name, i, err)
				continue
			}
			if output := string(b); output != v.output {
				t.Errorf("%s, test %d, output mismatch:\ngot  %v\nwant %v", name, i, ss(output), ss(v.output))
			}

			b, err = tr.InverseTransform(b)
			if err != nil {
				t.Errorf("%s, test %d, unexpected error: %v", name, i, err)
				continue
			}
			if input := string(b); input != v.input {
				t.Errorf("%s, test %d, input mismatch:\ngot  %v\nwant %v", name, i, ss(input), ss(v.input))
			}
		}
	}
}

func TestPackageFunctions(t *testing.T) {
	b, err := Transform([]byte("banana"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := string(b), "annb$aa"; got != want {
		t.Errorf("Transform mismatch: got %q, want %q", got, want)
	}

	b, err = InverseTransform([]byte("annb$aa"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := string(b), "banana"; got != want {
		t.Errorf("InverseTransform mismatch: got %q, want %q", got, want)
	}

	b, err = InverseTransform([]byte("$"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b == nil || len(b) != 0 {
		t.Errorf("InverseTransform(\"$\") = %q, want empty non-nil slice", b)
	}
}

func TestRoundTrip(t *testing.T) {
	r := testutil.NewRand(0)
	text := testutil.MustLoadFile(twain, -1)

	var vectors = []struct {
		name     string
		sentinel byte
		input    []byte
	}{
		{"twain", DefaultSentinel, text},
		{"twain-4k", 0x00, testutil.Replace(testutil.ResizeData(text, 4500), 0x00, ' ')},
		{"binary", 0x00, r.BytesExcept(5000, 0x00)},
		{"binary-high", 0xff, r.BytesExcept(5000, 0xff)},
		{"dna", DefaultSentinel, r.Symbols(5000, "ACGT")},
		{"binary-alphabet", DefaultSentinel, r.Symbols(5000, "ab")},
		{"repeats", DefaultSentinel, testutil.Repeats(r, 5000, "xyz")},
		{"zeros", 0xff, make([]byte, 2000)},
		{"runs", DefaultSentinel, []byte(strings.Repeat("a", 700) + "b" + strings.Repeat("a", 700))},
	}

	for _, v := range vectors {
		var want []byte
		for name, tr := range transformers(WithSentinel(v.sentinel)) {
			output, err := tr.Transform(v.input)
			if err != nil {
				t.Errorf("%s/%s, unexpected Transform error: %v", v.name, name, err)
				continue
			}
			if want == nil {
				want = output
			} else if !bytes.Equal(output, want) {
				t.Errorf("%s/%s, output differs between sorting methods", v.name, name)
			}

			input, err := tr.InverseTransform(output)
			if err != nil {
				t.Errorf("%s/%s, unexpected InverseTransform error: %v", v.name, name, err)
				continue
			}
			if !bytes.Equal(input, v.input) {
				t.Errorf("%s/%s, round trip mismatch", v.name, name)
			}
		}
	}
}

func TestProperties(t *testing.T) {
	r := testutil.NewRand(1)
	for i := 0; i < 200; i++ {
		input := r.Symbols(r.Intn(64), "abc\x00")
		for name, tr := range transformers() {
			output, err := tr.Transform(input)
			if err != nil {
				t.Fatalf("test %d, %s, unexpected error: %v", i, name, err)
			}
			if len(output) != len(input)+1 {
				t.Errorf("test %d, %s, length mismatch: got %d, want %d", i, name, len(output), len(input)+1)
			}
			if n := bytes.Count(output, []byte{tr.Sentinel()}); n != 1 {
				t.Errorf("test %d, %s, sentinel count: got %d, want 1", i, name, n)
			}

			var hist [256]int
			for _, b := range input {
				hist[b]++
			}
			hist[tr.Sentinel()]++
			for _, b := range output {
				hist[b]--
			}
			if hist != [256]int{} {
				t.Errorf("test %d, %s, output is not a permutation of the extended input", i, name)
			}
		}
	}
}

func TestInputNotModified(t *testing.T) {
	for name, tr := range transformers() {
		// Spare capacity must not be used to hold the sentinel.
		input := make([]byte, 6, 16)
		copy(input, "banana")
		orig := append([]byte(nil), input[:cap(input)]...)

		output, err := tr.Transform(input)
		if err != nil {
			t.Fatalf("%s, unexpected error: %v", name, err)
		}
		if diff := cmp.Diff(orig, input[:cap(input)]); diff != "" {
			t.Errorf("%s, Transform modified its input (-want +got):\n%s", name, diff)
		}

		orig = append([]byte(nil), output...)
		if _, err := tr.InverseTransform(output); err != nil {
			t.Fatalf("%s, unexpected error: %v", name, err)
		}
		if diff := cmp.Diff(orig, output); diff != "" {
			t.Errorf("%s, InverseTransform modified its input (-want +got):\n%s", name, diff)
		}
	}
}

func TestFirstColumnStable(t *testing.T) {
	tr := NewTransformer()
	r := testutil.NewRand(2)
	buf := r.Symbols(4096, "aab$")

	next := tr.firstColumn(buf)
	for i := 1; i < len(next); i++ {
		k0, k1 := tr.keys[buf[next[i-1]]], tr.keys[buf[next[i]]]
		if k0 > k1 {
			t.Fatalf("position %d, symbols out of order: %q before %q", i, buf[next[i-1]], buf[next[i]])
		}
		if k0 == k1 && next[i-1] > next[i] {
			t.Fatalf("position %d, equal symbols %q reordered: index %d before %d", i, buf[next[i]], next[i-1], next[i])
		}
	}
}

func TestErrors(t *testing.T) {
	t.Run("InvalidInput", func(t *testing.T) {
		var vectors = []struct {
			sentinel byte
			input    string
			offset   int
		}{
			{DefaultSentinel, "$", 0},
			{DefaultSentinel, "ab$c$", 2},
			{0x00, "abc\x00", 3},
		}
		for i, v := range vectors {
			tr := NewTransformer(WithSentinel(v.sentinel))
			_, err := tr.Transform([]byte(v.input))

			var ie *InvalidInputError
			if !errors.As(err, &ie) {
				t.Errorf("test %d, error mismatch: got %v, want *InvalidInputError", i, err)
				continue
			}
			if ie.Offset != v.offset || ie.Sentinel != v.sentinel {
				t.Errorf("test %d, got offset %d sentinel %q, want offset %d sentinel %q", i, ie.Offset, ie.Sentinel, v.offset, v.sentinel)
			}
			if !errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrFormat) {
				t.Errorf("test %d, error %v does not match only ErrInvalidInput", i, err)
			}
		}
	})

	t.Run("Format", func(t *testing.T) {
		var vectors = []struct {
			input   string
			count   int
			emitted int
		}{
			{"", 0, 0},
			{"abc", 0, 0},
			{"a$$b", 2, 0},
			{"annb$a$", 2, 0},
			{"$ab", 1, 0},
			{"ba$", 1, 1},
		}
		for i, v := range vectors {
			_, err := InverseTransform([]byte(v.input))

			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Errorf("test %d, error mismatch: got %v, want *FormatError", i, err)
				continue
			}
			if fe.Count != v.count || fe.Emitted != v.emitted {
				t.Errorf("test %d, got count %d emitted %d, want count %d emitted %d", i, fe.Count, fe.Emitted, v.count, v.emitted)
			}
			if !errors.Is(err, ErrFormat) || errors.Is(err, ErrInvalidInput) {
				t.Errorf("test %d, error %v does not match only ErrFormat", i, err)
			}
		}
	})
}

func TestSortMethod(t *testing.T) {
	for _, m := range []SortMethod{RotationSort, RankDoubling} {
		got, err := ParseSortMethod(m.String())
		if err != nil || got != m {
			t.Errorf("ParseSortMethod(%q) = (%v, %v), want (%v, nil)", m.String(), got, err, m)
		}
	}
	if _, err := ParseSortMethod("bogus"); err == nil {
		t.Errorf("ParseSortMethod(\"bogus\"), unexpected success")
	}

	defer func() {
		if recover() == nil {
			t.Errorf("NewTransformer with invalid method, expected panic")
		}
	}()
	NewTransformer(WithMethod(SortMethod(42)))
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte("banana"))
	f.Add([]byte("SIX.MIXED.PIXIES.SIFT.SIXTY.PIXIE.DUST.BOXES"))
	f.Add([]byte{})
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > 1<<12 {
			input = input[:1<<12]
		}
		rot := NewTransformer(WithSentinel(0x00))
		dbl := NewTransformer(WithSentinel(0x00), WithMethod(RankDoubling))

		out1, err1 := rot.Transform(input)
		out2, err2 := dbl.Transform(input)
		if bytes.IndexByte(input, 0x00) >= 0 {
			if !errors.Is(err1, ErrInvalidInput) || !errors.Is(err2, ErrInvalidInput) {
				t.Fatalf("errors mismatch: got (%v, %v), want ErrInvalidInput", err1, err2)
			}
			return
		}
		if err1 != nil || err2 != nil {
			t.Fatalf("unexpected errors: (%v, %v)", err1, err2)
		}
		if !bytes.Equal(out1, out2) {
			t.Fatalf("output differs between sorting methods")
		}
		got, err := rot.InverseTransform(out1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(got, input) {
			t.Fatalf("round trip mismatch")
		}
	})
}

func benchmarkTransform(b *testing.B, m SortMethod, n int) {
	input := testutil.Replace(testutil.MustLoadFile(twain, n), DefaultSentinel, ' ')
	tr := NewTransformer(WithMethod(m))
	b.SetBytes(int64(n))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tr.Transform(input); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

func BenchmarkTransformRotation1e3(b *testing.B) { benchmarkTransform(b, RotationSort, 1e3) }
func BenchmarkTransformRotation1e4(b *testing.B) { benchmarkTransform(b, RotationSort, 1e4) }
func BenchmarkTransformDoubling1e3(b *testing.B) { benchmarkTransform(b, RankDoubling, 1e3) }
func BenchmarkTransformDoubling1e4(b *testing.B) { benchmarkTransform(b, RankDoubling, 1e4) }
func BenchmarkTransformDoubling1e5(b *testing.B) { benchmarkTransform(b, RankDoubling, 1e5) }

func BenchmarkInverseTransform1e5(b *testing.B) {
	input := testutil.Replace(testutil.MustLoadFile(twain, 1e5), DefaultSentinel, ' ')
	tr := NewTransformer(WithMethod(RankDoubling))
	output, err := tr.Transform(input)
	if err != nil {
		b.Fatalf("unexpected error: %v", err)
	}
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tr.InverseTransform(output); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
