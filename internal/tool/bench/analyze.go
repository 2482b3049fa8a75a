// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"log/slog"
	"time"

	"github.com/dsnet/bwt/bwt"
	"github.com/dsnet/bwt/rle"
	hashutil "github.com/dsnet/golib/hashmerge"
)

// Block holds the stage sizes of a single transformed block.
type Block struct {
	Offset          int64
	Size            int // Raw size
	TransformedSize int // Always Size+1 unless Skipped
	EncodedSize     int // Size after bwt and rle

	// Skipped is set if the block contained the sentinel and so could not be
	// transformed. SentinelOffset is then the absolute offset of the first
	// sentinel in the input.
	Skipped        bool
	SentinelOffset int64

	Elapsed time.Duration
}

// Reference holds the output sizes of a reference encoder, applied both to
// the raw input and to the output of bwt+rle.
type Reference struct {
	Codec       string
	RawSize     int64
	EncodedSize int64
}

// Report summarizes one analyzed input.
type Report struct {
	Name            string
	Size            int64
	TransformedSize int64 // Sum over transformed blocks
	EncodedSize     int64 // Sum over transformed blocks, after rle
	RawEncodedSize  int64 // Size of rle applied directly to the whole input
	Skipped         int   // Number of blocks skipped

	Blocks     []Block
	References []Reference

	// Checksum is the CRC-32 of the input, combined from the CRC-32 of each
	// reconstructed block. It has been verified against the input.
	Checksum uint32

	Elapsed time.Duration
}

// Analyzer splits inputs into blocks and runs each block through the
// forward transform, the inverse transform, and the run-length encoder.
type Analyzer struct {
	tr        *bwt.Transformer
	blockSize int
	codecs    []string
	level     int
	logger    *slog.Logger
}

// NewAnalyzer returns an Analyzer for cfg. A nil logger discards all logs.
func NewAnalyzer(cfg *Config, logger *slog.Logger) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tr, err := cfg.Transformer()
	if err != nil {
		return nil, err
	}
	blockSize, err := ParseSize(cfg.BlockSize)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Analyzer{
		tr:        tr,
		blockSize: blockSize,
		codecs:    cfg.Codecs,
		level:     cfg.Level,
		logger:    logger,
	}, nil
}

// Analyze processes input, verifying that every block survives the round
// trip. It returns an error if verification fails or ctx is cancelled.
func (a *Analyzer) Analyze(ctx context.Context, name string, input []byte) (*Report, error) {
	start := time.Now()
	logger := a.logger.With("input", name)
	rep := &Report{Name: name, Size: int64(len(input))}

	var encoded bytes.Buffer
	var crc uint32
	for off := 0; off < len(input); off += a.blockSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := off + a.blockSize
		if end > len(input) {
			end = len(input)
		}

		blk, err := a.analyzeBlock(input[off:end], int64(off))
		if err != nil {
			return nil, fmt.Errorf("bench: %s: block at offset %d: %w", name, off, err)
		}
		if blk.Skipped {
			logger.Warn("block contains the sentinel, skipping",
				"offset", off,
				"sentinel_offset", blk.SentinelOffset,
				"sentinel", fmt.Sprintf("%#04x", a.tr.Sentinel()))
			rep.Skipped++
			crc = hashutil.CombineCRC32(crc32.IEEE, crc, crc32.ChecksumIEEE(input[off:end]), int64(end-off))
		} else {
			rep.TransformedSize += int64(blk.TransformedSize)
			rep.EncodedSize += int64(blk.EncodedSize)
			crc = hashutil.CombineCRC32(crc32.IEEE, crc, blk.crc, int64(blk.Size))
			encoded.Write(blk.encoded)
		}
		logger.Debug("block done",
			"offset", off,
			"size", blk.Size,
			"encoded", blk.EncodedSize,
			"elapsed", blk.Elapsed)
		rep.Blocks = append(rep.Blocks, blk.Block)
	}

	if want := crc32.ChecksumIEEE(input); crc != want {
		return nil, fmt.Errorf("bench: %s: checksum mismatch: got 0x%08x, want 0x%08x", name, crc, want)
	}
	rep.Checksum = crc

	var cw countWriter
	rw := rle.NewWriter(&cw)
	if _, err := io.Copy(rw, bytes.NewReader(input)); err != nil {
		return nil, err
	}
	if err := rw.Close(); err != nil {
		return nil, err
	}
	rep.RawEncodedSize = cw.N

	for _, c := range a.codecs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ref, err := a.reference(c, input, encoded.Bytes())
		if err != nil {
			return nil, fmt.Errorf("bench: %s: codec %s: %w", name, c, err)
		}
		rep.References = append(rep.References, ref)
	}

	rep.Elapsed = time.Since(start)
	logger.Info("analyzed",
		"size", rep.Size,
		"blocks", len(rep.Blocks),
		"skipped", rep.Skipped,
		"encoded", rep.EncodedSize,
		"elapsed", rep.Elapsed)
	return rep, nil
}

type blockResult struct {
	Block
	crc     uint32 // CRC-32 of the reconstructed block
	encoded []byte
}

func (a *Analyzer) analyzeBlock(buf []byte, off int64) (*blockResult, error) {
	start := time.Now()
	res := &blockResult{Block: Block{Offset: off, Size: len(buf)}}

	transformed, err := a.tr.Transform(buf)
	var ie *bwt.InvalidInputError
	if errors.As(err, &ie) {
		res.Skipped = true
		res.SentinelOffset = off + int64(ie.Offset)
		res.Elapsed = time.Since(start)
		return res, nil
	}
	if err != nil {
		return nil, err
	}

	restored, err := a.tr.InverseTransform(transformed)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(restored, buf) {
		return nil, errors.New("round trip mismatch")
	}

	res.encoded = rle.Encode(transformed)
	res.crc = crc32.ChecksumIEEE(restored)
	res.TransformedSize = len(transformed)
	res.EncodedSize = len(res.encoded)
	res.Elapsed = time.Since(start)
	return res, nil
}

func (a *Analyzer) reference(codec string, raw, encoded []byte) (Reference, error) {
	enc, ok := Encoders[codec]
	if !ok {
		return Reference{}, errors.New("not registered")
	}
	rawSize, err := CompressedSize(raw, enc, a.level)
	if err != nil {
		return Reference{}, err
	}
	encSize, err := CompressedSize(encoded, enc, a.level)
	if err != nil {
		return Reference{}, err
	}
	return Reference{Codec: codec, RawSize: rawSize, EncodedSize: encSize}, nil
}
