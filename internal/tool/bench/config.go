// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	stdstrconv "strconv"

	"github.com/dsnet/bwt/bwt"
	strconv "github.com/dsnet/golib/unitconv"
	"gopkg.in/yaml.v3"
)

// Config describes a benchmark run. Sizes are strings so that they may use
// SI or IEC prefixes (e.g., "1e4", "16Ki").
//
// Example YAML file:
//	paths: [testdata]
//	files: [twain.txt]
//	block_size: 16384
//	sentinel: "0x00"
//	method: doubling
//	codecs: [flate, zstd]
//	level: 6
type Config struct {
	Paths     []string `yaml:"paths"`
	Files     []string `yaml:"files"`
	Size      string   `yaml:"size"`       // Resize each file to this many bytes; empty keeps the original size
	BlockSize string   `yaml:"block_size"` // Maximum number of bytes transformed at once
	Sentinel  string   `yaml:"sentinel"`   // A single character or a numeric byte value
	Method    string   `yaml:"method"`     // Name of a bwt.SortMethod
	Jobs      int      `yaml:"jobs"`
	Codecs    []string `yaml:"codecs"` // Reference encoders to compare against
	Level     int      `yaml:"level"`
}

// DefaultConfig returns the configuration used when no file is given.
// The block size keeps the RotationSort method well below bwt.SoftLimit.
func DefaultConfig() *Config {
	return &Config{
		Paths:     []string{"."},
		BlockSize: "16384",
		Sentinel:  "0x00",
		Method:    bwt.RankDoubling.String(),
		Jobs:      1,
		Codecs:    EncoderNames(),
		Level:     6,
	}
}

// LoadConfig reads a YAML configuration file. Fields absent from the file
// keep their value from DefaultConfig.
func LoadConfig(file string) (*Config, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("bench: parsing %s: %w", file, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("bench: %s: %w", file, err)
	}
	return cfg, nil
}

// Validate reports the first invalid field of c.
func (c *Config) Validate() error {
	if _, err := c.sizeLimit(); err != nil {
		return err
	}
	if n, err := ParseSize(c.BlockSize); err != nil {
		return fmt.Errorf("invalid block size: %w", err)
	} else if n <= 0 {
		return fmt.Errorf("invalid block size: %d", n)
	}
	if _, err := ParseSentinel(c.Sentinel); err != nil {
		return err
	}
	if _, err := bwt.ParseSortMethod(c.Method); err != nil {
		return err
	}
	if c.Jobs < 0 {
		return fmt.Errorf("invalid number of jobs: %d", c.Jobs)
	}
	if c.Level < 1 || c.Level > 9 {
		return fmt.Errorf("invalid compression level: %d", c.Level)
	}
	for _, name := range c.Codecs {
		if _, ok := Encoders[name]; !ok {
			return fmt.Errorf("unknown codec: %q", name)
		}
	}
	return nil
}

// Transformer returns the bwt.Transformer described by c.
func (c *Config) Transformer() (*bwt.Transformer, error) {
	sentinel, err := ParseSentinel(c.Sentinel)
	if err != nil {
		return nil, err
	}
	method, err := bwt.ParseSortMethod(c.Method)
	if err != nil {
		return nil, err
	}
	return bwt.NewTransformer(
		bwt.WithSentinel(sentinel),
		bwt.WithMethod(method),
		bwt.WithJobs(c.Jobs),
	), nil
}

func (c *Config) sizeLimit() (int, error) {
	if c.Size == "" {
		return -1, nil
	}
	n, err := ParseSize(c.Size)
	if err != nil {
		return 0, fmt.Errorf("invalid size: %w", err)
	}
	return n, nil
}

// ParseSize parses a non-negative byte count that may use a unit prefix.
func ParseSize(s string) (int, error) {
	f, err := strconv.ParsePrefix(s, strconv.AutoParse)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != float64(int(f)) {
		return 0, fmt.Errorf("not a byte count: %q", s)
	}
	return int(f), nil
}

// ParseSentinel parses either a single character or a numeric byte value
// such as "0", "0x00", or "255".
func ParseSentinel(s string) (byte, error) {
	if len(s) == 1 && (s[0] < '0' || s[0] > '9') {
		return s[0], nil
	}
	v, err := stdstrconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid sentinel: %q", s)
	}
	return byte(v), nil
}
