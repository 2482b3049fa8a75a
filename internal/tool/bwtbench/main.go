// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Benchmark tool to report how well the Burrows-Wheeler Transform followed by
// run-length encoding clusters the symbols of a set of files. Each file is
// split into blocks that are transformed, verified by inverse transformation,
// and encoded. The resulting sizes are printed alongside the output of
// reference compressors.
//
// Example usage:
//	$ go run ./internal/tool/bwtbench \
//		--paths      testdata  \
//		--files      twain.txt \
//		--block-size 16384     \
//		--method     doubling  \
//		--codecs     flate,xz
//
// Settings may also be given in a YAML file with --config. Flags that are set
// explicitly override the file.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dsnet/bwt/internal/tool/bench"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		configPath string
		logLevel   string
	)
	def := bench.DefaultConfig()
	flagSet := pflag.NewFlagSet("bwtbench", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "YAML configuration file")
	flagSet.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	paths := flagSet.StringSlice("paths", def.Paths, "list of paths to search for input files")
	files := flagSet.StringSlice("files", nil, "list of input files")
	size := flagSet.String("size", "", "resize every input to this many bytes")
	blockSize := flagSet.String("block-size", def.BlockSize, "maximum number of bytes transformed at once")
	sentinel := flagSet.String("sentinel", def.Sentinel, "sentinel symbol as a character or byte value")
	method := flagSet.String("method", def.Method, "rotation sorting method (rotation, doubling)")
	jobs := flagSet.Int("jobs", def.Jobs, "goroutines used by the rotation method")
	codecs := flagSet.StringSlice("codecs", def.Codecs, "reference codecs to compare against")
	level := flagSet.Int("level", def.Level, "compression level of the reference codecs")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	cfg := def
	if configPath != "" {
		var err error
		if cfg, err = bench.LoadConfig(configPath); err != nil {
			return err
		}
		logger.Debug("loaded configuration", "path", configPath)
	}
	overrides := map[string]func(){
		"paths":      func() { cfg.Paths = *paths },
		"files":      func() { cfg.Files = *files },
		"size":       func() { cfg.Size = *size },
		"block-size": func() { cfg.BlockSize = *blockSize },
		"sentinel":   func() { cfg.Sentinel = *sentinel },
		"method":     func() { cfg.Method = *method },
		"jobs":       func() { cfg.Jobs = *jobs },
		"codecs":     func() { cfg.Codecs = *codecs },
		"level":      func() { cfg.Level = *level },
	}
	for name, apply := range overrides {
		if flagSet.Changed(name) {
			apply()
		}
	}
	cfg.Files = append(cfg.Files, flagSet.Args()...)
	if len(cfg.Files) == 0 {
		return errors.New("no input files")
	}

	analyzer, err := bench.NewAnalyzer(cfg, logger)
	if err != nil {
		return err
	}
	n := -1
	if cfg.Size != "" {
		if n, err = bench.ParseSize(cfg.Size); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ts := time.Now()
	bench.Paths = cfg.Paths
	var reports []*bench.Report
	for _, f := range cfg.Files {
		input, err := bench.LoadFile(f, n)
		if err != nil {
			return err
		}
		logger.Info("analyzing", "file", f, "size", len(input), "method", cfg.Method,
			"codecs", strings.Join(cfg.Codecs, ","))
		rep, err := analyzer.Analyze(ctx, bench.Name(f, len(input)), input)
		if err != nil {
			return err
		}
		reports = append(reports, rep)
	}

	if err := bench.PrintReports(os.Stdout, reports); err != nil {
		return err
	}
	fmt.Printf("RUNTIME: %v\n", time.Since(ts))
	return nil
}
