// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Ocioperf analyzes OCIO benchmark logs: it parses raw log files
// into a CSV table, aggregates and compares the results, and renders
// charts and reports.
//
// Usage:
//
//	ocioperf [flags] <command>
//
// The commands are:
//
//	parse    parse benchmark logs into the CSV table
//	analyze  generate summaries, comparisons, charts, and reports
//	view     describe and open generated charts
//	all      run parse and analyze in sequence
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/vfxbench/ocioperf/internal/config"
)

func main() {
	app := &cli.Command{
		Name:  "ocioperf",
		Usage: "OCIO benchmark log analysis toolkit",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to configuration file",
				Aliases: []string{"c"},
			},
			&cli.StringFlag{
				Name:  "source-dir",
				Usage: "directory holding benchmark log files",
			},
			&cli.StringFlag{
				Name:  "output-dir",
				Usage: "directory receiving generated artifacts",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "enable debug logging",
				Aliases: []string{"v"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "parse",
				Usage: "Parse benchmark logs into the CSV table",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					p, err := newPipeline(cmd)
					if err != nil {
						return err
					}
					return p.Parse()
				},
			},
			{
				Name:  "analyze",
				Usage: "Generate summaries, comparisons, charts, and reports",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					p, err := newPipeline(cmd)
					if err != nil {
						return err
					}
					return p.Analyze()
				},
			},
			{
				Name:      "view",
				Usage:     "Describe and open generated charts",
				ArgsUsage: "[chart name]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "open",
						Usage: "open charts with the system image viewer",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					p, err := newPipeline(cmd)
					if err != nil {
						return err
					}
					return p.View(os.Stdout, cmd.Args().First(), cmd.Bool("open"))
				},
			},
			{
				Name:  "all",
				Usage: "Run parse and analyze in sequence",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					p, err := newPipeline(cmd)
					if err != nil {
						return err
					}
					if err := p.Parse(); err != nil {
						return err
					}
					return p.Analyze()
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ocioperf: %v\n", err)
		os.Exit(1)
	}
}

// newPipeline loads the configuration, applies command-line
// overrides, and wires up logging.
func newPipeline(cmd *cli.Command) (*Pipeline, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if dir := cmd.String("source-dir"); dir != "" {
		cfg.SourceDir = dir
	}
	if dir := cmd.String("output-dir"); dir != "" {
		cfg.OutputDir = dir
	}
	level := cfg.LogLevel
	if cmd.Bool("verbose") {
		level = "debug"
	}
	return NewPipeline(cfg, newLogger(level)), nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
