// Copyright 2026 The Schema Graph Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd wires the pipeline and batch packages to a cobra
// command tree: argument parsing and path configuration only, no
// engine logic.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/schemagraph/engine/internal/config"
	"github.com/schemagraph/engine/internal/log"
)

// Command wraps cobra.Command so tests can construct the full command
// tree and invoke it with buffered output.
type Command struct {
	*cobra.Command
	tracerProvider *sdktrace.TracerProvider
}

type rootFlags struct {
	logFormat string
	logLevel  string
}

// NewCommand builds the root command and attaches the build/batch
// subcommands.
func NewCommand() *Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     "schemagraph",
		Short:   "Build a schema graph artifact from a SQLite database",
		Version: "0.1.0",
	}
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "standard", "logging format: standard or json")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", log.Info, "logging level: DEBUG, INFO, WARN, ERROR")

	// A real SDK tracer provider, not the otel default no-op one, so
	// the spans internal/dal and internal/pipeline open carry valid
	// trace/span IDs that internal/log's span handler can attach to
	// structured log lines. No exporter is registered: shipping spans
	// to a backend is a deployment concern outside this engine's scope,
	// but the spans themselves are real and recording.
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	otel.SetTracerProvider(tp)

	c := &Command{Command: rootCmd, tracerProvider: tp}
	rootCmd.PersistentPostRunE = func(*cobra.Command, []string) error {
		return tp.Shutdown(context.Background())
	}
	rootCmd.AddCommand(newBuildCommand(flags))
	rootCmd.AddCommand(newBatchCommand(flags))
	return c
}

func newLogger(flags *rootFlags) (log.Logger, error) {
	return log.NewLogger(flags.logFormat, flags.logLevel, os.Stdout, os.Stderr)
}

func loadConfig(ctx context.Context, path string) (config.Pipeline, error) {
	if path == "" {
		return config.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return config.Pipeline{}, fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()
	return config.Load(ctx, yamlDecoder(f))
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewCommand().Execute()
}
