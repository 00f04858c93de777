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

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/schemagraph/engine/internal/batch"
	"github.com/schemagraph/engine/internal/pipeline"
)

type batchFlags struct {
	inputDir   string
	outputDir  string
	configPath string
	workers    int
}

func newBatchCommand(root *rootFlags) *cobra.Command {
	flags := &batchFlags{}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Build schema graph artifacts for every *.sqlite file in a directory",
		RunE: func(c *cobra.Command, args []string) error {
			logger, err := newLogger(root)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(c.Context(), flags.configPath)
			if err != nil {
				return err
			}
			if flags.workers > 0 {
				cfg.WorkerPoolSize = flags.workers
			} else if cfg.WorkerPoolSize == 1 {
				cfg.WorkerPoolSize = runtime.NumCPU()
			}

			entries, err := os.ReadDir(flags.inputDir)
			if err != nil {
				return fmt.Errorf("reading input directory: %w", err)
			}
			if err := os.MkdirAll(flags.outputDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			var jobs []pipeline.Options
			for _, e := range entries {
				if e.IsDir() || !strings.HasSuffix(e.Name(), ".sqlite") {
					continue
				}
				dbName := strings.TrimSuffix(e.Name(), ".sqlite")
				jobs = append(jobs, pipeline.Options{
					DatabasePath: filepath.Join(flags.inputDir, e.Name()),
					DatasetRoot:  filepath.Join(flags.inputDir, dbName),
					OutputPath:   filepath.Join(flags.outputDir, dbName+".json"),
					Config:       cfg,
				})
			}

			tracer := otel.Tracer("schemagraph/batch")
			results := batch.RunAll(c.Context(), logger, tracer, jobs, cfg.WorkerPoolSize)

			failures := 0
			for _, r := range results {
				if r.Err != nil {
					failures++
					fmt.Fprintf(c.OutOrStdout(), "%s: FAILED: %v\n", r.DatabasePath, r.Err)
					continue
				}
				fmt.Fprintf(c.OutOrStdout(), "%s: %d tables, %d columns, %d foreign keys\n",
					r.DatabasePath, r.Document.Run.TableCount, r.Document.Run.ColumnCount, r.Document.Run.FKCount)
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d databases failed", failures, len(jobs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.inputDir, "dir", "", "directory containing *.sqlite database files")
	cmd.Flags().StringVar(&flags.outputDir, "out", "out", "directory to write artifacts into")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "optional pipeline configuration YAML file")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "worker pool size (default: number of CPU cores)")
	_ = cmd.MarkFlagRequired("dir")

	return cmd
}
