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

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/schemagraph/engine/internal/pipeline"
)

type buildFlags struct {
	database    string
	datasetRoot string
	output      string
	configPath  string
}

func newBuildCommand(root *rootFlags) *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a schema graph artifact for a single SQLite database",
		RunE: func(c *cobra.Command, args []string) error {
			logger, err := newLogger(root)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(c.Context(), flags.configPath)
			if err != nil {
				return err
			}
			tracer := otel.Tracer("schemagraph/build")

			doc, err := pipeline.Run(c.Context(), logger, tracer, pipeline.Options{
				DatabasePath: flags.database,
				DatasetRoot:  flags.datasetRoot,
				OutputPath:   flags.output,
				Config:       cfg,
			})
			if err != nil {
				return fmt.Errorf("build failed: %w", err)
			}
			fmt.Fprintf(c.OutOrStdout(), "wrote %s (%d tables, %d columns, %d foreign keys)\n",
				flags.output, doc.Run.TableCount, doc.Run.ColumnCount, doc.Run.FKCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.database, "db", "", "path to the SQLite database file")
	cmd.Flags().StringVar(&flags.datasetRoot, "dataset-root", "", "directory that may contain database_description/")
	cmd.Flags().StringVar(&flags.output, "out", "graph.json", "artifact output path")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "optional pipeline configuration YAML file")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}
