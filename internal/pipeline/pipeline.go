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

// Package pipeline drives the database access layer, metadata loader,
// data profiler and graph builder through four deterministic phases
// and hands the finished graph to the artifact serializer.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/schemagraph/engine/internal/artifact"
	"github.com/schemagraph/engine/internal/config"
	"github.com/schemagraph/engine/internal/dal"
	"github.com/schemagraph/engine/internal/graph"
	"github.com/schemagraph/engine/internal/log"
	"github.com/schemagraph/engine/internal/metadata"
	"github.com/schemagraph/engine/internal/profiler"
	"github.com/schemagraph/engine/internal/util"
)

// Options configures one pipeline run.
type Options struct {
	DatabasePath string // path to the SQLite file
	DatasetRoot  string // directory that may contain database_description/
	OutputPath   string // artifact destination
	Config       config.Pipeline
}

// Run executes the full pipeline for one database and writes the
// resulting artifact. A fatal error (SourceUnavailable,
// UnresolvableFK) aborts the run and leaves no artifact on disk.
// Non-fatal errors (ProfilerDegraded, MetadataMissing) are folded
// into the artifact's summary and never returned.
func Run(ctx context.Context, logger log.Logger, tracer trace.Tracer, opts Options) (artifact.Document, error) {
	runID := uuid.New().String()
	ctx, span := tracer.Start(ctx, "pipeline.Run")
	defer span.End()
	logger.InfoContext(ctx, "pipeline starting", "run_id", runID, "database", opts.DatabasePath)

	db, err := dal.Open(ctx, opts.DatabasePath, opts.Config.BusyTimeoutMillis, tracer)
	if err != nil {
		return artifact.Document{}, err
	}
	defer db.Close()

	tables, err := db.ListTables(ctx)
	if err != nil {
		return artifact.Document{}, err
	}

	mdSet := metadata.Load(ctx, logger, opts.DatasetRoot, tables)

	builder := graph.NewBuilder()
	schemas := make(map[string]dal.TableSchema, len(tables))

	// Phase 1: tables.
	logger.InfoContext(ctx, "phase 1: tables", "run_id", runID, "count", len(tables))
	for _, t := range tables {
		rowCount, err := db.RowCount(ctx, t)
		if err != nil {
			return artifact.Document{}, err
		}
		schema, err := db.DescribeTable(ctx, t)
		if err != nil {
			return artifact.Document{}, err
		}
		schemas[t] = schema

		columns := make([]string, 0, len(schema.Columns))
		for _, c := range schema.Columns {
			columns = append(columns, c.Name)
		}
		fkCols := fkColumnNames(schema.ForeignKeys)

		if _, err := builder.AddTable(graph.TableNode{
			Name:       t,
			RowCount:   rowCount,
			Columns:    columns,
			PrimaryKey: schema.PrimaryKey,
			ForeignKey: fkCols,
		}); err != nil {
			return artifact.Document{}, util.NewSourceUnavailableError(fmt.Sprintf("adding table node %q", t), err)
		}
	}

	// Phase 2: columns and profiles.
	profilerDegraded := 0
	logger.InfoContext(ctx, "phase 2: columns and profiles", "run_id", runID)
	for _, t := range tables {
		schema := schemas[t]
		pkSet := toSet(schema.PrimaryKey)

		for _, c := range schema.Columns {
			isPK := pkSet[c.Name]
			// FK upgrade is deferred to Finalize (phase 4): a column that
			// is FK-only is tagged "normal_column" here and promoted later.
			relation := graph.RelationNormalColumn
			if isPK {
				relation = graph.RelationPrimaryKey
			}

			values, err := db.SampleValues(ctx, t, c.Name, opts.Config.HardCap)
			if err != nil {
				return artifact.Document{}, err
			}

			profile := profiler.Profile(opts.Config, c.DeclaredType, c.Name, isPK, values)

			node := graph.ColumnNode{
				Name:         c.Name,
				DataType:     c.DeclaredType,
				IsPrimaryKey: isPK,
				IsNullable:   c.IsNullable,
				Stats:        profile.ToAttributes(),
			}
			if profile.Err != nil {
				degraded := util.NewProfilerDegradedError(t, c.Name, profile.Err)
				node.ProfilerWarning = degraded.Error()
				profilerDegraded++
				logger.WarnContext(ctx, "profiler degraded", "table", t, "column", c.Name, "cause", degraded)
			}
			if desc, ok := mdSet.Get(t, c.Name); ok {
				node.ColumnDescription = desc.ColumnDescription
				node.ValueDescription = desc.ValueDescription
			}

			if _, err := builder.AddColumn(t, node, relation); err != nil {
				return artifact.Document{}, util.NewSourceUnavailableError(fmt.Sprintf("adding column node %q.%q", t, c.Name), err)
			}
		}
	}

	// Phase 3: foreign keys.
	logger.InfoContext(ctx, "phase 3: foreign keys", "run_id", runID)
	for _, t := range tables {
		schema := schemas[t]
		for _, fk := range schema.ForeignKeys {
			toColumn := ""
			if fk.ToColumn != nil {
				toColumn = *fk.ToColumn
			} else {
				// A FOREIGN_KEY edge carries exactly one to_column.
				// When the target's primary key is composite there is
				// no single column to resolve an omitted target
				// against, so it is treated the same as "no primary
				// key": unresolvable, rather than an arbitrary pick
				// among the composite columns.
				targetPK := schemas[fk.ToTable].PrimaryKey
				if len(targetPK) != 1 {
					return artifact.Document{}, util.NewUnresolvableFKError(t, fk.FromColumn, fk.ToTable)
				}
				toColumn = targetPK[0]
			}
			builder.AddForeignKeyEdge(t, fk.FromColumn, fk.ToTable, toColumn)
		}
	}

	// Phase 4: finalize and emit.
	logger.InfoContext(ctx, "phase 4: finalize and emit", "run_id", runID)
	if err := builder.Finalize(); err != nil {
		return artifact.Document{}, util.NewSourceUnavailableError("finalizing graph", err)
	}

	summary := artifact.Summary{
		MetadataMissing:  mdSet.Missing,
		ProfilerDegraded: profilerDegraded,
	}
	doc := artifact.Build(builder.Graph(), runID, opts.DatabasePath, time.Now().UTC(), summary)

	if err := artifact.WriteAtomic(opts.OutputPath, doc); err != nil {
		return artifact.Document{}, fmt.Errorf("writing artifact: %w", err)
	}

	logger.InfoContext(ctx, "pipeline complete", "run_id", runID,
		"tables", doc.Run.TableCount, "columns", doc.Run.ColumnCount, "foreign_keys", doc.Run.FKCount,
		"metadata_missing", summary.MetadataMissing, "profiler_degraded", summary.ProfilerDegraded)

	return doc, nil
}

func fkColumnNames(fks []dal.ForeignKey) []string {
	seen := make(map[string]bool, len(fks))
	var cols []string
	for _, fk := range fks {
		if !seen[fk.FromColumn] {
			seen[fk.FromColumn] = true
			cols = append(cols, fk.FromColumn)
		}
	}
	return cols
}

func toSet(items []string) map[string]bool {
	s := make(map[string]bool, len(items))
	for _, it := range items {
		s[it] = true
	}
	return s
}
