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

// Package batch runs independent pipeline.Run invocations
// concurrently, one worker per database file, bounded by a worker
// pool. Workers share no mutable state; a failure in one worker never
// cancels the others.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"go.opentelemetry.io/otel/trace"

	"github.com/schemagraph/engine/internal/artifact"
	"github.com/schemagraph/engine/internal/log"
	"github.com/schemagraph/engine/internal/pipeline"
)

// Result is one database's outcome. Err is non-nil only for a fatal
// pipeline error; non-fatal errors are already folded into
// Document.Summary by pipeline.Run.
type Result struct {
	DatabasePath string
	Document     artifact.Document
	Err          error
}

// RunAll runs one pipeline per job, at most poolSize concurrently. It
// always returns len(jobs) results, in the same order as jobs,
// regardless of how many workers failed.
func RunAll(ctx context.Context, logger log.Logger, tracer trace.Tracer, jobs []pipeline.Options, poolSize int) []Result {
	if poolSize < 1 {
		poolSize = 1
	}

	results := make([]Result, len(jobs))
	g := new(errgroup.Group)
	g.SetLimit(poolSize)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			doc, err := pipeline.Run(ctx, logger, tracer, job)
			results[i] = Result{DatabasePath: job.DatabasePath, Document: doc, Err: err}
			if err != nil {
				logger.ErrorContext(ctx, "pipeline failed", "database", job.DatabasePath, "error", err)
			}
			// Always return nil: a per-database failure is recorded in
			// results[i], not propagated, so errgroup never cancels
			// sibling workers.
			return nil
		})
	}
	_ = g.Wait()
	return results
}
