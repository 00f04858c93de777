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

// Package config holds the immutable configuration value threaded
// through a pipeline run. Configuration is never read from
// process-wide state; it is decoded once and passed by value to the
// orchestrator.
package config

import (
	"context"
	"fmt"

	yaml "github.com/goccy/go-yaml"
	"github.com/go-playground/validator/v10"
)

// Pipeline is the full set of profiling tunables (row cap, sample
// size, truncation length, category threshold, word-frequency top-k)
// plus the operational knobs (busy timeout, worker pool size).
type Pipeline struct {
	// HardCap bounds the number of rows read per table for profiling.
	// Default 100000.
	HardCap int `yaml:"hardCap" validate:"required,gt=0"`
	// SampleSize is the number of non-null samples retained per
	// column. Default 6.
	SampleSize int `yaml:"sampleSize" validate:"required,gt=0"`
	// TruncationLength is the max length of a textual sample before
	// an ellipsis marker is applied. Default 30.
	TruncationLength int `yaml:"truncationLength" validate:"required,gt=0"`
	// CategoryThreshold is the max distinct-value count for which
	// textual `categories` is emitted. Default 6.
	CategoryThreshold int `yaml:"categoryThreshold" validate:"required,gt=0"`
	// WordFrequencyTopK bounds `word_frequency` entries. Default 10.
	WordFrequencyTopK int `yaml:"wordFrequencyTopK" validate:"required,gt=0"`
	// BusyTimeoutMillis configures SQLite's busy_timeout pragma.
	// Default 5000.
	BusyTimeoutMillis int `yaml:"busyTimeoutMillis" validate:"required,gt=0"`
	// WorkerPoolSize bounds concurrent per-database pipelines in the
	// batch runner. Default() sets 1; the batch command replaces a value
	// of 1 with the number of CPU cores unless --workers is given.
	WorkerPoolSize int `yaml:"workerPoolSize" validate:"required,gt=0"`
}

// Default returns the baseline configuration.
func Default() Pipeline {
	return Pipeline{
		HardCap:           100_000,
		SampleSize:        6,
		TruncationLength:  30,
		CategoryThreshold: 6,
		WordFrequencyTopK: 10,
		BusyTimeoutMillis: 5_000,
		WorkerPoolSize:    1,
	}
}

var validate = validator.New()

// Validate enforces the struct tags above.
func (p Pipeline) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid pipeline configuration: %w", err)
	}
	return nil
}

// Load decodes a YAML configuration file, applying Default() first so
// any field the file omits keeps its default value.
func Load(ctx context.Context, decoder *yaml.Decoder) (Pipeline, error) {
	p := Default()
	if err := decoder.DecodeContext(ctx, &p); err != nil {
		return Pipeline{}, fmt.Errorf("unable to decode pipeline config: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Pipeline{}, err
	}
	return p, nil
}
