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

// Package profiler computes bounded-sample statistics for one column
// at a time. Given the column's declared type and a finite sequence of
// raw values it produces a statistics record whose shape depends on
// the inferred type family: numeric, textual, temporal or opaque.
package profiler

import (
	"github.com/schemagraph/engine/internal/config"
)

// Result is the tagged-variant statistics record: Common is always
// populated, and at most one of Numeric/Textual/Temporal is set,
// chosen by Family. Err is set when the family-specific statistics
// could not be computed and the column degraded to common-block-only
// statistics; Warning carries the same failure as a
// plain string for inline logging. Err is the raw per-column cause;
// the caller, which knows the table name, wraps it in
// util.NewProfilerDegradedError before logging or returning it.
type Result struct {
	Family   Family
	Common   CommonStats
	Numeric  *NumericStats
	Textual  *TextualStats
	Temporal *TemporalStats
	Warning  string
	Err      error
}

// Profile computes Result for one column. It never returns an error:
// profiler failures degrade the column's statistics rather than
// aborting the run; the failure is recorded in Result.Warning for the
// caller to log and merge into the per-run summary.
func Profile(cfg config.Pipeline, declaredType, columnName string, isPrimaryKey bool, values []any) Result {
	family := InferFamily(declaredType)
	common := computeCommon(values, cfg.SampleSize, cfg.TruncationLength)

	result := Result{Family: family, Common: common}

	switch family {
	case FamilyNumericInteger, FamilyNumericReal, FamilyNumericBoolean:
		stats, err := computeNumeric(values, columnName, isPrimaryKey)
		if err != nil {
			result.Err = err
			result.Warning = err.Error()
			result.Family = FamilyOpaque
			return result
		}
		result.Numeric = &stats
	case FamilyTextual:
		stats := computeTextual(values, cfg.CategoryThreshold, cfg.WordFrequencyTopK)
		result.Textual = &stats
	case FamilyTemporal:
		stats, err := computeTemporal(values)
		if err != nil {
			result.Err = err
			result.Warning = err.Error()
			result.Family = FamilyOpaque
			return result
		}
		result.Temporal = &stats
	}
	return result
}

// ToAttributes flattens Result back into a single map keyed by
// attribute name, matching the artifact's serialized Column node
// shape.
func (r Result) ToAttributes() map[string]any {
	attrs := map[string]any{
		"samples":        r.Common.Samples,
		"null_count":     r.Common.NullCount,
		"data_integrity": r.Common.DataIntegrity,
	}
	if r.Numeric != nil {
		if len(r.Numeric.Range) == 2 {
			attrs["range"] = r.Numeric.Range
			attrs["mean"] = r.Numeric.Mean
		}
		if r.Numeric.Mode != nil {
			attrs["mode"] = *r.Numeric.Mode
		}
	}
	if r.Textual != nil {
		if r.Textual.Categories != nil {
			attrs["categories"] = r.Textual.Categories
		}
		attrs["avg_length"] = r.Textual.AvgLength
		if len(r.Textual.WordFrequency) > 0 {
			attrs["word_frequency"] = r.Textual.WordFrequency
		}
	}
	if r.Temporal != nil && r.Temporal.TimeSpan != "" {
		attrs["time_span"] = r.Temporal.TimeSpan
	}
	return attrs
}
