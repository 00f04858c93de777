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

package profiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemagraph/engine/internal/config"
	"github.com/schemagraph/engine/internal/profiler"
)

func TestInferFamily(t *testing.T) {
	cases := []struct {
		declared string
		want     profiler.Family
	}{
		{"INTEGER", profiler.FamilyNumericInteger},
		{"varchar(10)", profiler.FamilyTextual}, // no "INT" substring
		{"REAL", profiler.FamilyNumericReal},
		{"DOUBLE", profiler.FamilyNumericReal},
		{"DECIMAL(10,2)", profiler.FamilyNumericReal},
		{"BOOLEAN", profiler.FamilyNumericBoolean},
		{"DATETIME", profiler.FamilyTemporal},
		{"TIMESTAMP", profiler.FamilyTemporal},
		{"TEXT", profiler.FamilyTextual},
		{"CLOB", profiler.FamilyTextual},
		{"JSON", profiler.FamilyTextual},
		{"BLOB", profiler.FamilyOpaque},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, profiler.InferFamily(c.declared), "declared=%s", c.declared)
	}
}

func TestProfile_CommonBlock_NullCountAndIntegrity(t *testing.T) {
	cfg := config.Default()
	result := profiler.Profile(cfg, "TEXT", "col", false, []any{"a", nil, "b", nil})
	assert.Equal(t, 2, result.Common.NullCount)
	assert.Equal(t, "50%", result.Common.DataIntegrity)
}

func TestProfile_CommonBlock_EmptyInput(t *testing.T) {
	cfg := config.Default()
	result := profiler.Profile(cfg, "TEXT", "col", false, nil)
	assert.Equal(t, "0%", result.Common.DataIntegrity)
	assert.Equal(t, 0, result.Common.NullCount)
}

func TestProfile_CommonBlock_SamplesTruncatedAndCapped(t *testing.T) {
	cfg := config.Default()
	long := "this value is definitely longer than thirty characters"
	values := []any{long, "a", "b", "c", "d", "e", "f", "g"}
	result := profiler.Profile(cfg, "TEXT", "col", false, values)

	require.Len(t, result.Common.Samples, cfg.SampleSize)
	assert.True(t, len(result.Common.Samples[0]) <= cfg.TruncationLength+3)
	assert.Contains(t, result.Common.Samples[0], "...")
}

func TestProfile_Numeric_RangeAndMean(t *testing.T) {
	cfg := config.Default()
	result := profiler.Profile(cfg, "INTEGER", "score", false, []any{int64(1), int64(2), int64(3), nil})
	require.NotNil(t, result.Numeric)
	assert.Equal(t, []float64{1, 3}, result.Numeric.Range)
	assert.Equal(t, 2.0, result.Numeric.Mean)
}

func TestProfile_Numeric_ModeSuppressedForIdentifiers(t *testing.T) {
	cfg := config.Default()

	// is_primary_key = true suppresses mode even with a repeated value.
	r1 := profiler.Profile(cfg, "INTEGER", "id", true, []any{int64(1), int64(1), int64(2)})
	require.NotNil(t, r1.Numeric)
	assert.Nil(t, r1.Numeric.Mode)

	// column name ending in "id" (case-insensitive) suppresses mode too.
	r2 := profiler.Profile(cfg, "INTEGER", "UserID", false, []any{int64(7), int64(7), int64(9)})
	require.NotNil(t, r2.Numeric)
	assert.Nil(t, r2.Numeric.Mode)
}

func TestProfile_Numeric_ModeRequiresFrequencyGreaterThanOne(t *testing.T) {
	cfg := config.Default()
	result := profiler.Profile(cfg, "INTEGER", "score", false, []any{int64(1), int64(2), int64(3)})
	require.NotNil(t, result.Numeric)
	assert.Nil(t, result.Numeric.Mode)

	result = profiler.Profile(cfg, "INTEGER", "score", false, []any{int64(1), int64(1), int64(3)})
	require.NotNil(t, result.Numeric)
	require.NotNil(t, result.Numeric.Mode)
	assert.Equal(t, 1.0, *result.Numeric.Mode)
}

func TestProfile_Textual_CategoriesWithinThreshold(t *testing.T) {
	cfg := config.Default()
	result := profiler.Profile(cfg, "TEXT", "name", false, []any{"bob", "alice", "bob"})
	require.NotNil(t, result.Textual)
	assert.Equal(t, []string{"alice", "bob"}, result.Textual.Categories)
}

func TestProfile_Textual_CategoriesAbsentAboveThreshold(t *testing.T) {
	cfg := config.Default()
	values := make([]any, 0, 7)
	for _, v := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		values = append(values, v)
	}
	result := profiler.Profile(cfg, "TEXT", "name", false, values)
	require.NotNil(t, result.Textual)
	assert.Nil(t, result.Textual.Categories)
}

func TestProfile_Textual_WordFrequencySingletonCap(t *testing.T) {
	cfg := config.Default()
	// "common" appears 3 times; 17 distinct singleton words follow.
	values := []any{}
	for i := 0; i < 3; i++ {
		values = append(values, "common")
	}
	words := []string{"w1", "w2", "w3", "w4", "w5", "w6", "w7", "w8", "w9", "w10",
		"w11", "w12", "w13", "w14", "w15", "w16", "w17"}
	for _, w := range words {
		values = append(values, w)
	}
	result := profiler.Profile(cfg, "TEXT", "col", false, values)
	require.NotNil(t, result.Textual)

	assert.LessOrEqual(t, len(result.Textual.WordFrequency), cfg.WordFrequencyTopK)
	assert.Equal(t, 3, result.Textual.WordFrequency["common"])

	singletons := 0
	for word, count := range result.Textual.WordFrequency {
		if count == 1 {
			singletons++
			assert.LessOrEqual(t, len(word), 20)
		}
	}
	assert.LessOrEqual(t, singletons, 3)
}

func TestProfile_Temporal_TimeSpan(t *testing.T) {
	cfg := config.Default()
	result := profiler.Profile(cfg, "DATE", "created_at", false, []any{"2024-01-01", "2024-01-05"})
	require.NotNil(t, result.Temporal)
	assert.Equal(t, "4d", result.Temporal.TimeSpan)
}

func TestProfile_Temporal_DegradesWhenUnparseable(t *testing.T) {
	cfg := config.Default()
	result := profiler.Profile(cfg, "DATE", "col", false, []any{"not-a-date", "also-not-a-date"})
	assert.Nil(t, result.Temporal)
	assert.NotEmpty(t, result.Warning)
	assert.Equal(t, profiler.FamilyOpaque, result.Family)
}

func TestResult_ToAttributes_OmitsUnsetFamilyKeys(t *testing.T) {
	cfg := config.Default()
	result := profiler.Profile(cfg, "BLOB", "col", false, []any{"x"})
	attrs := result.ToAttributes()

	_, hasRange := attrs["range"]
	_, hasCategories := attrs["categories"]
	assert.False(t, hasRange)
	assert.False(t, hasCategories)
	assert.Contains(t, attrs, "samples")
	assert.Contains(t, attrs, "null_count")
	assert.Contains(t, attrs, "data_integrity")
}
