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

package profiler

import (
	"fmt"
	"strconv"
	"strings"
)

// NumericStats is the statistics block for the three numeric families.
type NumericStats struct {
	Range []float64 `json:"range,omitempty"`
	Mean  float64   `json:"mean"`
	Mode  *float64  `json:"mode,omitempty"`
}

// computeNumeric parses every non-nil value to float64 (declared-
// decimal values arrive as strings and are parsed to double first)
// and computes range, mean and, conditionally, mode.
func computeNumeric(values []any, columnName string, isPrimaryKey bool) (NumericStats, error) {
	var floats []float64
	for _, v := range values {
		if v == nil {
			continue
		}
		f, err := toFloat64(v)
		if err != nil {
			return NumericStats{}, fmt.Errorf("parsing numeric value %v: %w", v, err)
		}
		floats = append(floats, f)
	}
	if len(floats) == 0 {
		return NumericStats{}, nil
	}

	min, max, sum := floats[0], floats[0], 0.0
	counts := make(map[float64]int, len(floats))
	for _, f := range floats {
		if f < min {
			min = f
		}
		if f > max {
			max = f
		}
		sum += f
		counts[f]++
	}
	mean := sum / float64(len(floats))

	stats := NumericStats{Range: []float64{min, max}, Mean: mean}

	if isIdentifier(columnName, isPrimaryKey) {
		return stats, nil
	}
	var modeVal float64
	modeFreq := 0
	// Iterate in the input's first-seen order so ties are deterministic.
	seen := make(map[float64]bool, len(floats))
	for _, f := range floats {
		if seen[f] {
			continue
		}
		seen[f] = true
		if counts[f] > modeFreq {
			modeFreq = counts[f]
			modeVal = f
		}
	}
	if modeFreq > 1 {
		stats.Mode = &modeVal
	}
	return stats, nil
}

// isIdentifier reports whether mode computation should be suppressed
// for this column: a mode over primary keys or id-suffixed columns is
// noise, not signal.
func isIdentifier(columnName string, isPrimaryKey bool) bool {
	return isPrimaryKey || strings.HasSuffix(strings.ToLower(columnName), "id")
}

func toFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	default:
		return strconv.ParseFloat(fmt.Sprint(x), 64)
	}
}
