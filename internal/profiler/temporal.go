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
	"strings"
	"time"
)

// TemporalStats is the statistics block for the temporal family.
type TemporalStats struct {
	TimeSpan string `json:"time_span,omitempty"`
}

// timestampLayouts are tried in order; the first that parses wins.
// Unparseable values are counted as nulls for time_span only, never
// for the common block's null_count.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
	"15:04:05",
}

// computeTemporal returns an error (profiler degradation) when every
// non-nil value fails to parse under any known layout.
func computeTemporal(values []any) (TemporalStats, error) {
	var times []time.Time
	attempted := 0
	for _, v := range values {
		if v == nil {
			continue
		}
		attempted++
		s := strings.TrimSpace(stringify(v))
		if t, ok := parseTimestamp(s); ok {
			times = append(times, t)
		}
	}
	if attempted > 0 && len(times) == 0 {
		return TemporalStats{}, fmt.Errorf("no parseable temporal value among %d non-null inputs", attempted)
	}
	if len(times) == 0 {
		return TemporalStats{}, nil
	}

	min, max := times[0], times[0]
	for _, t := range times {
		if t.Before(min) {
			min = t
		}
		if t.After(max) {
			max = t
		}
	}
	d := max.Sub(min)
	return TemporalStats{TimeSpan: formatSpan(d)}, nil
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatSpan renders d as a coarse "{days}d" / "{hours}h" duration
// string.
func formatSpan(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	days := int(d.Hours() / 24)
	if days >= 1 {
		return fmt.Sprintf("%dd", days)
	}
	hours := int(d.Hours())
	return fmt.Sprintf("%dh", hours)
}
