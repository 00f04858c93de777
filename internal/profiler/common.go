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
	"math"
)

// CommonStats is computed for every column regardless of type family.
type CommonStats struct {
	Samples       []string `json:"samples"`
	NullCount     int      `json:"null_count"`
	DataIntegrity string   `json:"data_integrity"`
}

const ellipsis = "..."

// computeCommon builds the common block. values may contain nils
// representing SQL NULL. sampleSize and truncationLength come from
// config.Pipeline.
func computeCommon(values []any, sampleSize, truncationLength int) CommonStats {
	var samples []string
	nullCount := 0
	total := len(values)

	for _, v := range values {
		if v == nil {
			nullCount++
			continue
		}
		if len(samples) >= sampleSize {
			continue
		}
		s := stringify(v)
		if r := []rune(s); len(r) > truncationLength {
			s = string(r[:truncationLength]) + ellipsis
		}
		samples = append(samples, s)
	}
	if samples == nil {
		samples = []string{}
	}

	integrity := "0%"
	if total > 0 {
		nonNull := total - nullCount
		pct := int(math.Round(100 * float64(nonNull) / float64(total)))
		integrity = fmt.Sprintf("%d%%", pct)
	}

	return CommonStats{
		Samples:       samples,
		NullCount:     nullCount,
		DataIntegrity: integrity,
	}
}

func stringify(v any) string {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
