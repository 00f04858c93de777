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
	"math"
	"sort"
	"strings"
)

// TextualStats is the statistics block for the textual family.
type TextualStats struct {
	Categories    []string       `json:"categories,omitempty"`
	AvgLength     float64        `json:"avg_length"`
	WordFrequency map[string]int `json:"word_frequency,omitempty"`
}

const maxSingletonWords = 3
const maxSingletonWordLength = 20

// computeTextual computes categories, avg_length and word_frequency
// over the non-nil string values.
func computeTextual(values []any, categoryThreshold, wordFreqTopK int) TextualStats {
	var strs []string
	for _, v := range values {
		if v == nil {
			continue
		}
		strs = append(strs, stringify(v))
	}
	if len(strs) == 0 {
		return TextualStats{}
	}

	distinct := make(map[string]bool, len(strs))
	totalLen := 0
	wordCounts := make(map[string]int)
	for _, s := range strs {
		distinct[s] = true
		totalLen += len([]rune(s))
		for _, w := range strings.Fields(s) {
			wordCounts[w]++
		}
	}

	stats := TextualStats{
		AvgLength: math.Round(float64(totalLen)/float64(len(strs))*10) / 10,
	}

	if len(distinct) <= categoryThreshold {
		cats := make([]string, 0, len(distinct))
		for s := range distinct {
			cats = append(cats, s)
		}
		sort.Strings(cats)
		stats.Categories = cats
	}

	stats.WordFrequency = topWordFrequency(wordCounts, wordFreqTopK)
	return stats
}

// topWordFrequency returns the top-K tokens by descending frequency.
// Of tokens with frequency exactly 1, at most maxSingletonWords are
// retained, and only those with length <= maxSingletonWordLength;
// higher-frequency tokens are never dropped.
func topWordFrequency(counts map[string]int, topK int) map[string]int {
	type kv struct {
		word  string
		count int
	}
	all := make([]kv, 0, len(counts))
	for w, c := range counts {
		all = append(all, kv{w, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].word < all[j].word
	})

	result := make(map[string]int, topK)
	singletonsKept := 0
	for _, e := range all {
		if len(result) >= topK {
			break
		}
		if e.count == 1 {
			if singletonsKept >= maxSingletonWords || len(e.word) > maxSingletonWordLength {
				continue
			}
			singletonsKept++
		}
		result[e.word] = e.count
	}
	return result
}
