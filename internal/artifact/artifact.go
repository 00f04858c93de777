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

// Package artifact serializes a completed graph.Graph into the
// portable artifact format consumed by downstream Text-to-SQL and
// graph-analysis tooling. It writes to a temporary path and renames
// atomically on success, so interrupted runs never leave a partial
// artifact visible.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/schemagraph/engine/internal/graph"
)

// RunMetadata identifies one pipeline run in the emitted artifact.
type RunMetadata struct {
	RunID       string    `json:"run_id"`
	Database    string    `json:"database"`
	GeneratedAt time.Time `json:"generated_at"`
	TableCount  int       `json:"table_count"`
	ColumnCount int       `json:"column_count"`
	FKCount     int       `json:"foreign_key_count"`
}

// Summary accumulates the per-run non-fatal error counts, emitted
// alongside the artifact.
type Summary struct {
	MetadataMissing  int `json:"metadata_missing"`
	ProfilerDegraded int `json:"profiler_degraded"`
}

// Document is the full serialized artifact.
type Document struct {
	Run     RunMetadata      `json:"run"`
	Summary Summary          `json:"summary"`
	Nodes   []map[string]any `json:"nodes"`
	Edges   []map[string]any `json:"edges"`
}

// Build flattens g into a Document. Each Column node's Stats map
// (already flattened from the profiler's tagged result by
// profiler.Result.ToAttributes) is merged into that node's attribute
// map so consumers read one uniform key space.
func Build(g graph.Graph, runID, database string, generatedAt time.Time, summary Summary) Document {
	doc := Document{
		Run: RunMetadata{
			RunID:       runID,
			Database:    database,
			GeneratedAt: generatedAt,
			TableCount:  len(g.Tables),
			ColumnCount: len(g.Columns),
			FKCount:     len(g.ForeignKeys),
		},
		Summary: summary,
	}

	// Nodes are emitted in sorted-key order so the same database always
	// produces a byte-identical artifact; edge slices already carry
	// insertion order.
	for _, name := range sortedKeys(g.Tables) {
		doc.Nodes = append(doc.Nodes, tableToMap(g.Tables[name]))
	}
	for _, key := range sortedKeys(g.Columns) {
		doc.Nodes = append(doc.Nodes, columnToMap(g.Columns[key]))
	}
	for _, e := range g.HasColumn {
		doc.Edges = append(doc.Edges, map[string]any{
			"type":          e.Type,
			"from":          e.From,
			"to":            e.To,
			"relation_type": e.RelationType,
		})
	}
	for _, e := range g.ForeignKeys {
		doc.Edges = append(doc.Edges, map[string]any{
			"type":           e.Type,
			"from_table":     e.FromTable,
			"from_column":    e.FromColumn,
			"to_table":       e.ToTable,
			"to_column":      e.ToColumn,
			"reference_path": e.ReferencePath,
			"fk_hash":        e.FKHash,
		})
	}
	return doc
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func tableToMap(t *graph.TableNode) map[string]any {
	return map[string]any{
		"type":          t.Type,
		"name":          t.Name,
		"row_count":     t.RowCount,
		"column_count":  t.ColumnCount,
		"columns":       t.Columns,
		"primary_key":   t.PrimaryKey,
		"foreign_key":   t.ForeignKey,
		"reference_to":  t.ReferenceTo,
		"referenced_by": t.ReferencedBy,
	}
}

func columnToMap(c *graph.ColumnNode) map[string]any {
	m := map[string]any{
		"type":            c.Type,
		"name":            c.Name,
		"belongs_to":      c.BelongsTo,
		"data_type":       c.DataType,
		"is_primary_key":  c.IsPrimaryKey,
		"is_foreign_key":  c.IsForeignKey,
		"is_nullable":     c.IsNullable,
	}
	for k, v := range c.Stats {
		m[k] = v
	}
	if c.ColumnDescription != "" {
		m["column_description"] = c.ColumnDescription
	}
	if c.ValueDescription != "" {
		m["value_description"] = c.ValueDescription
	}
	if c.ProfilerWarning != "" {
		m["profiler_warning"] = c.ProfilerWarning
	}
	return m
}

// WriteAtomic marshals doc as indented JSON to a temp file in the
// same directory as path, then renames it into place. Rename within
// the same filesystem is atomic on POSIX systems, so readers never
// observe a partially written artifact.
func WriteAtomic(path string, doc Document) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".artifact-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp artifact file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp artifact file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming artifact into place: %w", err)
	}
	return nil
}
