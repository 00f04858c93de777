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

// Package metadata locates an optional database_description/
// directory co-located with a database and returns a (table, column)
// -> description lookup. Malformed or absent files are non-fatal:
// they are logged and skipped.
package metadata

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/schemagraph/engine/internal/log"
	"github.com/schemagraph/engine/internal/util"
)

// Description is the human-authored text attached to one column.
type Description struct {
	ColumnDescription string
	ValueDescription  string
}

// Key identifies a column within a loaded description set.
type Key struct {
	Table  string
	Column string
}

// Set is the full (table, column) -> Description lookup for one
// database. A Set is always usable, even when empty: callers look up
// descriptions with Get and treat a missing entry as "no description".
type Set struct {
	entries map[Key]Description
	// Missing counts tables whose description file is absent,
	// unreadable, malformed or has no usable rows (every table when the
	// directory is absent), surfaced in the per-run summary. A column
	// missing from an otherwise usable file is not counted.
	Missing int
}

// Get returns the description for (table, column), if any.
func (s Set) Get(table, column string) (Description, bool) {
	d, ok := s.entries[Key{Table: table, Column: column}]
	return d, ok
}

// recognized CSV header names.
const (
	colOriginalColumnName = "original_column_name"
	colColumnDescription  = "column_description"
	colValueDescription   = "value_description"
)

// Load reads datasetRoot/database_description/<table>.csv for every
// table named in tables. A missing directory or missing per-table
// file is not an error: it simply contributes to Set.Missing.
func Load(ctx context.Context, logger log.Logger, datasetRoot string, tables []string) Set {
	set := Set{entries: make(map[Key]Description)}

	dir := filepath.Join(datasetRoot, "database_description")
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		set.Missing += len(tables)
		return set
	}

	for _, table := range tables {
		path := filepath.Join(dir, table+".csv")
		n, err := loadTableFile(path, table, set.entries)
		if err != nil {
			logger.WarnContext(ctx, "metadata file skipped", "table", table, "path", path, "error", util.NewMetadataMissingError(path, err))
			set.Missing++
			continue
		}
		if n == 0 {
			set.Missing++
		}
	}
	return set
}

// loadTableFile parses one per-table description CSV, inserting every
// recognized row into entries. It returns the number of rows it was
// able to use.
func loadTableFile(path, table string, entries map[Key]Description) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("reading header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.ToLower(h))] = i
	}
	colIdx, ok := idx[colOriginalColumnName]
	if !ok {
		return 0, fmt.Errorf("missing %q column in %s", colOriginalColumnName, path)
	}

	n := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, fmt.Errorf("reading row: %w", err)
		}
		if colIdx >= len(record) {
			continue
		}
		column := strings.TrimSpace(record[colIdx])
		if column == "" {
			continue
		}
		entries[Key{Table: table, Column: column}] = Description{
			ColumnDescription: fieldAt(record, idx, colColumnDescription),
			ValueDescription:  fieldAt(record, idx, colValueDescription),
		}
		n++
	}
	return n, nil
}

func fieldAt(record []string, idx map[string]int, key string) string {
	i, ok := idx[key]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
