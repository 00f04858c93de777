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

package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
)

// ErrDuplicateNode is returned by AddTable when a table with the same
// name was already added.
type ErrDuplicateNode struct{ Key string }

func (e *ErrDuplicateNode) Error() string { return fmt.Sprintf("duplicate node: %q", e.Key) }

// ErrTableNotFound is returned by AddColumn when the owning table has
// not been added yet.
type ErrTableNotFound struct{ Table string }

func (e *ErrTableNotFound) Error() string { return fmt.Sprintf("owning table not found: %q", e.Table) }

// Builder accumulates nodes and edges under construction. It is not
// safe for concurrent use: each pipeline owns one Builder and runs
// single-threaded.
type Builder struct {
	tables    map[string]*TableNode
	columns   map[string]*ColumnNode
	hasColumn []*HasColumnEdge
	fks       []*ForeignKeyEdge
	seenFK    map[string]bool // "from_t|from_c|to_t|to_c" -> true, for idempotent re-declaration
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		tables:  make(map[string]*TableNode),
		columns: make(map[string]*ColumnNode),
		seenFK:  make(map[string]bool),
	}
}

// AddTable inserts a Table node. attrs.Columns/PrimaryKey/ForeignKey
// should be fully populated by the caller; ReferenceTo/ReferencedBy
// are left for Finalize to compute.
func (b *Builder) AddTable(attrs TableNode) (*TableNode, error) {
	if _, exists := b.tables[attrs.Name]; exists {
		return nil, &ErrDuplicateNode{Key: attrs.Name}
	}
	attrs.Type = NodeTypeTable
	attrs.ColumnCount = len(attrs.Columns)
	if attrs.ReferenceTo == nil {
		attrs.ReferenceTo = []string{}
	}
	if attrs.ReferencedBy == nil {
		attrs.ReferencedBy = []string{}
	}
	t := attrs
	b.tables[t.Name] = &t
	return b.tables[t.Name], nil
}

// AddColumn verifies the owning table exists, inserts the Column node
// keyed "{table}.{column}", and inserts the corresponding HAS_COLUMN
// edge in the same call.
func (b *Builder) AddColumn(table string, attrs ColumnNode, relation RelationType) (*ColumnNode, error) {
	if _, ok := b.tables[table]; !ok {
		return nil, &ErrTableNotFound{Table: table}
	}
	attrs.Type = NodeTypeColumn
	attrs.BelongsTo = table
	key := attrs.Key()
	if _, exists := b.columns[key]; exists {
		return nil, &ErrDuplicateNode{Key: key}
	}
	c := attrs
	b.columns[key] = &c

	b.hasColumn = append(b.hasColumn, &HasColumnEdge{
		Type:         EdgeTypeHasColumn,
		From:         table,
		To:           key,
		RelationType: relation,
	})
	return b.columns[key], nil
}

// AddForeignKeyEdge computes reference_path and fk_hash and inserts a
// FOREIGN_KEY edge. An exact duplicate (from_t, from_c, to_t, to_c)
// tuple is rejected silently, so re-declared foreign keys are
// idempotent.
func (b *Builder) AddForeignKeyEdge(fromTable, fromColumn, toTable, toColumn string) *ForeignKeyEdge {
	dedupeKey := fromTable + "|" + fromColumn + "|" + toTable + "|" + toColumn
	if b.seenFK[dedupeKey] {
		return nil
	}
	b.seenFK[dedupeKey] = true

	path := fmt.Sprintf("%s.%s=%s.%s", fromTable, fromColumn, toTable, toColumn)
	edge := &ForeignKeyEdge{
		Type:          EdgeTypeForeignKey,
		FromTable:     fromTable,
		FromColumn:    fromColumn,
		ToTable:       toTable,
		ToColumn:      toColumn,
		ReferencePath: path,
		FKHash:        fkHash(fromTable, fromColumn, toTable, toColumn),
	}
	b.fks = append(b.fks, edge)
	return edge
}

// fkHash is a stable fingerprint of the four-tuple identifying one FK
// relation. It disambiguates parallel FK edges between the same two
// tables and is reproducible across runs on the same inputs.
func fkHash(fromTable, fromColumn, toTable, toColumn string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%s\x00%s\x00%s", fromTable, fromColumn, toTable, toColumn)))
	return hex.EncodeToString(sum[:])[:16]
}

// Finalize walks all FOREIGN_KEY edges and (i) appends reference_path
// to from_table.reference_to and to_table.referenced_by, (ii) sets
// each participating column's is_foreign_key=true, (iii) upgrades the
// HAS_COLUMN relation_type to primary_and_foreign_key where a column
// is both PK and FK.
//
// reference_to/referenced_by are rebuilt from scratch here rather than
// appended-to incrementally, so re-running Finalize (or re-declaring
// an FK) never produces duplicate entries.
func (b *Builder) Finalize() error {
	for _, t := range b.tables {
		t.ReferenceTo = t.ReferenceTo[:0]
		t.ReferencedBy = t.ReferencedBy[:0]
	}

	for _, e := range b.fks {
		fromTable, ok := b.tables[e.FromTable]
		if !ok {
			return fmt.Errorf("foreign key edge %q references unknown table %q", e.ReferencePath, e.FromTable)
		}
		toTable, ok := b.tables[e.ToTable]
		if !ok {
			return fmt.Errorf("foreign key edge %q references unknown table %q", e.ReferencePath, e.ToTable)
		}
		if !slices.Contains(fromTable.ReferenceTo, e.ReferencePath) {
			fromTable.ReferenceTo = append(fromTable.ReferenceTo, e.ReferencePath)
		}
		if !slices.Contains(toTable.ReferencedBy, e.ReferencePath) {
			toTable.ReferencedBy = append(toTable.ReferencedBy, e.ReferencePath)
		}

		fromKey := e.FromTable + "." + e.FromColumn
		col, ok := b.columns[fromKey]
		if !ok {
			return fmt.Errorf("foreign key edge %q references unknown column %q", e.ReferencePath, fromKey)
		}
		col.IsForeignKey = true

		toKey := e.ToTable + "." + e.ToColumn
		if _, ok := b.columns[toKey]; !ok {
			return fmt.Errorf("foreign key edge %q references unknown column %q", e.ReferencePath, toKey)
		}
	}

	for _, he := range b.hasColumn {
		col, ok := b.columns[he.To]
		if !ok {
			return fmt.Errorf("HAS_COLUMN edge references unknown column %q", he.To)
		}
		if col.IsPrimaryKey && col.IsForeignKey {
			he.RelationType = RelationPrimaryAndForeignKey
		} else if col.IsForeignKey && he.RelationType == RelationNormalColumn {
			he.RelationType = RelationForeignKey
		}
	}
	return nil
}

// Graph returns the accumulated graph. Callers should only call this
// after Finalize.
func (b *Builder) Graph() Graph {
	return Graph{
		Tables:      b.tables,
		Columns:     b.columns,
		HasColumn:   b.hasColumn,
		ForeignKeys: b.fks,
	}
}
