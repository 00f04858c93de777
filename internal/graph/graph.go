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

// Package graph accumulates the typed nodes and edges of a schema
// graph into an explicit node map keyed by string, with edge lists
// split by edge type for O(1) iteration over HAS_COLUMN vs.
// FOREIGN_KEY neighborhoods.
package graph

const (
	NodeTypeTable  = "Table"
	NodeTypeColumn = "Column"

	EdgeTypeHasColumn  = "HAS_COLUMN"
	EdgeTypeForeignKey = "FOREIGN_KEY"
)

// RelationType is the HAS_COLUMN edge's relation_type attribute.
type RelationType string

const (
	RelationPrimaryKey           RelationType = "primary_key"
	RelationForeignKey           RelationType = "foreign_key"
	RelationPrimaryAndForeignKey RelationType = "primary_and_foreign_key"
	RelationNormalColumn         RelationType = "normal_column"
)

// TableNode is the Table node variant. ReferenceTo and ReferencedBy
// are denormalized reference-path lists computed by Finalize once all
// FOREIGN_KEY edges are known.
type TableNode struct {
	Type         string   `json:"type"`
	Name         string   `json:"name"`
	RowCount     int64    `json:"row_count"`
	ColumnCount  int      `json:"column_count"`
	Columns      []string `json:"columns"`
	PrimaryKey   []string `json:"primary_key"`
	ForeignKey   []string `json:"foreign_key"`
	ReferenceTo  []string `json:"reference_to"`
	ReferencedBy []string `json:"referenced_by"`
}

// ColumnNode is the Column node variant, keyed "{table}.{column}".
// Stats carries the type-family-tagged statistics block produced by
// the profiler; it is a map so the serializer can flatten it into the
// node's attribute set without re-declaring every family's shape here.
type ColumnNode struct {
	Type         string         `json:"type"`
	Name         string         `json:"name"`
	BelongsTo    string         `json:"belongs_to"`
	DataType     string         `json:"data_type"`
	IsPrimaryKey bool           `json:"is_primary_key"`
	IsForeignKey bool           `json:"is_foreign_key"`
	IsNullable   bool           `json:"is_nullable"`
	Stats        map[string]any `json:"-"`

	ColumnDescription string `json:"column_description,omitempty"`
	ValueDescription  string `json:"value_description,omitempty"`

	// ProfilerWarning names the cause when the profiler degraded to
	// common-block-only statistics.
	ProfilerWarning string `json:"profiler_warning,omitempty"`
}

// Key returns the Column node's global key "{table}.{column}".
func (c ColumnNode) Key() string {
	return c.BelongsTo + "." + c.Name
}

// HasColumnEdge is the Table -> Column structural edge.
type HasColumnEdge struct {
	Type         string       `json:"type"`
	From         string       `json:"from"` // table name
	To           string       `json:"to"`   // column key
	RelationType RelationType `json:"relation_type"`
}

// ForeignKeyEdge is the Table -> Table referential edge. Parallel
// edges between the same tables are permitted when they involve
// different column pairs; FKHash disambiguates them.
type ForeignKeyEdge struct {
	Type          string `json:"type"`
	FromTable     string `json:"from_table"`
	FromColumn    string `json:"from_column"`
	ToTable       string `json:"to_table"`
	ToColumn      string `json:"to_column"`
	ReferencePath string `json:"reference_path"`
	FKHash        string `json:"fk_hash"`
}

// Graph is the completed, read-only view handed to the serializer
// after Builder.Finalize.
type Graph struct {
	Tables      map[string]*TableNode
	Columns     map[string]*ColumnNode
	HasColumn   []*HasColumnEdge
	ForeignKeys []*ForeignKeyEdge
}
