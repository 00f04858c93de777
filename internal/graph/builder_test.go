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

package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemagraph/engine/internal/graph"
)

func buildTwoTableFK(t *testing.T) *graph.Builder {
	t.Helper()
	b := graph.NewBuilder()

	_, err := b.AddTable(graph.TableNode{Name: "users", Columns: []string{"id", "name"}, PrimaryKey: []string{"id"}})
	require.NoError(t, err)
	_, err = b.AddTable(graph.TableNode{Name: "orders", Columns: []string{"uid", "ord"}, PrimaryKey: []string{"uid", "ord"}, ForeignKey: []string{"uid"}})
	require.NoError(t, err)

	_, err = b.AddColumn("users", graph.ColumnNode{Name: "id", IsPrimaryKey: true}, graph.RelationPrimaryKey)
	require.NoError(t, err)
	_, err = b.AddColumn("users", graph.ColumnNode{Name: "name"}, graph.RelationNormalColumn)
	require.NoError(t, err)
	_, err = b.AddColumn("orders", graph.ColumnNode{Name: "uid", IsPrimaryKey: true}, graph.RelationPrimaryKey)
	require.NoError(t, err)
	_, err = b.AddColumn("orders", graph.ColumnNode{Name: "ord", IsPrimaryKey: true}, graph.RelationPrimaryKey)
	require.NoError(t, err)

	b.AddForeignKeyEdge("orders", "uid", "users", "id")
	return b
}

func TestFinalize_UpgradesPrimaryAndForeignKey(t *testing.T) {
	b := buildTwoTableFK(t)
	require.NoError(t, b.Finalize())
	g := b.Graph()

	col := g.Columns["orders.uid"]
	assert.True(t, col.IsForeignKey)
	assert.True(t, col.IsPrimaryKey)

	var edge *graph.HasColumnEdge
	for _, e := range g.HasColumn {
		if e.To == "orders.uid" {
			edge = e
		}
	}
	require.NotNil(t, edge)
	assert.Equal(t, graph.RelationPrimaryAndForeignKey, edge.RelationType)
}

func TestFinalize_ReferenceToAndReferencedBy(t *testing.T) {
	b := buildTwoTableFK(t)
	require.NoError(t, b.Finalize())
	g := b.Graph()

	assert.Equal(t, []string{"orders.uid=users.id"}, g.Tables["orders"].ReferenceTo)
	assert.Equal(t, []string{"orders.uid=users.id"}, g.Tables["users"].ReferencedBy)
	assert.Empty(t, g.Tables["orders"].ReferencedBy)
	assert.Empty(t, g.Tables["users"].ReferenceTo)
}

func TestFinalize_Idempotent(t *testing.T) {
	b := buildTwoTableFK(t)
	require.NoError(t, b.Finalize())
	require.NoError(t, b.Finalize())
	g := b.Graph()

	assert.Equal(t, []string{"orders.uid=users.id"}, g.Tables["orders"].ReferenceTo)
	assert.Len(t, g.Tables["users"].ReferencedBy, 1)
}

func TestAddForeignKeyEdge_DuplicateTupleIsIdempotent(t *testing.T) {
	b := buildTwoTableFK(t)
	b.AddForeignKeyEdge("orders", "uid", "users", "id")
	require.NoError(t, b.Finalize())

	g := b.Graph()
	assert.Len(t, g.ForeignKeys, 1)
}

func TestAddForeignKeyEdge_ParallelEdgesDisambiguatedByHash(t *testing.T) {
	b := graph.NewBuilder()
	_, _ = b.AddTable(graph.TableNode{Name: "a"})
	_, _ = b.AddTable(graph.TableNode{Name: "b"})

	e1 := b.AddForeignKeyEdge("a", "x", "b", "id")
	e2 := b.AddForeignKeyEdge("a", "y", "b", "id")

	require.NotNil(t, e1)
	require.NotNil(t, e2)
	assert.NotEqual(t, e1.FKHash, e2.FKHash)
	assert.Equal(t, "a.x=b.id", e1.ReferencePath)
	assert.Equal(t, "a.y=b.id", e2.ReferencePath)
}

func TestFinalize_RejectsFKToUnknownTargetColumn(t *testing.T) {
	b := graph.NewBuilder()
	_, err := b.AddTable(graph.TableNode{Name: "a", Columns: []string{"x"}})
	require.NoError(t, err)
	_, err = b.AddTable(graph.TableNode{Name: "b"})
	require.NoError(t, err)
	_, err = b.AddColumn("a", graph.ColumnNode{Name: "x"}, graph.RelationNormalColumn)
	require.NoError(t, err)

	b.AddForeignKeyEdge("a", "x", "b", "missing")
	require.Error(t, b.Finalize())
}

func TestAddTable_RejectsDuplicate(t *testing.T) {
	b := graph.NewBuilder()
	_, err := b.AddTable(graph.TableNode{Name: "a"})
	require.NoError(t, err)

	_, err = b.AddTable(graph.TableNode{Name: "a"})
	require.Error(t, err)
	var dup *graph.ErrDuplicateNode
	assert.ErrorAs(t, err, &dup)
}

func TestAddColumn_RejectsUnknownTable(t *testing.T) {
	b := graph.NewBuilder()
	_, err := b.AddColumn("missing", graph.ColumnNode{Name: "x"}, graph.RelationNormalColumn)
	require.Error(t, err)
	var notFound *graph.ErrTableNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestColumnKey(t *testing.T) {
	c := graph.ColumnNode{Name: "id", BelongsTo: "users"}
	assert.Equal(t, "users.id", c.Key())
}
