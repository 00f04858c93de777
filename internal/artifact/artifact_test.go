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

package artifact_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemagraph/engine/internal/artifact"
	"github.com/schemagraph/engine/internal/graph"
)

func TestBuild_FlattensNodesAndEdges(t *testing.T) {
	b := graph.NewBuilder()
	_, err := b.AddTable(graph.TableNode{Name: "users", Columns: []string{"id"}, PrimaryKey: []string{"id"}})
	require.NoError(t, err)
	_, err = b.AddColumn("users", graph.ColumnNode{
		Name:         "id",
		IsPrimaryKey: true,
		Stats:        map[string]any{"null_count": 0},
	}, graph.RelationPrimaryKey)
	require.NoError(t, err)
	require.NoError(t, b.Finalize())

	doc := artifact.Build(b.Graph(), "run-1", "test.db", time.Unix(0, 0).UTC(), artifact.Summary{})

	require.Len(t, doc.Nodes, 2)
	require.Len(t, doc.Edges, 1)

	var tableNode, columnNode map[string]any
	for _, n := range doc.Nodes {
		switch n["type"] {
		case graph.NodeTypeTable:
			tableNode = n
		case graph.NodeTypeColumn:
			columnNode = n
		}
	}
	require.NotNil(t, tableNode)
	require.NotNil(t, columnNode)
	assert.Equal(t, "users", tableNode["name"])
	assert.Equal(t, 0, columnNode["null_count"])
	assert.Equal(t, graph.EdgeTypeHasColumn, doc.Edges[0]["type"])
}

func TestBuild_NodeOrderIsDeterministic(t *testing.T) {
	b := graph.NewBuilder()
	for _, name := range []string{"t3", "t1", "t2"} {
		_, err := b.AddTable(graph.TableNode{Name: name, Columns: []string{"a"}})
		require.NoError(t, err)
		_, err = b.AddColumn(name, graph.ColumnNode{Name: "a"}, graph.RelationNormalColumn)
		require.NoError(t, err)
	}
	require.NoError(t, b.Finalize())

	doc := artifact.Build(b.Graph(), "run-1", "test.db", time.Unix(0, 0).UTC(), artifact.Summary{})

	var got []string
	for _, n := range doc.Nodes {
		got = append(got, n["name"].(string)+"/"+n["type"].(string))
	}
	want := []string{
		"t1/Table", "t2/Table", "t3/Table",
		"a/Column", "a/Column", "a/Column",
	}
	assert.Equal(t, want, got, "nodes must be emitted in sorted-key order regardless of insertion order")
}

func TestWriteAtomic_ProducesValidJSONAndNoLeftoverTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")

	doc := artifact.Document{Run: artifact.RunMetadata{RunID: "r1", Database: "x.db"}}
	require.NoError(t, artifact.WriteAtomic(path, doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded artifact.Document
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "r1", decoded.Run.RunID)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp file should remain after a successful atomic write")
}
