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

package cmd_test

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemagraph/engine/cmd"
)

func invoke(t *testing.T, args []string) (string, error) {
	t.Helper()
	c := cmd.NewCommand()
	c.SilenceUsage = true
	c.SilenceErrors = true
	buf := new(bytes.Buffer)
	c.SetOut(buf)
	c.SetErr(buf)
	c.SetArgs(args)
	err := c.Execute()
	return buf.String(), err
}

func TestBuild_RequiresDBFlag(t *testing.T) {
	_, err := invoke(t, []string{"build"})
	require.Error(t, err)
}

func TestBuild_WritesArtifact(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.sqlite")

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out := filepath.Join(dir, "graph.json")
	output, err := invoke(t, []string{"build", "--db", dbPath, "--out", out, "--log-level", "ERROR"})
	require.NoError(t, err)
	assert.Contains(t, output, "wrote")
}

func TestBatch_RequiresDirFlag(t *testing.T) {
	_, err := invoke(t, []string{"batch"})
	require.Error(t, err)
}
