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

// Package dal opens a read-only connection to a SQLite file through
// modernc.org/sqlite (pure Go, no cgo) and exposes catalog
// introspection plus bounded row reads.
package dal

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
	"go.opentelemetry.io/otel/trace"

	"github.com/schemagraph/engine/internal/util"
)

// HardCap is the default per-table upper bound on rows read for
// profiling. Callers should pass config.Pipeline.HardCap to
// SampleValues rather than relying on this constant, which only
// documents the default.
const HardCap = 100_000

// ColumnInfo is one row of PRAGMA table_info, normalized.
type ColumnInfo struct {
	Name         string
	DeclaredType string
	IsNullable   bool
	Default      *string
	PKOrdinal    int // 0 if the column is not part of the primary key
}

// ForeignKey is one row of PRAGMA foreign_key_list. ToColumn is nil
// for the omitted-column form SQLite permits, which implies the
// target table's primary key.
type ForeignKey struct {
	FromColumn string
	ToTable    string
	ToColumn   *string
}

// TableSchema is the normalized result of DescribeTable.
type TableSchema struct {
	Columns     []ColumnInfo
	PrimaryKey  []string // ordered by PKOrdinal
	ForeignKeys []ForeignKey
}

// DB wraps a single read-only SQLite connection. Each pipeline owns
// one DB and runs single-threaded against it.
type DB struct {
	conn   *sql.DB
	path   string
	tracer trace.Tracer
}

// Open establishes a read-only connection with the given busy timeout
// in milliseconds. It fails with a *util.SourceUnavailableError if the
// file is missing or not a valid SQLite database.
func Open(ctx context.Context, path string, busyTimeoutMillis int, tracer trace.Tracer) (*DB, error) {
	ctx, span := tracer.Start(ctx, "dal.Open")
	defer span.End()

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(%d)", path, busyTimeoutMillis)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, util.NewSourceUnavailableError("opening sqlite connection", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, util.NewSourceUnavailableError(fmt.Sprintf("database file %q is missing or not a valid database", path), err)
	}
	return &DB{conn: conn, path: path, tracer: tracer}, nil
}

// Close releases the underlying connection. Called once, on pipeline
// completion or failure.
func (d *DB) Close() error {
	return d.conn.Close()
}

// ListTables returns user tables in catalog order, excluding internal
// tables (any name starting with sqlite_).
func (d *DB) ListTables(ctx context.Context) ([]string, error) {
	ctx, span := d.tracer.Start(ctx, "dal.ListTables")
	defer span.End()

	rows, err := d.conn.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
		ORDER BY rowid`)
	if err != nil {
		return nil, util.NewSourceUnavailableError("listing tables", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, util.NewSourceUnavailableError("scanning table name", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, util.NewSourceUnavailableError("iterating tables", err)
	}
	return tables, nil
}

// DescribeTable returns column metadata, the ordered primary key, and
// foreign-key declarations for t.
func (d *DB) DescribeTable(ctx context.Context, t string) (TableSchema, error) {
	ctx, span := d.tracer.Start(ctx, "dal.DescribeTable")
	defer span.End()

	cols, pk, err := d.describeColumns(ctx, t)
	if err != nil {
		return TableSchema{}, err
	}
	fks, err := d.describeForeignKeys(ctx, t)
	if err != nil {
		return TableSchema{}, err
	}
	return TableSchema{Columns: cols, PrimaryKey: pk, ForeignKeys: fks}, nil
}

func (d *DB) describeColumns(ctx context.Context, t string) ([]ColumnInfo, []string, error) {
	rows, err := d.conn.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdent(t)))
	if err != nil {
		return nil, nil, util.NewSourceUnavailableError(fmt.Sprintf("describing table %q", t), err)
	}
	defer rows.Close()

	type pkEntry struct {
		name    string
		ordinal int
	}
	var cols []ColumnInfo
	var pks []pkEntry
	for rows.Next() {
		var cid int
		var name, declType string
		var notNull int
		var dflt sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &declType, &notNull, &dflt, &pk); err != nil {
			return nil, nil, util.NewSourceUnavailableError(fmt.Sprintf("scanning table_info for %q", t), err)
		}
		var defaultVal *string
		if dflt.Valid {
			v := dflt.String
			defaultVal = &v
		}
		cols = append(cols, ColumnInfo{
			Name:         name,
			DeclaredType: strings.ToUpper(declType),
			IsNullable:   notNull == 0,
			Default:      defaultVal,
			PKOrdinal:    pk,
		})
		if pk > 0 {
			pks = append(pks, pkEntry{name: name, ordinal: pk})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, util.NewSourceUnavailableError(fmt.Sprintf("iterating table_info for %q", t), err)
	}
	if len(cols) == 0 {
		return nil, nil, util.NewSourceUnavailableError(fmt.Sprintf("table %q has no columns or does not exist", t), nil)
	}

	sort.Slice(pks, func(i, j int) bool { return pks[i].ordinal < pks[j].ordinal })
	pk := make([]string, 0, len(pks))
	for _, e := range pks {
		pk = append(pk, e.name)
	}
	return cols, pk, nil
}

func (d *DB) describeForeignKeys(ctx context.Context, t string) ([]ForeignKey, error) {
	rows, err := d.conn.QueryContext(ctx, fmt.Sprintf(`PRAGMA foreign_key_list(%s)`, quoteIdent(t)))
	if err != nil {
		return nil, util.NewSourceUnavailableError(fmt.Sprintf("describing foreign keys for %q", t), err)
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		var id, seq int
		var table, from string
		var to sql.NullString
		var onUpdate, onDelete, match string
		if err := rows.Scan(&id, &seq, &table, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, util.NewSourceUnavailableError(fmt.Sprintf("scanning foreign_key_list for %q", t), err)
		}
		fk := ForeignKey{FromColumn: from, ToTable: table}
		if to.Valid && to.String != "" {
			v := to.String
			fk.ToColumn = &v
		}
		fks = append(fks, fk)
	}
	if err := rows.Err(); err != nil {
		return nil, util.NewSourceUnavailableError(fmt.Sprintf("iterating foreign_key_list for %q", t), err)
	}
	return fks, nil
}

// RowCount returns the true row count of t, unbounded by the
// profiling cap: the Table node's row_count reflects the actual count
// even when sampling is truncated.
func (d *DB) RowCount(ctx context.Context, t string) (int64, error) {
	ctx, span := d.tracer.Start(ctx, "dal.RowCount")
	defer span.End()

	var n int64
	row := d.conn.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, quoteIdent(t)))
	if err := row.Scan(&n); err != nil {
		return 0, util.NewSourceUnavailableError(fmt.Sprintf("counting rows of %q", t), err)
	}
	return n, nil
}

// SampleValues reads the first limit rows of column c in table t, in
// storage order. Determinism is preferred over statistical randomness
// at scale so artifacts are reproducible.
func (d *DB) SampleValues(ctx context.Context, t, c string, limit int) ([]any, error) {
	ctx, span := d.tracer.Start(ctx, "dal.SampleValues")
	defer span.End()

	rows, err := d.conn.QueryContext(ctx, fmt.Sprintf(`SELECT %s FROM %s LIMIT ?`, quoteIdent(c), quoteIdent(t)), limit)
	if err != nil {
		return nil, util.NewSourceUnavailableError(fmt.Sprintf("sampling %q.%q", t, c), err)
	}
	defer rows.Close()

	var values []any
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, util.NewSourceUnavailableError(fmt.Sprintf("scanning sample of %q.%q", t, c), err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, util.NewSourceUnavailableError(fmt.Sprintf("iterating sample of %q.%q", t, c), err)
	}
	return values, nil
}

// quoteIdent wraps a SQLite identifier in double quotes, escaping any
// embedded quote, so table/column names that collide with keywords or
// contain spaces remain valid identifiers in interpolated PRAGMA/DDL
// statements (PRAGMA does not support bind parameters for table names).
func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
