// Copyright 2025 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2025 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package docstore

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"unianno/document"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// SQLiteStore stores analyses as JSON documents in an SQLite
// database file
type SQLiteStore struct {
	pool *sqlitex.Pool
}

// InitSchema creates the analysis table in case it does not exist
func (store *SQLiteStore) InitSchema(ctx context.Context) error {
	conn, err := store.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer store.pool.Put(conn)
	script := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s ("+
			"id TEXT NOT NULL PRIMARY KEY, "+
			"language TEXT NOT NULL, "+
			"created TEXT NOT NULL, "+
			"data TEXT NOT NULL);",
		TableName,
	)
	if err := sqlitex.ExecuteScript(conn, script, nil); err != nil {
		return fmt.Errorf("failed to create table %s: %w", TableName, err)
	}
	return nil
}

func (store *SQLiteStore) Save(ctx context.Context, analysis *document.Analysis) (string, error) {
	if err := ensureID(analysis); err != nil {
		return "", err
	}
	data, err := encodeAnalysis(analysis)
	if err != nil {
		return "", err
	}
	conn, err := store.pool.Take(ctx)
	if err != nil {
		return "", err
	}
	defer store.pool.Put(conn)
	err = sqlitex.Execute(
		conn,
		fmt.Sprintf("INSERT OR REPLACE INTO %s (id, language, created, data) VALUES (?, ?, ?, ?)", TableName),
		&sqlitex.ExecOptions{
			Args: []any{analysis.ID, analysis.Language, analysis.Created.Format(time.RFC3339), data},
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to save analysis %s: %w", analysis.ID, err)
	}
	return analysis.ID, nil
}

func (store *SQLiteStore) Load(ctx context.Context, id string) (*document.Analysis, error) {
	conn, err := store.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer store.pool.Put(conn)
	var data string
	var found bool
	err = sqlitex.Execute(
		conn,
		fmt.Sprintf("SELECT data FROM %s WHERE id = ?", TableName),
		&sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				found = true
				data = stmt.ColumnText(0)
				return nil
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis %s: %w", id, err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return decodeAnalysis(id, data)
}

func (store *SQLiteStore) Delete(ctx context.Context, id string) error {
	conn, err := store.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer store.pool.Put(conn)
	err = sqlitex.Execute(
		conn,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", TableName),
		&sqlitex.ExecOptions{Args: []any{id}},
	)
	if err != nil {
		return fmt.Errorf("failed to delete analysis %s: %w", id, err)
	}
	if conn.Changes() == 0 {
		return ErrNotFound
	}
	return nil
}

func (store *SQLiteStore) Close() error {
	return store.pool.Close()
}

// OpenSQLiteStore opens (and creates if needed) an SQLite
// database file
func OpenSQLiteStore(dbPath string) (*SQLiteStore, error) {
	pool, err := sqlitex.NewPool(
		fmt.Sprintf("file:%s", dbPath),
		sqlitex.PoolOptions{PoolSize: runtime.NumCPU()},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database %s: %w", dbPath, err)
	}
	return &SQLiteStore{pool: pool}, nil
}
