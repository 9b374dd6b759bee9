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
	"database/sql"
	"errors"
	"fmt"

	"unianno/db/mysql"
	"unianno/document"
)

// MySQLStore stores analyses as JSON documents in a MySQL table
type MySQLStore struct {
	db *mysql.Adapter
}

// InitSchema creates the analysis table in case it does not exist
func (store *MySQLStore) InitSchema(ctx context.Context) error {
	_, err := store.db.DB().ExecContext(
		ctx,
		fmt.Sprintf(
			"CREATE TABLE IF NOT EXISTS %s ("+
				"id VARCHAR(36) NOT NULL PRIMARY KEY, "+
				"language VARCHAR(20) NOT NULL, "+
				"created DATETIME NOT NULL, "+
				"data LONGTEXT NOT NULL) "+
				"ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
			TableName,
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", TableName, err)
	}
	return nil
}

func (store *MySQLStore) Save(ctx context.Context, analysis *document.Analysis) (string, error) {
	if err := ensureID(analysis); err != nil {
		return "", err
	}
	data, err := encodeAnalysis(analysis)
	if err != nil {
		return "", err
	}
	_, err = store.db.DB().ExecContext(
		ctx,
		fmt.Sprintf(
			"INSERT INTO %s (id, language, created, data) VALUES (?, ?, ?, ?) "+
				"ON DUPLICATE KEY UPDATE language = VALUES(language), data = VALUES(data)",
			TableName,
		),
		analysis.ID, analysis.Language, analysis.Created, data,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save analysis %s: %w", analysis.ID, err)
	}
	return analysis.ID, nil
}

func (store *MySQLStore) Load(ctx context.Context, id string) (*document.Analysis, error) {
	row := store.db.DB().QueryRowContext(
		ctx,
		fmt.Sprintf("SELECT data FROM %s WHERE id = ?", TableName),
		id,
	)
	var data string
	if err := row.Scan(&data); errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound

	} else if err != nil {
		return nil, fmt.Errorf("failed to load analysis %s: %w", id, err)
	}
	return decodeAnalysis(id, data)
}

func (store *MySQLStore) Delete(ctx context.Context, id string) error {
	res, err := store.db.DB().ExecContext(
		ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", TableName),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete analysis %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete analysis %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (store *MySQLStore) Close() error {
	return store.db.Close()
}

func NewMySQLStore(db *mysql.Adapter) *MySQLStore {
	return &MySQLStore{db: db}
}
