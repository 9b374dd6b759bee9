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
	"errors"
	"fmt"

	"unianno/db/mysql"

	"github.com/czcorpus/vert-tagextract/v3/db"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnsupportedDB = errors.New("unsupported database type")
)

// Open creates a store based on the provided database configuration.
// With no configuration, an in-memory store is returned.
func Open(ctx context.Context, conf *db.Conf) (Store, error) {
	if conf == nil {
		log.Info().Msg("no database configured, using in-memory document store")
		return NewMemoryStore(), nil
	}
	switch conf.Type {
	case "mysql":
		adapter, err := mysql.OpenDB(*conf)
		if err != nil {
			return nil, fmt.Errorf("failed to open document store: %w", err)
		}
		if err := adapter.WaitForServer(ctx, mysql.DfltPingMaxElapsedTime); err != nil {
			return nil, fmt.Errorf("failed to open document store: %w", err)
		}
		store := NewMySQLStore(adapter)
		if err := store.InitSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to open document store: %w", err)
		}
		log.Info().Msgf("using MySQL document store %s@%s", adapter.DBName(), conf.Host)
		return store, nil
	case "sqlite":
		store, err := OpenSQLiteStore(conf.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to open document store: %w", err)
		}
		if err := store.InitSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to open document store: %w", err)
		}
		log.Info().Msgf("using SQLite document store %s", conf.Name)
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDB, conf.Type)
	}
}
