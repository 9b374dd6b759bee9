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

package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	db "github.com/czcorpus/vert-tagextract/v3/db"
	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
)

const (
	DfltPingInitialInterval = 500 * time.Millisecond
	DfltPingMaxElapsedTime  = 30 * time.Second
)

type Adapter struct {
	db     *sql.DB
	dbName string
}

func (a *Adapter) DB() *sql.DB {
	return a.db
}

func (a *Adapter) DBName() string {
	return a.dbName
}

func (a *Adapter) Close() error {
	return a.db.Close()
}

// WaitForServer pings the database until it responds or until
// maxElapsed is reached. The retry interval grows exponentially.
// This is mostly useful for deployments where the database starts
// along with the service.
func (a *Adapter) WaitForServer(ctx context.Context, maxElapsed time.Duration) error {
	bkoff := backoff.NewExponentialBackOff()
	bkoff.InitialInterval = DfltPingInitialInterval
	bkoff.MaxElapsedTime = maxElapsed
	var attempt int
	operation := func() error {
		attempt++
		err := a.db.PingContext(ctx)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("database not ready")
		}
		return err
	}
	if err := backoff.Retry(operation, backoff.WithContext(bkoff, ctx)); err != nil {
		return fmt.Errorf("failed to connect to database %s: %w", a.dbName, err)
	}
	return nil
}

func OpenDB(conf db.Conf) (*Adapter, error) {
	mconf := mysql.NewConfig()
	mconf.Net = "tcp"
	mconf.Addr = conf.Host
	mconf.User = conf.User
	mconf.Passwd = conf.Password
	mconf.DBName = conf.Name
	mconf.ParseTime = true
	mconf.Loc = time.Local
	mconf.Params = map[string]string{"autocommit": "true"}
	db, err := sql.Open("mysql", mconf.FormatDSN())
	if err != nil {
		return nil, err
	}
	return &Adapter{db: db, dbName: mconf.DBName}, nil
}
