// SPDX-License-Identifier: Apache-2.0
/*
Copyright (C) 2025 The sdsys Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package export

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/proto"
	_ "modernc.org/sqlite" // database/sql driver "sqlite"

	"github.com/systemd-go/sdsys/pkg/journal"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS entries (
  seq       INTEGER PRIMARY KEY AUTOINCREMENT,
  cursor    TEXT    NOT NULL UNIQUE,
  realtime  INTEGER NOT NULL,
  monotonic INTEGER NOT NULL,
  boot_id   TEXT    NOT NULL,
  priority  INTEGER,
  message   BLOB    NOT NULL,
  record    BLOB    NOT NULL      -- google.protobuf.Struct, see ToStruct
);
CREATE TABLE IF NOT EXISTS fields (
  seq   INTEGER NOT NULL REFERENCES entries(seq) ON DELETE CASCADE,
  name  TEXT    NOT NULL,
  value BLOB    NOT NULL,
  PRIMARY KEY (seq, name)
);
CREATE INDEX IF NOT EXISTS fields_name_value ON fields(name, value);
`

var errNoCursor = errors.New("entry has no cursor")

// SQLiteWriter stores entries in a SQLite database. Entries are keyed by
// cursor, so writing the same entry twice stores it once.
type SQLiteWriter struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at dsn.
func OpenSQLite(dsn string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	for _, p := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", p, err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteWriter{db: db}, nil
}

func (s *SQLiteWriter) Write(e *journal.Entry) error {
	if e.Cursor == "" {
		return errNoCursor
	}
	record, err := proto.Marshal(ToStruct(e))
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	var prio sql.NullInt64
	if p, ok := e.Priority(); ok {
		prio = sql.NullInt64{Int64: int64(p), Valid: true}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO entries(cursor, realtime, monotonic, boot_id, priority, message, record)
		 VALUES(?, ?, ?, ?, ?, ?, ?) ON CONFLICT(cursor) DO NOTHING`,
		e.Cursor, int64(e.RealtimeUsec), int64(e.MonotonicUsec), bootID(e), prio, []byte(e.Message()), record)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return nil
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for name, value := range e.Fields {
		if _, err := tx.ExecContext(ctx, `INSERT INTO fields(seq, name, value) VALUES(?, ?, ?)`,
			seq, name, []byte(value)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LastCursor returns the cursor of the most recently stored entry, or "" if
// the database is empty. Seeking to it with journal.SeekCursor and skipping
// one entry resumes an export.
func (s *SQLiteWriter) LastCursor() (string, error) {
	var cursor string
	err := s.db.QueryRow(`SELECT cursor FROM entries ORDER BY seq DESC LIMIT 1`).Scan(&cursor)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return cursor, err
}

// Count returns the number of stored entries.
func (s *SQLiteWriter) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n)
	return n, err
}

func (s *SQLiteWriter) Close() error {
	return s.db.Close()
}

func bootID(e *journal.Entry) string {
	if v, ok := e.Fields[journal.FieldBootID]; ok {
		return v
	}
	if e.BootID.IsNull() {
		return ""
	}
	return hex.EncodeToString(e.BootID[:])
}
