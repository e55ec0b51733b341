// Package sqliteindex persists a [sdc.Controller]'s indexed block structure
// to a SQLite database, so a long-lived process can warm-start without
// re-scanning every document on every restart. It is optional and sits
// entirely outside [sdc.Controller]'s hot path. No row data is persisted —
// rows are always (re)read live through the owning [sdc.Loader]; only a
// block's type, location, validity range, and declared columns are
// snapshotted.
package sqliteindex

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sdc-go/sdc/pkg/sdc"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS blocks (
	seq         INTEGER PRIMARY KEY,
	loader_name TEXT NOT NULL,
	doc_id      TEXT NOT NULL,
	type        TEXT NOT NULL,
	line        INTEGER NOT NULL,
	valid_from  TEXT NOT NULL,
	valid_to    TEXT NOT NULL,
	columns     TEXT NOT NULL
);`

// Store wraps a SQLite database holding one snapshot's worth of blocks.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures its schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqliteindex: open %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqliteindex: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

type row struct {
	Seq        int
	LoaderName string
	DocID      string
	Type       string
	Line       int
	ValidFrom  string
	ValidTo    string
	Columns    string
}

// Snapshot replaces the database's contents with refs, formatting each
// block's validity range with traits.Format.
func Snapshot[K comparable](ctx context.Context, s *Store, traits sdc.KeyTraits[K], refs []sdc.BlockRef[K]) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqliteindex: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM blocks"); err != nil {
		return fmt.Errorf("sqliteindex: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO blocks (seq, loader_name, doc_id, type, line, valid_from, valid_to, columns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqliteindex: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range refs {
		columnsJSON, err := json.Marshal(r.Columns)
		if err != nil {
			return fmt.Errorf("sqliteindex: encode columns: %w", err)
		}

		from, to := "", ""
		if !traits.IsUnset(r.Validity.From) {
			from = traits.Format(r.Validity.From)
		}
		if !traits.IsUnset(r.Validity.To) {
			to = traits.Format(r.Validity.To)
		}

		if _, err := stmt.ExecContext(ctx, i, r.LoaderName, r.DocID, r.Type, r.Line, from, to, string(columnsJSON)); err != nil {
			return fmt.Errorf("sqliteindex: insert block %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Restore reads every block back out in snapshot order, parsing validity
// bounds with traits.Parse. The returned refs are ready to pass to
// [sdc.Controller.RestoreBlocks], once every loader named by LoaderName has
// been registered via [sdc.Controller.AddLoader].
func Restore[K comparable](ctx context.Context, s *Store, traits sdc.KeyTraits[K]) ([]sdc.BlockRef[K], error) {
	rows, err := s.db.QueryContext(ctx, `SELECT seq, loader_name, doc_id, type, line, valid_from, valid_to, columns FROM blocks ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("sqliteindex: query: %w", err)
	}
	defer rows.Close()

	var out []sdc.BlockRef[K]

	for rows.Next() {
		var r row
		if err := rows.Scan(&r.Seq, &r.LoaderName, &r.DocID, &r.Type, &r.Line, &r.ValidFrom, &r.ValidTo, &r.Columns); err != nil {
			return nil, fmt.Errorf("sqliteindex: scan: %w", err)
		}

		var columnNames []string
		if err := json.Unmarshal([]byte(r.Columns), &columnNames); err != nil {
			return nil, fmt.Errorf("sqliteindex: decode columns: %w", err)
		}

		validity := sdc.Range[K]{From: traits.Unset, To: traits.Unset}

		if r.ValidFrom != "" {
			validity.From, err = traits.Parse(r.ValidFrom)
			if err != nil {
				return nil, fmt.Errorf("sqliteindex: parse valid_from: %w", err)
			}
		}

		if r.ValidTo != "" {
			validity.To, err = traits.Parse(r.ValidTo)
			if err != nil {
				return nil, fmt.Errorf("sqliteindex: parse valid_to: %w", err)
			}
		}

		out = append(out, sdc.BlockRef[K]{
			LoaderName: r.LoaderName,
			DocID:      r.DocID,
			Type:       r.Type,
			Line:       r.Line,
			Validity:   validity,
			Columns:    columnNames,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqliteindex: rows: %w", err)
	}

	return out, nil
}
