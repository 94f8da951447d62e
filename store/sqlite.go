package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SqliteDocuments is a remote document store kept in a SQLite database.
// Documents are keyed by (collection, id) and read back in insertion
// sequence.
//
// Tables:
//
//	collections(name)                                  PRIMARY KEY (name)
//	documents(seq, collection, id, data, created_at)   UNIQUE (collection, id)
type SqliteDocuments struct {
	mu  sync.Mutex
	db  *sql.DB
	now func() time.Time
}

// OpenSqliteDocuments opens (creating if needed) the database at dbPath and
// applies pending migrations.
func OpenSqliteDocuments(dbPath string) (*SqliteDocuments, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SqliteDocuments{db: db, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

func (s *SqliteDocuments) Close() error {
	return s.db.Close()
}

func (s *SqliteDocuments) Mode() Mode { return ModeRemote }

func (s *SqliteDocuments) List(ctx context.Context, ns Namespace) ([]Document, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM collections WHERE name = ?", ns.Name).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoCollection
	}
	if err != nil {
		return nil, err
	}

	order := "ASC"
	if ns.Order == NewestFirst {
		order = "DESC"
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT data FROM documents WHERE collection = ? ORDER BY seq "+order, ns.Name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	docs := []Document{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		doc, err := decodeDocument([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, ns.Name, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// withTx runs fn in a transaction that also registers the collection.
func (s *SqliteDocuments) withTx(ctx context.Context, name string, fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO collections (name) VALUES (?)", name); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func putDocument(ctx context.Context, tx *sql.Tx, name string, doc Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(collection, id) DO UPDATE SET data = excluded.data`,
		name, IDOf(doc), string(b), createdAtOf(doc),
	)
	return err
}

func (s *SqliteDocuments) Insert(ctx context.Context, ns Namespace, doc Document) (Document, error) {
	stored, err := stampRemote(doc, s.now())
	if err != nil {
		return nil, err
	}
	err = s.withTx(ctx, ns.Name, func(tx *sql.Tx) error {
		return putDocument(ctx, tx, ns.Name, stored)
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *SqliteDocuments) Update(ctx context.Context, ns Namespace, id string, fields Document) (Document, error) {
	var merged Document
	err := s.withTx(ctx, ns.Name, func(tx *sql.Tx) error {
		var raw string
		err := tx.QueryRowContext(ctx,
			"SELECT data FROM documents WHERE collection = ? AND id = ?", ns.Name, id,
		).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		doc, err := decodeDocument([]byte(raw))
		if err != nil {
			return fmt.Errorf("%w: %s/%s: %v", ErrCorrupt, ns.Name, id, err)
		}
		merged, err = cloneDocument(merge(doc, fields))
		if err != nil {
			return err
		}
		b, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE documents SET data = ? WHERE collection = ? AND id = ?",
			string(b), ns.Name, id,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *SqliteDocuments) Delete(ctx context.Context, ns Namespace, id string) (bool, error) {
	var existed bool
	err := s.withTx(ctx, ns.Name, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM documents WHERE collection = ? AND id = ?", ns.Name, id)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		existed = n > 0
		return nil
	})
	return existed, err
}

// Replace stores docs so that List returns them in the given order.
func (s *SqliteDocuments) Replace(ctx context.Context, ns Namespace, docs []Document) error {
	now := s.now()
	return s.withTx(ctx, ns.Name, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE collection = ?", ns.Name); err != nil {
			return err
		}
		for i := range docs {
			d := docs[i]
			if ns.Order == NewestFirst {
				d = docs[len(docs)-1-i]
			}
			stored, err := stampRemote(d, now)
			if err != nil {
				return err
			}
			if err := putDocument(ctx, tx, ns.Name, stored); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SqliteDocuments) Drop(ctx context.Context, ns Namespace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE collection = ?", ns.Name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", ns.Name); err != nil {
		return err
	}
	return tx.Commit()
}
