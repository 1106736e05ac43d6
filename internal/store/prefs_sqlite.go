package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const prefsSQLiteFileName = "prefs.sqlite"

// SQLitePrefs keeps preferences in a single-table SQLite database under Dir.
//
// The handle is opened on first use and kept until Close. WAL mode lets other processes
// (TUI, web, CLI) share the file while it is open.
type SQLitePrefs struct {
	Dir string

	mu    sync.Mutex
	db    *sql.DB
	opens int
}

func (p *SQLitePrefs) path() string {
	return filepath.Join(p.Dir, prefsSQLiteFileName)
}

func (p *SQLitePrefs) handle(ctx context.Context) (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db != nil {
		return p.db, nil
	}
	db, err := p.open(ctx)
	if err != nil {
		return nil, err
	}
	p.db = db
	p.opens++
	return db, nil
}

func (p *SQLitePrefs) open(ctx context.Context) (*sql.DB, error) {
	if strings.TrimSpace(p.Dir) == "" {
		return nil, errors.New("prefs: empty dir")
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", p.path())
	if err != nil {
		return nil, err
	}
	// busy_timeout and synchronous are per connection; one connection keeps them in force.
	db.SetMaxOpenConns(1)
	// WAL enables one writer + many readers; busy_timeout helps avoid "database is locked" flakiness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pr := range pragmas {
		if _, err := db.ExecContext(ctx, pr); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS prefs (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL,
		updated_at_unixms INTEGER NOT NULL
	);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the handle. A later Get or Set reopens it.
func (p *SQLitePrefs) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}

func (p *SQLitePrefs) Get(ctx context.Context, key string) (string, bool, error) {
	db, err := p.handle(ctx)
	if err != nil {
		return "", false, err
	}

	var v string
	err = db.QueryRowContext(ctx, `SELECT v FROM prefs WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (p *SQLitePrefs) Set(ctx context.Context, key, raw string) error {
	db, err := p.handle(ctx)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO prefs(k, v, updated_at_unixms) VALUES(?, ?, ?)`,
		key, raw, time.Now().UTC().UnixMilli())
	return err
}
