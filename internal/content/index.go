package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/giantswarm/scenegroup/internal/fileutil"
	"github.com/giantswarm/scenegroup/internal/sentinel"

	// Register the pure-Go SQLite driver (no CGO required).
	_ "modernc.org/sqlite"
)

// ErrUnknownAddress is returned when an address has no index record.
const ErrUnknownAddress = sentinel.Error("unknown content address")

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	address TEXT PRIMARY KEY,
	file    TEXT NOT NULL,
	scene   TEXT NOT NULL,
	size    INTEGER NOT NULL,
	digest  TEXT NOT NULL DEFAULT ''
)`

// Record maps one address to a bundle file and the scene it provides.
type Record struct {
	Address string
	// File is relative to the content directory.
	File  string
	Scene string
	Size  int64
	// Digest is the hex SHA-256 of the bundle; empty skips verification.
	Digest string
}

// Index is the address index stored in an SQLite database.
type Index struct {
	db   *sql.DB
	path string
}

// OpenIndex opens or creates the index database at path.
func OpenIndex(ctx context.Context, path string) (*Index, error) {
	if err := fileutil.EnsureDirForFile(path); err != nil {
		return nil, err
	}

	// WAL lets loaders in other processes read while an import writes.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(30000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create index schema: %w", err)
	}
	return &Index{db: db, path: path}, nil
}

// Path returns the database file path.
func (x *Index) Path() string { return x.path }

// Put inserts or replaces the record for rec.Address.
func (x *Index) Put(ctx context.Context, rec Record) error {
	if rec.Address == "" {
		return errors.New("record address must not be empty")
	}
	_, err := x.db.ExecContext(ctx,
		`INSERT INTO entries (address, file, scene, size, digest) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(address) DO UPDATE SET
		   file = excluded.file, scene = excluded.scene, size = excluded.size, digest = excluded.digest`,
		rec.Address, rec.File, rec.Scene, rec.Size, rec.Digest,
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", rec.Address, err)
	}
	return nil
}

// Resolve returns the record for address, or ErrUnknownAddress.
func (x *Index) Resolve(ctx context.Context, address string) (Record, error) {
	rec := Record{Address: address}
	err := x.db.QueryRowContext(ctx,
		`SELECT file, scene, size, digest FROM entries WHERE address = ?`, address,
	).Scan(&rec.File, &rec.Scene, &rec.Size, &rec.Digest)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrUnknownAddress.Withf("%q", address)
	}
	if err != nil {
		return Record{}, fmt.Errorf("resolve %s: %w", address, err)
	}
	return rec, nil
}

// Delete removes the record for address. Deleting a missing address is not
// an error.
func (x *Index) Delete(ctx context.Context, address string) error {
	if _, err := x.db.ExecContext(ctx, `DELETE FROM entries WHERE address = ?`, address); err != nil {
		return fmt.Errorf("delete %s: %w", address, err)
	}
	return nil
}

// List returns every record ordered by address.
func (x *Index) List(ctx context.Context) (records []Record, retErr error) {
	rows, err := x.db.QueryContext(ctx, `SELECT address, file, scene, size, digest FROM entries ORDER BY address`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Address, &rec.File, &rec.Scene, &rec.Size, &rec.Digest); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return records, nil
}

// Close closes the database.
func (x *Index) Close() error {
	if err := x.db.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	return nil
}
