package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/claude/pplog/internal/models"
)

// PutBucket replaces the contents of a cache bucket with assets, atomically.
func (db *DB) PutBucket(ctx context.Context, bucket string, assets []models.Asset) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning bucket write: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM cache_entries WHERE bucket = ?`, bucket); err != nil {
		return fmt.Errorf("clearing bucket %s: %w", bucket, err)
	}
	for _, a := range assets {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO cache_entries (bucket, path, content_type, body) VALUES (?, ?, ?, ?)`,
			bucket, a.Path, a.ContentType, a.Body)
		if err != nil {
			return fmt.Errorf("caching %s: %w", a.Path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing bucket %s: %w", bucket, err)
	}
	return nil
}

// Match returns the cached asset for path in bucket.
func (db *DB) Match(ctx context.Context, bucket, path string) (models.Asset, bool, error) {
	a := models.Asset{Path: path}
	err := db.db.QueryRowContext(ctx,
		`SELECT content_type, body FROM cache_entries WHERE bucket = ? AND path = ?`,
		bucket, path,
	).Scan(&a.ContentType, &a.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Asset{}, false, nil
	}
	if err != nil {
		return models.Asset{}, false, fmt.Errorf("matching %s: %w", path, err)
	}
	return a, true, nil
}

// Buckets lists the names of all cache buckets.
func (db *DB) Buckets(ctx context.Context) ([]string, error) {
	rows, err := db.db.QueryContext(ctx, `SELECT DISTINCT bucket FROM cache_entries ORDER BY bucket`)
	if err != nil {
		return nil, fmt.Errorf("listing buckets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning bucket: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteBucket removes every entry of a bucket.
func (db *DB) DeleteBucket(ctx context.Context, bucket string) error {
	if _, err := db.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE bucket = ?`, bucket); err != nil {
		return fmt.Errorf("deleting bucket %s: %w", bucket, err)
	}
	return nil
}
