package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/claude/pplog/internal/models"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Gateway loads and saves the whole persisted state. Save writes the cursor
// and the history together so they cannot drift apart. Update reads the
// stored state, applies fn and writes the result as one atomic step, so
// writers sharing a database cannot overwrite each other's changes. An
// error from fn aborts the write and is returned as is.
type Gateway interface {
	Load(ctx context.Context) (models.State, error)
	Save(ctx context.Context, st models.State) error
	Update(ctx context.Context, fn func(models.State) (models.State, error)) error
}

// DB wraps a SQLite database and provides repository methods.
type DB struct {
	db   *sql.DB
	path string
}

var _ Gateway = (*DB)(nil)

// Open opens (or creates) the SQLite database at path. Migrations are not
// applied; call RunMigrations first.
func Open(ctx context.Context, path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{db: db, path: path}, nil
}

// OpenMigrated runs migrations and then opens the database.
func OpenMigrated(ctx context.Context, path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir: %w", err)
	}
	if err := RunMigrations(path); err != nil {
		return nil, err
	}
	return Open(ctx, path)
}

// Path returns the database file location.
func (db *DB) Path() string {
	return db.path
}

// Close closes the database.
func (db *DB) Close() error {
	return db.db.Close()
}

// RunMigrations applies all pending embedded migrations to the database at path.
func RunMigrations(path string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+path)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

func dsn(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
}
