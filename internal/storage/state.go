package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/claude/pplog/internal/models"
)

// Keys under which the state is stored, matching the original app's local
// storage entries.
const (
	keyDayNumber      = "dayNumber"
	keyHistoryRecords = "historyRecords"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Load reads the cursor and history. A fresh database yields the initial state.
func (db *DB) Load(ctx context.Context) (models.State, error) {
	return loadState(ctx, db.db)
}

func loadState(ctx context.Context, q querier) (models.State, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT key, value FROM kv_store WHERE key IN (?, ?)`,
		keyDayNumber, keyHistoryRecords)
	if err != nil {
		return models.State{}, fmt.Errorf("querying state: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string, 2)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return models.State{}, fmt.Errorf("scanning state: %w", err)
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		return models.State{}, fmt.Errorf("reading state: %w", err)
	}

	return decodeState(values)
}

// Save writes the cursor and history in a single transaction.
func (db *DB) Save(ctx context.Context, st models.State) error {
	values, err := encodeState(st)
	if err != nil {
		return err
	}

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := writeState(ctx, tx, values); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	return nil
}

// Update runs fn on the stored state and writes its result in the same
// transaction. Transactions begin IMMEDIATE (see dsn), so the write lock is
// held from the read onwards and a concurrent Update waits for it.
func (db *DB) Update(ctx context.Context, fn func(models.State) (models.State, error)) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning update: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	cur, err := loadState(ctx, tx)
	if err != nil {
		return err
	}
	next, err := fn(cur)
	if err != nil {
		return err
	}
	values, err := encodeState(next)
	if err != nil {
		return err
	}
	if err := writeState(ctx, tx, values); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing update: %w", err)
	}
	return nil
}

func writeState(ctx context.Context, tx *sql.Tx, values map[string]string) error {
	for _, k := range []string{keyDayNumber, keyHistoryRecords} {
		if err := upsert(ctx, tx, k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

func upsert(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func encodeState(st models.State) (map[string]string, error) {
	records := st.HistoryRecords
	if records == nil {
		records = []models.HistoryRecord{}
	}
	hist, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding history: %w", err)
	}
	return map[string]string{
		keyDayNumber:      strconv.Itoa(st.DayNumber),
		keyHistoryRecords: string(hist),
	}, nil
}

func decodeState(values map[string]string) (models.State, error) {
	st := models.InitialState()
	if v, ok := values[keyDayNumber]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return models.State{}, fmt.Errorf("decoding %s %q: %w", keyDayNumber, v, err)
		}
		st.DayNumber = n
	}
	if v, ok := values[keyHistoryRecords]; ok {
		var records []models.HistoryRecord
		if err := json.Unmarshal([]byte(v), &records); err != nil {
			return models.State{}, fmt.Errorf("decoding %s: %w", keyHistoryRecords, err)
		}
		if records != nil {
			st.HistoryRecords = records
		}
	}
	return st, nil
}
