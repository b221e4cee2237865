// Package transfer reads and writes the backup document used to move
// history between installs.
package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/claude/pplog/internal/models"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Filename is the suggested download name.
const Filename = "datos_entrenamientos.json"

// Top-level keys of the backup document.
const (
	KeyDayNumber      = "dayNumber"
	KeyHistoryRecords = "historyRecords"
)

var (
	// ErrFormatMismatch means the document parsed but lacks an expected key.
	ErrFormatMismatch = errors.New("file does not have the expected format")
	// ErrParse means the document (or one of its fields) could not be decoded.
	ErrParse = errors.New("error importing data")
)

type document struct {
	DayNumber      int                    `json:"dayNumber"`
	HistoryRecords []models.HistoryRecord `json:"historyRecords"`
}

// Export encodes the state as plain nested JSON.
func Export(st models.State) ([]byte, error) {
	records := st.HistoryRecords
	if records == nil {
		records = []models.HistoryRecord{}
	}
	data, err := json.Marshal(document{DayNumber: st.DayNumber, HistoryRecords: records})
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return pretty.Pretty(data), nil
}

// ExportLegacy encodes the state the way older installs wrote it: the cursor
// as a string and the history as a JSON string embedded in the document.
func ExportLegacy(st models.State) ([]byte, error) {
	records := st.HistoryRecords
	if records == nil {
		records = []models.HistoryRecord{}
	}
	hist, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding history: %w", err)
	}

	doc := []byte(`{}`)
	doc, err = sjson.SetBytes(doc, KeyDayNumber, strconv.Itoa(st.DayNumber))
	if err != nil {
		return nil, fmt.Errorf("setting %s: %w", KeyDayNumber, err)
	}
	doc, err = sjson.SetBytes(doc, KeyHistoryRecords, string(hist))
	if err != nil {
		return nil, fmt.Errorf("setting %s: %w", KeyHistoryRecords, err)
	}
	return pretty.Pretty(doc), nil
}

// Import decodes a backup document. Both the nested and the string-encoded
// history forms are accepted, and the cursor may be a number or a numeric
// string. A missing or empty key, or a cursor below 1, is a format
// mismatch. Beyond that nothing is validated. Records without an ID get one.
func Import(data []byte) (models.State, error) {
	if !gjson.ValidBytes(data) {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return models.State{}, fmt.Errorf("%w: %v", ErrParse, err)
		}
		return models.State{}, fmt.Errorf("%w: invalid JSON", ErrParse)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return models.State{}, ErrFormatMismatch
	}
	dn := root.Get(KeyDayNumber)
	hr := root.Get(KeyHistoryRecords)
	if !present(dn) || !present(hr) {
		return models.State{}, ErrFormatMismatch
	}

	cursor, err := decodeDayNumber(dn)
	if err != nil {
		return models.State{}, err
	}
	if cursor < 1 {
		return models.State{}, fmt.Errorf("%w: %s must be positive, got %d", ErrFormatMismatch, KeyDayNumber, cursor)
	}
	records, err := decodeRecords(hr)
	if err != nil {
		return models.State{}, err
	}

	for i := range records {
		if records[i].ID == uuid.Nil {
			records[i].ID = uuid.New()
		}
	}
	return models.State{DayNumber: cursor, HistoryRecords: records}, nil
}

// present reports whether a top-level key carries a value. null, false,
// 0 and "" count as missing, as in the original app's backups.
func present(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return strings.TrimSpace(r.Str) != ""
	case gjson.Number:
		return r.Num != 0
	}
	return r.Exists()
}

func decodeDayNumber(r gjson.Result) (int, error) {
	switch r.Type {
	case gjson.Number:
		return int(r.Int()), nil
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(r.Str))
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrParse, KeyDayNumber, err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: %s must be a number", ErrParse, KeyDayNumber)
}

func decodeRecords(r gjson.Result) ([]models.HistoryRecord, error) {
	var raw string
	switch {
	case r.IsArray():
		raw = r.Raw
	case r.Type == gjson.String:
		raw = r.Str
	default:
		return nil, fmt.Errorf("%w: %s must be an array", ErrParse, KeyHistoryRecords)
	}

	records := []models.HistoryRecord{}
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, KeyHistoryRecords, err)
	}
	if records == nil {
		records = []models.HistoryRecord{}
	}
	return records, nil
}
