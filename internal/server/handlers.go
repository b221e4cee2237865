package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/pplog/internal/models"
	"github.com/claude/pplog/internal/program"
	"github.com/claude/pplog/internal/session"
	"github.com/claude/pplog/internal/tracker"
	"github.com/claude/pplog/internal/transfer"
	"github.com/claude/pplog/internal/workout"
)

// maxImportBytes bounds an uploaded backup.
const maxImportBytes = 10 << 20

type currentDayResponse struct {
	DayNumber int         `json:"dayNumber"`
	Day       program.Day `json:"day"`
}

type sessionResponse struct {
	DayNumber int                  `json:"dayNumber"`
	DayName   string               `json:"dayName"`
	Entries   []session.Entry      `json:"entries"`
	Exercises []models.ExerciseLog `json:"exercises"`
	Totals    workout.Totals       `json:"totals"`
}

type importResponse struct {
	DayNumber int `json:"dayNumber"`
	Records   int `json:"records"`
}

func (s *Server) handleProgram(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, program.Catalog())
}

func (s *Server) handleCurrentDay(w http.ResponseWriter, r *http.Request) {
	cursor, day := s.tracker.Current()
	writeJSON(w, http.StatusOK, currentDayResponse{DayNumber: cursor, Day: day})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessionSnapshot())
}

func (s *Server) sessionSnapshot() sessionResponse {
	cursor, day := s.tracker.Current()
	exercises, totals := s.tracker.Preview()
	return sessionResponse{
		DayNumber: cursor,
		DayName:   day.Name,
		Entries:   s.tracker.Session(),
		Exercises: exercises,
		Totals:    totals,
	}
}

func (s *Server) handlePutSession(w http.ResponseWriter, r *http.Request) {
	var e session.Entry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	metric, err := session.ParseMetric(string(e.Metric))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.tracker.Record(e.Exercise, e.Set, metric, e.Value); err != nil {
		writeJSON(w, recordError(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.sessionSnapshot())
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	s.tracker.ResetSession()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteDay(w http.ResponseWriter, r *http.Request) {
	rec, err := s.tracker.CompleteDay(r.Context())
	if errors.Is(err, tracker.ErrStale) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error() + "; reloaded, review the day and complete again"})
		return
	}
	if err != nil {
		s.log.Error("complete day failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records := s.tracker.History()

	if day := r.URL.Query().Get("day"); day != "" {
		filtered := make([]models.HistoryRecord, 0, len(records))
		for _, rec := range records {
			if rec.DayName == day {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		if limit < len(records) {
			records = records[:limit]
		}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid record ID"})
		return
	}
	rec, ok := s.tracker.Find(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "record not found"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleProgressAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.ProgressAll())
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	series, ok := s.tracker.Progress(chi.URLParam(r, "day"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown day"})
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	export := s.tracker.Export
	if legacy, _ := strconv.ParseBool(r.URL.Query().Get("legacy")); legacy {
		export = s.tracker.ExportLegacy
	}
	data, err := export()
	if err != nil {
		s.log.Error("export failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", transfer.Filename))
	w.Write(data) //nolint:errcheck
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
		return
	}
	if err := s.tracker.Import(r.Context(), data); err != nil {
		status, msg := importError(err)
		if status == http.StatusInternalServerError {
			s.log.Error("import failed", "error", err)
		}
		writeJSON(w, status, map[string]string{"error": msg})
		return
	}
	st := s.tracker.State()
	writeJSON(w, http.StatusOK, importResponse{DayNumber: st.DayNumber, Records: len(st.HistoryRecords)})
}

// importError maps an import failure to a status and a user-facing message.
func importError(err error) (int, string) {
	switch {
	case errors.Is(err, transfer.ErrFormatMismatch):
		return http.StatusBadRequest, "format mismatch: the file is not a workout backup"
	case errors.Is(err, transfer.ErrParse):
		return http.StatusBadRequest, "parse error: " + err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

// recordError maps a session write failure to a status.
func recordError(err error) int {
	if errors.Is(err, tracker.ErrUnknownExercise) || errors.Is(err, tracker.ErrSetOutOfRange) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
