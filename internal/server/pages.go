package server

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/claude/pplog/internal/models"
	"github.com/claude/pplog/internal/program"
	"github.com/claude/pplog/internal/progress"
	"github.com/claude/pplog/internal/session"
	"github.com/claude/pplog/internal/view"
	"github.com/claude/pplog/internal/workout"
)

//go:embed templates/*.html
var templateFS embed.FS

// Chart viewport, in SVG user units.
const (
	chartWidth  = 640
	chartHeight = 260
	chartPad    = 36
)

// pages holds one template set per view; each parses the shared layout
// and its own "content" block.
type pages struct {
	byView map[view.View]*template.Template
}

func loadPages() *pages {
	funcMap := template.FuncMap{
		"polyline": progress.Polyline,
		"kg":       formatWeight,
		"add":      func(a, b int) int { return a + b },
		"field":    fieldName,
	}

	base := template.Must(template.New("base").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html"))
	p := &pages{byView: make(map[view.View]*template.Template)}
	for _, v := range view.All() {
		clone := template.Must(base.Clone())
		template.Must(clone.ParseFS(templateFS, "templates/"+v.String()+".html"))
		p.byView[v] = clone
	}
	return p
}

func (p *pages) render(w io.Writer, data pageData) error {
	t, ok := p.byView[data.View]
	if !ok {
		return fmt.Errorf("no template for view %s", data.View)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

type pageData struct {
	View      view.View
	Tabs      []view.View
	DayNumber int
	Day       program.Day
	Rows      []exerciseRow
	Totals    workout.Totals
	Charts    []chartData
	History   []models.HistoryRecord
	Flash     string
	Error     string
}

type exerciseRow struct {
	Name string
	Sets []setRow
}

type setRow struct {
	Index  int
	Target string
	Weight string
	Reps   string
}

type chartData struct {
	Day   string
	Chart progress.Chart
	Empty bool
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	v, err := view.Parse(r.URL.Query().Get("view"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	cursor, day := s.tracker.Current()
	data := pageData{
		View:      v,
		Tabs:      view.All(),
		DayNumber: cursor,
		Day:       day,
		Flash:     r.URL.Query().Get("msg"),
		Error:     r.URL.Query().Get("err"),
	}

	switch v {
	case view.ProgramEntry:
		data.Rows = s.entryRows(day)
		_, data.Totals = s.tracker.Preview()
	case view.Progress:
		for _, series := range s.tracker.ProgressAll() {
			data.Charts = append(data.Charts, chartData{
				Day:   series.Day,
				Chart: progress.Layout(series, chartWidth, chartHeight, chartPad),
				Empty: series.Len() == 0,
			})
		}
	case view.History:
		data.History = s.tracker.History()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages.render(w, data); err != nil {
		s.log.Error("render page", "view", v, "error", err)
	}
}

func (s *Server) entryRows(day program.Day) []exerciseRow {
	rows := make([]exerciseRow, len(day.Exercises))
	for i, ex := range day.Exercises {
		row := exerciseRow{Name: ex.Name, Sets: make([]setRow, len(ex.Targets))}
		for j, target := range ex.Targets {
			weight, _ := s.tracker.Raw(ex.Name, j, session.MetricWeight)
			reps, _ := s.tracker.Raw(ex.Name, j, session.MetricReps)
			row.Sets[j] = setRow{Index: j, Target: target, Weight: weight, Reps: reps}
		}
		rows[i] = row
	}
	return rows
}

// handlePageSession stores every field of the entry form and, when the
// complete button was pressed, completes the day.
func (s *Server) handlePageSession(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirect(w, r, view.ProgramEntry, "", err.Error())
		return
	}
	for key, values := range r.PostForm {
		exercise, set, metric, ok := parseFieldName(key)
		if !ok || len(values) == 0 {
			continue
		}
		if err := s.tracker.Record(exercise, set, metric, values[0]); err != nil {
			redirect(w, r, view.ProgramEntry, "", err.Error())
			return
		}
	}

	if r.PostForm.Get("action") != "complete" {
		redirect(w, r, view.ProgramEntry, "Saved", "")
		return
	}
	rec, err := s.tracker.CompleteDay(r.Context())
	if err != nil {
		s.log.Error("complete day failed", "error", err)
		redirect(w, r, view.ProgramEntry, "", err.Error())
		return
	}
	redirect(w, r, view.History, fmt.Sprintf("Day %d (%s) saved", rec.DayNumber, rec.DayName), "")
}

func (s *Server) handlePageReset(w http.ResponseWriter, r *http.Request) {
	s.tracker.ResetSession()
	redirect(w, r, view.ProgramEntry, "Session cleared", "")
}

func (s *Server) handlePageImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile("backup")
	if err != nil {
		redirect(w, r, view.ProgramEntry, "", "choose a backup file to import")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		redirect(w, r, view.ProgramEntry, "", err.Error())
		return
	}
	if err := s.tracker.Import(r.Context(), data); err != nil {
		_, msg := importError(err)
		redirect(w, r, view.ProgramEntry, "", msg)
		return
	}
	redirect(w, r, view.ProgramEntry, "Backup imported", "")
}

func redirect(w http.ResponseWriter, r *http.Request, v view.View, msg, errMsg string) {
	q := url.Values{"view": {v.String()}}
	if msg != "" {
		q.Set("msg", msg)
	}
	if errMsg != "" {
		q.Set("err", errMsg)
	}
	http.Redirect(w, r, "/app?"+q.Encode(), http.StatusSeeOther)
}

// fieldName encodes an entry form field as metric|set|exercise.
func fieldName(metric session.Metric, set int, exercise string) string {
	return string(metric) + "|" + strconv.Itoa(set) + "|" + exercise
}

func parseFieldName(name string) (exercise string, set int, metric session.Metric, ok bool) {
	parts := strings.SplitN(name, "|", 3)
	if len(parts) != 3 {
		return "", 0, "", false
	}
	metric, err := session.ParseMetric(parts[0])
	if err != nil {
		return "", 0, "", false
	}
	set, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, "", false
	}
	return parts[2], set, metric, true
}

func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
