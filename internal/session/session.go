// Package session keeps the raw form input for the day in progress.
package session

import (
	"fmt"
	"sort"
)

// Metric is the kind of value typed for a set.
type Metric string

const (
	MetricWeight Metric = "weight"
	MetricReps   Metric = "reps"
)

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricWeight, MetricReps:
		return Metric(s), nil
	}
	return "", fmt.Errorf("unknown metric %q (want weight or reps)", s)
}

// Key addresses one form field.
type Key struct {
	Exercise string
	Set      int
	Metric   Metric
}

// Entry is a stored field with its raw text.
type Entry struct {
	Exercise string `json:"exercise"`
	Set      int    `json:"set"`
	Metric   Metric `json:"metric"`
	Value    string `json:"value"`
}

// State maps form fields to whatever the user typed. Text is stored verbatim
// and only interpreted when the day is completed. State is not safe for
// concurrent use; the tracker serialises access.
type State struct {
	entries map[Key]string
}

// New returns an empty State.
func New() *State {
	return &State{entries: make(map[Key]string)}
}

// Record stores raw text for a field, replacing any previous value.
func (s *State) Record(exercise string, set int, metric Metric, raw string) {
	s.entries[Key{Exercise: exercise, Set: set, Metric: metric}] = raw
}

// Raw returns the stored text for a field.
func (s *State) Raw(exercise string, set int, metric Metric) (string, bool) {
	v, ok := s.entries[Key{Exercise: exercise, Set: set, Metric: metric}]
	return v, ok
}

// Weight parses the weight field for a set.
func (s *State) Weight(exercise string, set int) Value[float64] {
	raw, ok := s.Raw(exercise, set, MetricWeight)
	if !ok {
		return Value[float64]{}
	}
	return ParseWeight(raw)
}

// Reps parses the reps field for a set.
func (s *State) Reps(exercise string, set int) Value[int] {
	raw, ok := s.Raw(exercise, set, MetricReps)
	if !ok {
		return Value[int]{}
	}
	return ParseReps(raw)
}

// Reset drops every entry.
func (s *State) Reset() {
	clear(s.entries)
}

// Len returns the number of stored fields.
func (s *State) Len() int {
	return len(s.entries)
}

// Entries lists the stored fields ordered by exercise, set, then metric.
func (s *State) Entries() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for k, v := range s.entries {
		out = append(out, Entry{Exercise: k.Exercise, Set: k.Set, Metric: k.Metric, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Exercise != out[j].Exercise {
			return out[i].Exercise < out[j].Exercise
		}
		if out[i].Set != out[j].Set {
			return out[i].Set < out[j].Set
		}
		return out[i].Metric > out[j].Metric // weight before reps
	})
	return out
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	c := New()
	for k, v := range s.entries {
		c.entries[k] = v
	}
	return c
}
