// Package view derives filtered, grouped and aggregate views from a task set.
// All functions are pure: inputs are never modified and results never alias them.
package view

import (
	"math"
	"slices"
	"strings"

	"studyboard/internal/domain"
)

// FilterBySearch returns the tasks whose title, description or type contains
// query, ignoring case. A blank query returns a copy of every task.
func FilterBySearch(tasks []domain.Task, query string) []domain.Task {
	if strings.TrimSpace(query) == "" {
		return slices.Clone(tasks)
	}

	q := strings.ToLower(query)
	res := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q) ||
			strings.Contains(strings.ToLower(string(t.Type)), q) {
			res = append(res, t)
		}
	}
	return res
}

// GroupByStatus returns the tasks in the given status, in input order.
func GroupByStatus(tasks []domain.Task, status domain.Status) []domain.Task {
	res := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == status {
			res = append(res, t)
		}
	}
	return res
}

// Stats - dashboard counters
type Stats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	InProgress     int     `json:"in_progress"`
	CompletionRate float64 `json:"completion_rate"`
}

// ComputeStats counts tasks per status. CompletionRate is a percentage
// rounded to one decimal and 0 for an empty set.
func ComputeStats(tasks []domain.Task) Stats {
	st := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case domain.StatusCompleted:
			st.Completed++
		case domain.StatusInProgress:
			st.InProgress++
		case domain.StatusPending:
			st.Pending++
		}
	}

	if st.Total > 0 {
		rate := float64(st.Completed) / float64(st.Total) * 100
		st.CompletionRate = math.Round(rate*10) / 10
	}
	return st
}
