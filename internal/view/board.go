package view

import "studyboard/internal/domain"

// Column is one status lane of the board.
type Column struct {
	Status domain.Status `json:"status"`
	Title  string        `json:"title"`
	Color  string        `json:"color"`
	Count  int           `json:"count"`
	Tasks  []domain.Task `json:"tasks"`
}

// BoardView is the dashboard: searched tasks split into status columns, and
// stats over the whole set.
type BoardView struct {
	Query   string        `json:"query,omitempty"`
	Tasks   []domain.Task `json:"tasks"`
	Columns []Column      `json:"columns"`
	Stats   Stats         `json:"stats"`
}

// Board builds the dashboard view of tasks for query.
func Board(tasks []domain.Task, query string) BoardView {
	filtered := FilterBySearch(tasks, query)

	cols := make([]Column, 0, len(domain.Statuses))
	for _, st := range domain.Statuses {
		group := GroupByStatus(filtered, st)
		cols = append(cols, Column{
			Status: st,
			Title:  st.Label(),
			Color:  st.Color(),
			Count:  len(group),
			Tasks:  group,
		})
	}

	list := make([]domain.Task, len(filtered))
	copy(list, filtered)

	return BoardView{
		Query:   query,
		Tasks:   list,
		Columns: cols,
		Stats:   ComputeStats(tasks),
	}
}
