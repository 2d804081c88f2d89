package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"studyboard/internal/domain"
	"studyboard/internal/view"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

var ansi = map[string]string{
	"red":    "\033[31m",
	"green":  "\033[32m",
	"yellow": "\033[33m",
	"blue":   "\033[34m",
	"gray":   "\033[90m",
}

// paint colors s when w is a terminal.
func paint(w io.Writer, color, s string) string {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return s
	}
	code, ok := ansi[color]
	if !ok {
		return s
	}
	return code + s + "\033[0m"
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printBoard(w io.Writer, board view.BoardView) {
	if board.Query != "" {
		fmt.Fprintf(w, "Search: %q (%d matches)\n\n", board.Query, len(board.Tasks))
	}

	for _, col := range board.Columns {
		fmt.Fprintf(w, "%s (%d)\n", paint(w, col.Color, col.Title), col.Count)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, t := range col.Tasks {
			fmt.Fprintf(tw, "  %s %s\t%s\t%s\t%s\n",
				t.Type.Icon(), t.Title,
				paint(w, t.Priority.Color(), string(t.Priority)),
				dueLabel(t),
				t.ID,
			)
		}
		tw.Flush()
		fmt.Fprintln(w)
	}
	printStats(w, board.Stats)
}

func printStats(w io.Writer, s view.Stats) {
	fmt.Fprintf(w, "Total %d  %s %d  %s %d  %s %d  Completion %.1f%%\n",
		s.Total,
		domain.StatusPending.Label(), s.Pending,
		domain.StatusInProgress.Label(), s.InProgress,
		domain.StatusCompleted.Label(), s.Completed,
		s.CompletionRate,
	)
}

func dueLabel(t domain.Task) string {
	if t.DueDate == nil {
		return "-"
	}
	return strings.Join([]string{t.DueDateString(), "(" + humanize.Time(*t.DueDate) + ")"}, " ")
}
