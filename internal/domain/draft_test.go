package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewDraftDefaults(t *testing.T) {
	d := NewDraft()
	if d.Type != TaskTypeAssignment || d.Priority != PriorityMedium || d.Status != StatusPending {
		t.Fatalf("unexpected defaults: %+v", d)
	}
	if d.Title != "" || d.Description != "" || d.DueDate != "" {
		t.Fatalf("text fields should start empty: %+v", d)
	}
}

func TestDraftFields_Validation(t *testing.T) {
	valid := NewDraft()
	valid.Title = "Essay"

	cases := []struct {
		name   string
		modify func(*Draft)
		ok     bool
	}{
		{"valid", func(d *Draft) {}, true},
		{"empty title", func(d *Draft) { d.Title = "" }, false},
		{"whitespace title", func(d *Draft) { d.Title = " \t\n" }, false},
		{"unknown type", func(d *Draft) { d.Type = "seminar" }, false},
		{"unknown priority", func(d *Draft) { d.Priority = "urgent" }, false},
		{"unknown status", func(d *Draft) { d.Status = "archived" }, false},
		{"bad date", func(d *Draft) { d.DueDate = "03/12/2025" }, false},
		{"past date is fine", func(d *Draft) { d.DueDate = "1999-01-01" }, true},
		{"blank date", func(d *Draft) { d.DueDate = "  " }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := valid
			tc.modify(&d)
			_, err := d.Fields()
			if tc.ok && err != nil {
				t.Fatalf("expected valid draft, got %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidTask) {
				t.Fatalf("expected ErrInvalidTask, got %v", err)
			}
		})
	}
}

func TestDraftFields_KeepsTitleAsTyped(t *testing.T) {
	d := NewDraft()
	d.Title = "  Read Ch.3 "
	d.DueDate = "2025-03-14"

	f, err := d.Fields()
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	if f.Title != "  Read Ch.3 " {
		t.Fatalf("title changed: %q", f.Title)
	}
	want := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	if f.DueDate == nil || !f.DueDate.Equal(want) {
		t.Fatalf("due date = %v, want %v", f.DueDate, want)
	}
}

func TestDraftFromRoundTrip(t *testing.T) {
	due := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	task := Task{
		ID:          "t1",
		OwnerID:     "u1",
		Title:       "Project",
		Description: "final",
		Type:        TaskTypeProject,
		DueDate:     &due,
		Priority:    PriorityHigh,
		Status:      StatusInProgress,
	}

	d := DraftFrom(task)
	if d.DueDate != "2025-05-01" {
		t.Fatalf("due date = %q", d.DueDate)
	}
	f, err := d.Fields()
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	if f.Title != task.Title || f.Type != task.Type || f.Priority != task.Priority || f.Status != task.Status {
		t.Fatalf("fields do not match task: %+v", f)
	}
}

func TestEnumMappingsHaveDefaults(t *testing.T) {
	if TaskType("other").Icon() == "" {
		t.Fatal("unknown type has no icon")
	}
	if Priority("other").Color() != "gray" {
		t.Fatal("unknown priority should be gray")
	}
	if Status("other").Label() != StatusPending.Label() {
		t.Fatal("unknown status should fall back to the pending column")
	}
	for _, s := range Statuses {
		if !s.Valid() || s.Label() == "" || s.Color() == "" {
			t.Fatalf("status %q is missing a mapping", s)
		}
	}
}
