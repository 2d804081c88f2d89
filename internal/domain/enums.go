package domain

// Valid reports whether t is one of the known task types.
func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeAssignment, TaskTypeExam, TaskTypeLecture, TaskTypeProject:
		return true
	}
	return false
}

// Icon returns the glyph shown next to a task of this type.
func (t TaskType) Icon() string {
	switch t {
	case TaskTypeAssignment:
		return "✎"
	case TaskTypeExam:
		return "?"
	case TaskTypeLecture:
		return "⌂"
	case TaskTypeProject:
		return "▦"
	default:
		return "•"
	}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Color returns the badge color for the priority.
func (p Priority) Color() string {
	switch p {
	case PriorityHigh:
		return "red"
	case PriorityMedium:
		return "yellow"
	case PriorityLow:
		return "green"
	default:
		return "gray"
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Label returns the board column title for the status.
func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "In progress"
	case StatusCompleted:
		return "Done"
	case StatusPending:
		return "To do"
	default:
		return "To do"
	}
}

// Color returns the column badge color for the status.
func (s Status) Color() string {
	switch s {
	case StatusInProgress:
		return "yellow"
	case StatusCompleted:
		return "green"
	case StatusPending:
		return "blue"
	default:
		return "blue"
	}
}
