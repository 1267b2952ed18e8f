package models

import "strings"

// Status is the lifecycle state of a code review as reported by the API.
// Unknown values are kept verbatim so newer API releases still render.
type Status string

// Status values.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusStarted    Status = "started"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// StatusKind groups statuses by how they are presented.
type StatusKind int

// StatusKind values. StatusOther covers every value the frontend does not know about.
const (
	StatusOther StatusKind = iota
	StatusKindInFlight
	StatusKindCompleted
	StatusKindFailed
)

// ParseStatus normalises a raw status string. It never fails.
func ParseStatus(raw string) Status {
	return Status(strings.ToLower(strings.TrimSpace(raw)))
}

// Kind classifies the status. The mapping is total.
func (s Status) Kind() StatusKind {
	switch ParseStatus(string(s)) {
	case StatusCompleted:
		return StatusKindCompleted
	case StatusFailed:
		return StatusKindFailed
	case StatusPending, StatusInProgress, StatusStarted:
		return StatusKindInFlight
	default:
		return StatusOther
	}
}

// Known reports whether the status is one of the documented values.
func (s Status) Known() bool {
	return s.Kind() != StatusOther
}

// InFlight reports whether the review is still being processed.
func (s Status) InFlight() bool {
	return s.Kind() == StatusKindInFlight
}
