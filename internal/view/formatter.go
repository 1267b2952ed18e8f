// Package view turns API records into the structures the templates render.
// Everything here is pure; HTML escaping is left to html/template.
package view

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"codereview-frontend/internal/models"
)

// GOV.UK tag modifier classes.
const (
	TagClassRed   = "govuk-tag--red"
	TagClassGreen = "govuk-tag--green"
)

// FormatDate renders t as "5 March 2024 at 1:05pm". The wall clock is used as
// given; no timezone conversion is applied.
func FormatDate(t time.Time) string {
	hour := t.Hour()
	suffix := "am"
	if hour >= 12 {
		suffix = "pm"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d %s %d at %d:%02d%s", t.Day(), t.Month(), t.Year(), hour, t.Minute(), suffix)
}

// StatusTagClass maps a status to its tag modifier. Unknown statuses get no
// modifier and render with the default blue tag.
func StatusTagClass(status string) string {
	switch models.Status(status).Kind() {
	case models.StatusKindFailed:
		return TagClassRed
	case models.StatusKindCompleted:
		return TagClassGreen
	default:
		return ""
	}
}

// FormatStatusText turns "in_progress" into "In Progress".
func FormatStatusText(status string) string {
	words := strings.Fields(strings.ReplaceAll(status, "_", " "))
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// StatusTag is everything a template needs to draw a status tag. Text, Label
// and Class always derive from the same status value.
type StatusTag struct {
	ReviewID string
	Status   string
	Text     string
	Label    string
	Class    string
	InFlight bool
}

// NewStatusTag builds the tag for a review.
func NewStatusTag(reviewID, status string) StatusTag {
	text := FormatStatusText(status)
	return StatusTag{
		ReviewID: reviewID,
		Status:   status,
		Text:     text,
		Label:    "Status: " + text,
		Class:    StatusTagClass(status),
		InFlight: models.Status(status).InFlight(),
	}
}
