package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusKind(t *testing.T) {
	tests := []struct {
		status   Status
		want     StatusKind
		inFlight bool
	}{
		{status: "pending", want: StatusKindInFlight, inFlight: true},
		{status: "IN_PROGRESS", want: StatusKindInFlight, inFlight: true},
		{status: " started ", want: StatusKindInFlight, inFlight: true},
		{status: "Completed", want: StatusKindCompleted},
		{status: "FAILED", want: StatusKindFailed},
		{status: "archived", want: StatusOther},
		{status: "", want: StatusOther},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Kind())
			assert.Equal(t, tt.inFlight, tt.status.InFlight())
			assert.Equal(t, tt.want != StatusOther, tt.status.Known())
		})
	}
}

func TestParseTimestampKeepsWallClock(t *testing.T) {
	tests := map[string]string{
		"2024-03-05T13:05:00Z":        "2024-03-05 13:05",
		"2024-03-05T13:05:00.123456":  "2024-03-05 13:05",
		"2024-03-05T00:00:00+05:30":   "2024-03-05 00:00",
		"2024-03-05 12:00:00":         "2024-03-05 12:00",
		"2024-03-05T09:30:15.5-07:00": "2024-03-05 09:30",
	}
	for raw, want := range tests {
		ts, err := ParseTimestamp(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, ts.Format("2006-01-02 15:04"), raw)
	}

	_, err := ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestCodeReviewDecode(t *testing.T) {
	payload := `{
		"id": "abc123",
		"repository_url": "https://github.com/example/repo",
		"status": "in_progress",
		"created_at": "2024-03-05T13:05:00",
		"updated_at": "2024-03-05T14:00:00",
		"compliance_reports": [{"_id": "r1", "standard_set_name": "Python", "report": "# Report"}]
	}`

	var review CodeReview
	require.NoError(t, json.Unmarshal([]byte(payload), &review))
	assert.Equal(t, "abc123", review.ID)
	assert.Equal(t, StatusInProgress, review.Status)
	assert.Equal(t, time.Date(2024, 3, 5, 13, 5, 0, 0, time.UTC), review.CreatedAt.Time)
	require.Len(t, review.ComplianceReports, 1)
	assert.Equal(t, "Python", review.ComplianceReports[0].StandardSetName)
}

func TestCodeReviewDecodeRejectsInvalidTimestamp(t *testing.T) {
	var review CodeReview
	err := json.Unmarshal([]byte(`{"_id":"a","created_at":"not a date"}`), &review)
	assert.Error(t, err)
}
