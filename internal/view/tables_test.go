package view

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"codereview-frontend/internal/models"
)

func ts(y int, m time.Month, d, h, min int) models.Timestamp {
	return models.Timestamp{Time: time.Date(y, m, d, h, min, 0, 0, time.UTC)}
}

func TestFormatReviewsForTable(t *testing.T) {
	reviews := []models.CodeReview{
		{
			ID:            "r1",
			RepositoryURL: "https://github.com/example/one",
			Status:        models.StatusInProgress,
			CreatedAt:     ts(2024, time.March, 5, 0, 0),
			UpdatedAt:     ts(2024, time.March, 5, 13, 5),
		},
		{
			ID:            "r2",
			RepositoryURL: "https://github.com/example/two",
			Status:        models.StatusFailed,
			CreatedAt:     ts(2024, time.March, 6, 12, 0),
			UpdatedAt:     ts(2024, time.March, 6, 12, 30),
		},
	}

	got := FormatReviewsForTable(reviews)

	inProgress := NewStatusTag("r1", "in_progress")
	failed := NewStatusTag("r2", "failed")
	want := []TableRow{
		{
			ID: "r1",
			Cells: []TableCell{
				{Text: "https://github.com/example/one", Href: "/code-reviews/r1"},
				{Text: "5 March 2024 at 12:00am"},
				{Text: "5 March 2024 at 1:05pm"},
				{Tag: &inProgress},
			},
		},
		{
			ID: "r2",
			Cells: []TableCell{
				{Text: "https://github.com/example/two", Href: "/code-reviews/r2"},
				{Text: "6 March 2024 at 12:00pm"},
				{Text: "6 March 2024 at 12:30pm"},
				{Tag: &failed},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FormatReviewsForTable mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatReviewsForTableEmpty(t *testing.T) {
	rows := FormatReviewsForTable(nil)
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil rows, got %#v", rows)
	}
}

func TestSortReviewsNewestFirst(t *testing.T) {
	reviews := []models.CodeReview{
		{ID: "old", CreatedAt: ts(2024, time.January, 1, 9, 0)},
		{ID: "new", CreatedAt: ts(2024, time.February, 1, 9, 0)},
	}
	SortReviewsNewestFirst(reviews)
	if reviews[0].ID != "new" {
		t.Fatalf("expected newest first, got %s", reviews[0].ID)
	}
}

func TestStandardSetOptionsChecksSelected(t *testing.T) {
	sets := []models.StandardSet{
		{ID: "s1", Name: "Python", RepositoryURL: "https://github.com/a/python"},
		{ID: "s2", Name: "Node", RepositoryURL: "https://github.com/a/node"},
	}
	got := StandardSetOptions(sets, []string{"s2"})
	want := []StandardSetOption{
		{Value: "s1", Text: "Python", Hint: "https://github.com/a/python"},
		{Value: "s2", Text: "Node", Hint: "https://github.com/a/node", Checked: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("StandardSetOptions mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatClassificationsForTableSortsByName(t *testing.T) {
	rows := FormatClassificationsForTable([]models.Classification{
		{ID: "c2", Name: "Python"},
		{ID: "c1", Name: "C#"},
	})
	if rows[0].Name != "C#" || rows[1].Name != "Python" {
		t.Fatalf("unexpected order: %#v", rows)
	}
	if rows[0].DeleteAction != "/standards/classifications/c1/delete" {
		t.Fatalf("unexpected delete action: %s", rows[0].DeleteAction)
	}
}

func TestReviewSummaryRendersReports(t *testing.T) {
	review := models.CodeReview{
		ID:            "r1",
		RepositoryURL: "https://github.com/example/one",
		Status:        models.StatusCompleted,
		CreatedAt:     ts(2024, time.March, 5, 9, 0),
		UpdatedAt:     ts(2024, time.March, 5, 10, 0),
		ComplianceReports: []models.ComplianceReport{
			{StandardSetName: "Python Standards", Report: "# Summary\n\n- **Pass**: naming"},
			{StandardSetName: "Python Standards", Report: "<script>alert(1)</script>ok"},
		},
	}

	detail := ReviewSummary(review)

	if detail.Tag.Class != TagClassGreen {
		t.Fatalf("expected green tag, got %q", detail.Tag.Class)
	}
	if len(detail.Rows) != 4 {
		t.Fatalf("expected 4 summary rows, got %d", len(detail.Rows))
	}
	if len(detail.Reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(detail.Reports))
	}
	if detail.Reports[0].ID != "python-standards" || detail.Reports[1].ID != "python-standards-2" {
		t.Fatalf("unexpected report ids: %s, %s", detail.Reports[0].ID, detail.Reports[1].ID)
	}
	if !strings.Contains(string(detail.Reports[0].Body), "<h1") || !strings.Contains(string(detail.Reports[0].Body), "<strong>Pass</strong>") {
		t.Fatalf("expected rendered markdown, got %s", detail.Reports[0].Body)
	}
	if strings.Contains(string(detail.Reports[1].Body), "<script") {
		t.Fatalf("expected script to be stripped, got %s", detail.Reports[1].Body)
	}
}

func TestStandardSetSummaryWithoutPrompt(t *testing.T) {
	rows := StandardSetSummary(models.StandardSet{Name: "Node", RepositoryURL: "https://github.com/a/node"})
	if rows[2].Text != "None" {
		t.Fatalf("expected None for empty prompt, got %q", rows[2].Text)
	}
}
