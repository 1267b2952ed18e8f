package view

import (
	"sort"

	"codereview-frontend/internal/models"
)

// TableCell is one cell of a GOV.UK table. At most one of Href or Tag is set.
type TableCell struct {
	Text string
	Href string
	Tag  *StatusTag
}

// TableRow is one row of a GOV.UK table.
type TableRow struct {
	ID    string
	Cells []TableCell
}

// ReviewTableHead is the header row for the code review list.
var ReviewTableHead = []string{"Repository", "Created", "Updated", "Status"}

// FormatReviewsForTable returns one four-cell row per review: repository link,
// created time, updated time, status tag.
func FormatReviewsForTable(reviews []models.CodeReview) []TableRow {
	rows := make([]TableRow, 0, len(reviews))
	for _, r := range reviews {
		tag := NewStatusTag(r.ID, string(r.Status))
		rows = append(rows, TableRow{
			ID: r.ID,
			Cells: []TableCell{
				{Text: r.RepositoryURL, Href: "/code-reviews/" + r.ID},
				{Text: FormatDate(r.CreatedAt.Time)},
				{Text: FormatDate(r.UpdatedAt.Time)},
				{Tag: &tag},
			},
		})
	}
	return rows
}

// SortReviewsNewestFirst orders reviews by creation time, newest first.
func SortReviewsNewestFirst(reviews []models.CodeReview) {
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt.Time)
	})
}

// StandardSetRow is a standard set prepared for the list table.
type StandardSetRow struct {
	ID            string
	Name          string
	Href          string
	RepositoryURL string
	HasPrompt     string
	DeleteAction  string
}

// FormatStandardSetsForTable prepares standard sets for the list page.
func FormatStandardSetsForTable(sets []models.StandardSet) []StandardSetRow {
	rows := make([]StandardSetRow, 0, len(sets))
	for _, s := range sets {
		prompt := "No"
		if s.CustomPrompt != "" {
			prompt = "Yes"
		}
		rows = append(rows, StandardSetRow{
			ID:            s.ID,
			Name:          s.Name,
			Href:          "/standards/standard-sets/" + s.ID,
			RepositoryURL: s.RepositoryURL,
			HasPrompt:     prompt,
			DeleteAction:  "/standards/standard-sets/" + s.ID + "/delete",
		})
	}
	return rows
}

// ClassificationRow is a classification prepared for the list table.
type ClassificationRow struct {
	ID           string
	Name         string
	DeleteAction string
}

// FormatClassificationsForTable prepares classifications sorted by name.
func FormatClassificationsForTable(items []models.Classification) []ClassificationRow {
	rows := make([]ClassificationRow, 0, len(items))
	for _, c := range items {
		rows = append(rows, ClassificationRow{
			ID:           c.ID,
			Name:         c.Name,
			DeleteAction: "/standards/classifications/" + c.ID + "/delete",
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// StandardSetOption is a checkbox on the request form.
type StandardSetOption struct {
	Value   string
	Text    string
	Hint    string
	Checked bool
}

// StandardSetOptions builds the checkbox list, ticking the selected ids.
func StandardSetOptions(sets []models.StandardSet, selected []string) []StandardSetOption {
	chosen := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		chosen[id] = struct{}{}
	}
	opts := make([]StandardSetOption, 0, len(sets))
	for _, s := range sets {
		_, ok := chosen[s.ID]
		opts = append(opts, StandardSetOption{
			Value:   s.ID,
			Text:    s.Name,
			Hint:    s.RepositoryURL,
			Checked: ok,
		})
	}
	return opts
}
