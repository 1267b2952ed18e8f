package view

import (
	"html/template"
	"strconv"

	"codereview-frontend/internal/models"
	"codereview-frontend/internal/shared/util"
)

// SummaryRow is one row of a GOV.UK summary list.
type SummaryRow struct {
	Key  string
	Text string
	Href string
	Tag  *StatusTag
}

// ReportTab is one compliance report rendered for the tabs component.
type ReportTab struct {
	ID    string
	Label string
	Body  template.HTML
}

// ReviewDetail is the view model for a single code review page.
type ReviewDetail struct {
	ID            string
	RepositoryURL string
	Tag           StatusTag
	Rows          []SummaryRow
	Reports       []ReportTab
}

// ReviewSummary builds the detail view model for a review.
func ReviewSummary(review models.CodeReview) ReviewDetail {
	tag := NewStatusTag(review.ID, string(review.Status))
	detail := ReviewDetail{
		ID:            review.ID,
		RepositoryURL: review.RepositoryURL,
		Tag:           tag,
		Rows: []SummaryRow{
			{Key: "Repository", Text: review.RepositoryURL, Href: review.RepositoryURL},
			{Key: "Status", Tag: &tag},
			{Key: "Created", Text: FormatDate(review.CreatedAt.Time)},
			{Key: "Last updated", Text: FormatDate(review.UpdatedAt.Time)},
		},
	}

	seen := make(map[string]int, len(review.ComplianceReports))
	for _, report := range review.ComplianceReports {
		id := util.Slug(report.StandardSetName)
		if id == "" {
			id = "report"
		}
		seen[id]++
		if n := seen[id]; n > 1 {
			id = id + "-" + strconv.Itoa(n)
		}
		detail.Reports = append(detail.Reports, ReportTab{
			ID:    id,
			Label: report.StandardSetName,
			Body:  RenderMarkdown(report.Report),
		})
	}
	return detail
}

// StandardSetSummary builds the summary list for one standard set.
func StandardSetSummary(set models.StandardSet) []SummaryRow {
	prompt := set.CustomPrompt
	if prompt == "" {
		prompt = "None"
	}
	return []SummaryRow{
		{Key: "Name", Text: set.Name},
		{Key: "Repository", Text: set.RepositoryURL, Href: set.RepositoryURL},
		{Key: "Custom prompt", Text: prompt},
	}
}
