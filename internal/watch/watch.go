// Package watch follows running code reviews from a terminal.
package watch

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/sync/errgroup"

	"codereview-frontend/internal/models"
	"codereview-frontend/internal/reconciler"
	"codereview-frontend/internal/view"
)

var (
	green  = color.New(color.FgHiGreen).SprintFunc()
	red    = color.New(color.FgHiRed).SprintFunc()
	yellow = color.New(color.FgHiYellow).SprintFunc()
	cyan   = color.New(color.FgHiCyan).SprintFunc()
)

// API is what the watcher needs from the upstream client.
type API interface {
	ListCodeReviews(ctx context.Context) ([]models.CodeReview, error)
	GetCodeReview(ctx context.Context, id string) (models.CodeReview, error)
	Status(ctx context.Context, id string) (string, error)
}

// Options configure a Watcher.
type Options struct {
	Out     io.Writer
	Options reconciler.Options
}

// Watcher prints review statuses and follows them until none are running.
type Watcher struct {
	api  API
	out  io.Writer
	opts reconciler.Options
}

// New constructs a Watcher.
func New(api API, opts Options) *Watcher {
	return &Watcher{api: api, out: opts.Out, opts: opts.Options}
}

// Load returns the reviews for ids, or every review newest first when ids is
// empty.
func (w *Watcher) Load(ctx context.Context, ids []string) ([]models.CodeReview, error) {
	if len(ids) == 0 {
		reviews, err := w.api.ListCodeReviews(ctx)
		if err != nil {
			return nil, fmt.Errorf("list code reviews: %w", err)
		}
		view.SortReviewsNewestFirst(reviews)
		return reviews, nil
	}

	reviews := make([]models.CodeReview, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, id := range ids {
		g.Go(func() error {
			review, err := w.api.GetCodeReview(gctx, id)
			if err != nil {
				return fmt.Errorf("get code review %s: %w", id, err)
			}
			reviews[i] = review
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Run loads the reviews, prints them as a table and then one line per status
// change until nothing is in flight or ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, ids []string) error {
	reviews, err := w.Load(ctx, ids)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		fmt.Fprintln(w.out, "No code reviews found.")
		return nil
	}
	w.PrintTable(reviews)

	tags := make([]view.StatusTag, 0, len(reviews))
	repos := make(map[string]string, len(reviews))
	for _, r := range reviews {
		tags = append(tags, view.NewStatusTag(r.ID, string(r.Status)))
		repos[r.ID] = r.RepositoryURL
	}
	board := reconciler.NewMemoryBoard(tags...)
	board.OnChange = func(before, after reconciler.Indicator) {
		fmt.Fprintf(w.out, "%s %s: %s -> %s\n", cyan(after.ID), repos[after.ID], before.Text, colorize(after.Text))
	}

	if !reconciler.Pollable(board.Indicators()) {
		fmt.Fprintln(w.out, "Nothing in flight.")
		return nil
	}
	fmt.Fprintln(w.out, "Watching for status changes...")
	if err := reconciler.New(board, w.api, w.opts).Run(ctx); err != nil {
		return err
	}
	fmt.Fprintln(w.out, green("All reviews have finished."))
	return nil
}

// PrintTable writes reviews as a borderless table.
func (w *Watcher) PrintTable(reviews []models.CodeReview) {
	table := tablewriter.NewTable(w.out,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header([]string{"ID", "Repository", "Created", "Status"})
	for _, r := range reviews {
		_ = table.Append([]string{
			r.ID,
			r.RepositoryURL,
			view.FormatDate(r.CreatedAt.Time),
			colorize(view.FormatStatusText(string(r.Status))),
		})
	}
	_ = table.Render()
}

func colorize(text string) string {
	switch {
	case strings.EqualFold(text, "completed"):
		return green(text)
	case strings.EqualFold(text, "failed"):
		return red(text)
	case reconciler.IsInFlightText(text):
		return yellow(text)
	default:
		return text
	}
}
