package apiclient

import (
	"context"
	"net/http"

	"codereview-frontend/internal/models"
	"codereview-frontend/internal/shared/telemetry"
)

// CreateCodeReviewRequest is the body sent to POST /code-reviews.
type CreateCodeReviewRequest struct {
	RepositoryURL string   `json:"repository_url"`
	StandardSets  []string `json:"standard_sets"`
}

// ListCodeReviews returns every code review known to the API.
func (c *Client) ListCodeReviews(ctx context.Context) ([]models.CodeReview, error) {
	var out []models.CodeReview
	if err := c.do(ctx, http.MethodGet, "code-reviews", "/code-reviews", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCodeReview fetches a single review, including its compliance reports.
func (c *Client) GetCodeReview(ctx context.Context, id string) (models.CodeReview, error) {
	var out models.CodeReview
	if err := c.do(ctx, http.MethodGet, "code-reviews/{id}", "/code-reviews/"+escape(id), nil, &out); err != nil {
		return models.CodeReview{}, err
	}
	return out, nil
}

// CreateCodeReview requests a new review and returns the created record.
func (c *Client) CreateCodeReview(ctx context.Context, req CreateCodeReviewRequest) (models.CodeReview, error) {
	if req.StandardSets == nil {
		req.StandardSets = []string{}
	}
	var out models.CodeReview
	if err := c.do(ctx, http.MethodPost, "code-reviews", "/code-reviews", req, &out); err != nil {
		return models.CodeReview{}, err
	}
	return out, nil
}

// Status returns the current status of a review. It satisfies
// reconciler.StatusSource.
func (c *Client) Status(ctx context.Context, id string) (string, error) {
	review, err := c.GetCodeReview(ctx, id)
	if err != nil {
		return "", err
	}
	if !review.Status.Known() {
		telemetry.Warn("api.unknown_status", map[string]any{
			"review_id": id,
			"status":    string(review.Status),
		})
	}
	return string(review.Status), nil
}
