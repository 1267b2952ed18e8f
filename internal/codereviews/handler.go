package codereviews

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"codereview-frontend/internal/apiclient"
	"codereview-frontend/internal/models"
	"codereview-frontend/internal/shared/server/middleware"
	"codereview-frontend/internal/shared/server/respond"
	"codereview-frontend/internal/shared/telemetry"
	"codereview-frontend/internal/shared/util"
	"codereview-frontend/internal/view"
)

const (
	msgRepositoryURLRequired = "Enter a repository URL"
	msgRepositoryURLInvalid  = "Enter a valid repository URL"
)

// ReviewNotFound is the not found page for a missing code review.
var ReviewNotFound = respond.NotFoundPage{
	Heading: "Code review not found",
	Message: "The code review you are looking for does not exist. This may be because:",
	Reasons: []string{
		"the link you followed is incorrect",
		"the code review has been deleted",
		"the code review ID was typed incorrectly",
	},
	ReturnLink: &respond.ReturnLink{Href: "/code-reviews", Text: "View all code reviews"},
}

// API is the subset of the upstream client the handler calls.
type API interface {
	ListCodeReviews(ctx context.Context) ([]models.CodeReview, error)
	GetCodeReview(ctx context.Context, id string) (models.CodeReview, error)
	CreateCodeReview(ctx context.Context, req apiclient.CreateCodeReviewRequest) (models.CodeReview, error)
	Status(ctx context.Context, id string) (string, error)
	ListStandardSets(ctx context.Context) ([]models.StandardSet, error)
}

// Handler serves the code review pages and the status endpoint.
type Handler struct {
	API         API
	StatusLimit gin.HandlerFunc
}

// NewHandler constructs a Handler. statusLimit guards the status endpoint and
// may be nil.
func NewHandler(api API, statusLimit gin.HandlerFunc) *Handler {
	return &Handler{API: api, StatusLimit: statusLimit}
}

// RegisterRoutes attaches code review routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.newReview)
	rg.POST("/", h.create)
	rg.GET("/code-reviews", h.list)
	rg.GET("/code-reviews/:id", h.show)

	status := []gin.HandlerFunc{h.status}
	if h.StatusLimit != nil {
		status = append([]gin.HandlerFunc{h.StatusLimit}, status...)
	}
	rg.GET("/api/code-reviews/:id/status", status...)
}

type reviewForm struct {
	RepositoryURL     string   `form:"repository_url"`
	StandardSets      []string `form:"standard_sets"`
	StandardSetsArray []string `form:"standard_sets[]"`
}

func (f reviewForm) selected() []string {
	out := make([]string, 0, len(f.StandardSets)+len(f.StandardSetsArray))
	for _, id := range append(append([]string{}, f.StandardSets...), f.StandardSetsArray...) {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func (f reviewForm) validate() view.FormErrors {
	var errs view.FormErrors
	switch {
	case f.RepositoryURL == "":
		errs.Add("repository_url", msgRepositoryURLRequired)
	case !util.IsHTTPURL(f.RepositoryURL):
		errs.Add("repository_url", msgRepositoryURLInvalid)
	}
	return errs
}

func (h *Handler) newReview(c *gin.Context) {
	h.renderForm(c, reviewForm{}, view.FormErrors{})
}

func (h *Handler) create(c *gin.Context) {
	var form reviewForm
	if err := c.ShouldBind(&form); err != nil {
		telemetry.Warn("codereviews.form_bind_failed", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"error":      err,
		})
		respond.ServiceError(c)
		return
	}
	form.RepositoryURL = strings.TrimSpace(form.RepositoryURL)

	if errs := form.validate(); errs.Any() {
		h.renderForm(c, form, errs)
		return
	}

	review, err := h.API.CreateCodeReview(c.Request.Context(), apiclient.CreateCodeReviewRequest{
		RepositoryURL: form.RepositoryURL,
		StandardSets:  form.selected(),
	})
	if err != nil {
		if apiclient.IsValidation(err) {
			detail := apiclient.Detail(err)
			if detail == "" {
				detail = msgRepositoryURLInvalid
			}
			var errs view.FormErrors
			errs.Add("repository_url", detail)
			telemetry.Warn("codereviews.create_rejected", map[string]any{
				"request_id":     middleware.RequestIDFromContext(c),
				"repository_url": form.RepositoryURL,
				"detail":         detail,
			})
			h.renderForm(c, form, errs)
			return
		}
		respond.Upstream(c, err, nil, map[string]any{"action": "create_code_review"})
		return
	}

	telemetry.Info("codereviews.created", map[string]any{
		"request_id":     middleware.RequestIDFromContext(c),
		"review_id":      review.ID,
		"repository_url": review.RepositoryURL,
		"standard_sets":  len(form.selected()),
	})
	c.Redirect(http.StatusFound, "/code-reviews/"+review.ID)
}

// renderForm shows the request form. Validation problems re-render with 200.
func (h *Handler) renderForm(c *gin.Context, form reviewForm, errs view.FormErrors) {
	sets, err := h.API.ListStandardSets(c.Request.Context())
	if err != nil {
		respond.Upstream(c, err, nil, map[string]any{"action": "list_standard_sets"})
		return
	}
	respond.HTML(c, http.StatusOK, "index.html", gin.H{
		"title":        "Request a code review",
		"values":       form,
		"errors":       errs,
		"standardSets": view.StandardSetOptions(sets, form.selected()),
	})
}

func (h *Handler) list(c *gin.Context) {
	reviews, err := h.API.ListCodeReviews(c.Request.Context())
	if err != nil {
		respond.Upstream(c, err, nil, map[string]any{"action": "list_code_reviews"})
		return
	}
	view.SortReviewsNewestFirst(reviews)
	respond.HTML(c, http.StatusOK, "code_reviews.html", gin.H{
		"title": "Code reviews",
		"head":  view.ReviewTableHead,
		"rows":  view.FormatReviewsForTable(reviews),
	})
}

func (h *Handler) show(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	c.Set("reviewId", id)

	review, err := h.API.GetCodeReview(c.Request.Context(), id)
	if err != nil {
		respond.Upstream(c, err, &ReviewNotFound, map[string]any{"action": "get_code_review"})
		return
	}
	respond.HTML(c, http.StatusOK, "code_review.html", gin.H{
		"title":    "Code review for " + review.RepositoryURL,
		"backLink": "/code-reviews",
		"review":   view.ReviewSummary(review),
	})
}

func (h *Handler) status(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	c.Set("reviewId", id)

	status, err := h.API.Status(c.Request.Context(), id)
	if err != nil {
		switch code := respond.UpstreamStatus(err); code {
		case http.StatusNotFound:
			respond.Error(c, http.StatusNotFound, "not_found", "code review not found", nil)
		case http.StatusUnauthorized, http.StatusForbidden:
			respond.Error(c, code, "forbidden", "not permitted to read this code review", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "upstream_error", "unable to fetch status", nil)
		}
		return
	}
	respond.OK(c, models.ReviewStatus{ID: id, Status: models.Status(status)})
}
