package standards

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"codereview-frontend/internal/apiclient"
	"codereview-frontend/internal/models"
	"codereview-frontend/internal/shared/server/middleware"
	"codereview-frontend/internal/shared/server/respond"
	"codereview-frontend/internal/shared/telemetry"
	"codereview-frontend/internal/shared/util"
	"codereview-frontend/internal/view"
)

const (
	standardSetsPath    = "/standards/standard-sets"
	classificationsPath = "/standards/classifications"

	msgStandardSetNameRequired    = "Enter a standard set name"
	msgRepositoryURLRequired      = "Enter a repository URL"
	msgRepositoryURLInvalid       = "Enter a valid repository URL"
	msgClassificationNameRequired = "Enter a classification name"
	msgClassificationNameInvalid  = "Classification name must only include letters, numbers, spaces, full stops, hyphens and hash symbols"
)

var classificationNamePattern = regexp.MustCompile(`^[A-Za-z0-9 .\-#]+$`)

// StandardSetNotFound is the not found page for a missing standard set.
var StandardSetNotFound = respond.NotFoundPage{
	Heading:    "Standard set not found",
	Message:    "The standard set you are looking for does not exist. It may have been deleted.",
	ReturnLink: &respond.ReturnLink{Href: standardSetsPath, Text: "View all standard sets"},
}

// API is the subset of the upstream client the handler calls.
type API interface {
	ListStandardSets(ctx context.Context) ([]models.StandardSet, error)
	GetStandardSet(ctx context.Context, id string) (models.StandardSet, error)
	CreateStandardSet(ctx context.Context, req apiclient.CreateStandardSetRequest) (models.StandardSet, error)
	DeleteStandardSet(ctx context.Context, id string) error
	ListClassifications(ctx context.Context) ([]models.Classification, error)
	CreateClassification(ctx context.Context, req apiclient.CreateClassificationRequest) (models.Classification, error)
	DeleteClassification(ctx context.Context, id string) error
}

// Handler serves the standards pages.
type Handler struct {
	API API
}

// NewHandler constructs a Handler.
func NewHandler(api API) *Handler {
	return &Handler{API: api}
}

// RegisterRoutes attaches standards routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/standards")
	g.GET("", h.landing)
	g.GET("/standard-sets", h.listStandardSets)
	g.POST("/standard-sets", h.createStandardSet)
	g.GET("/standard-sets/:id", h.showStandardSet)
	g.POST("/standard-sets/:id/delete", h.deleteStandardSet)
	g.GET("/classifications", h.listClassifications)
	g.POST("/classifications", h.createClassification)
	g.POST("/classifications/:id/delete", h.deleteClassification)
}

func (h *Handler) landing(c *gin.Context) {
	var (
		sets            []models.StandardSet
		classifications []models.Classification
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		sets, err = h.API.ListStandardSets(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		classifications, err = h.API.ListClassifications(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		respond.Upstream(c, err, nil, map[string]any{"action": "standards_landing"})
		return
	}
	respond.HTML(c, http.StatusOK, "standards.html", gin.H{
		"title":               "Standards",
		"standardSetCount":    len(sets),
		"classificationCount": len(classifications),
	})
}

type standardSetForm struct {
	Name          string `form:"name"`
	RepositoryURL string `form:"repository_url"`
	CustomPrompt  string `form:"custom_prompt"`
}

func (f *standardSetForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.RepositoryURL = strings.TrimSpace(f.RepositoryURL)
	f.CustomPrompt = strings.TrimSpace(f.CustomPrompt)
}

func (f standardSetForm) validate() view.FormErrors {
	var errs view.FormErrors
	if f.Name == "" {
		errs.Add("name", msgStandardSetNameRequired)
	}
	switch {
	case f.RepositoryURL == "":
		errs.Add("repository_url", msgRepositoryURLRequired)
	case !util.IsHTTPURL(f.RepositoryURL):
		errs.Add("repository_url", msgRepositoryURLInvalid)
	}
	return errs
}

func (h *Handler) listStandardSets(c *gin.Context) {
	h.renderStandardSets(c, http.StatusOK, standardSetForm{}, view.FormErrors{})
}

func (h *Handler) createStandardSet(c *gin.Context) {
	var form standardSetForm
	if err := c.ShouldBind(&form); err != nil {
		telemetry.Warn("standards.standard_set_form_bind_failed", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"error":      err,
		})
		respond.ServiceError(c)
		return
	}
	form.normalize()

	if errs := form.validate(); errs.Any() {
		h.renderStandardSets(c, http.StatusBadRequest, form, errs)
		return
	}

	set, err := h.API.CreateStandardSet(c.Request.Context(), apiclient.CreateStandardSetRequest{
		Name:          form.Name,
		RepositoryURL: form.RepositoryURL,
		CustomPrompt:  form.CustomPrompt,
	})
	if err != nil {
		if apiclient.IsValidation(err) {
			var errs view.FormErrors
			errs.Add("name", upstreamMessage(err, "The standard set could not be saved"))
			h.renderStandardSets(c, http.StatusBadRequest, form, errs)
			return
		}
		respond.Upstream(c, err, nil, map[string]any{"action": "create_standard_set"})
		return
	}

	telemetry.Info("standards.standard_set_created", map[string]any{
		"request_id":      middleware.RequestIDFromContext(c),
		"standard_set_id": set.ID,
		"name":            set.Name,
	})
	c.Redirect(http.StatusFound, standardSetsPath)
}

func (h *Handler) renderStandardSets(c *gin.Context, status int, form standardSetForm, errs view.FormErrors) {
	sets, err := h.API.ListStandardSets(c.Request.Context())
	if err != nil {
		respond.Upstream(c, err, nil, map[string]any{"action": "list_standard_sets"})
		return
	}
	respond.HTML(c, status, "standard_sets.html", gin.H{
		"title":    "Standard sets",
		"backLink": "/standards",
		"rows":     view.FormatStandardSetsForTable(sets),
		"values":   form,
		"errors":   errs,
	})
}

func (h *Handler) showStandardSet(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	set, err := h.API.GetStandardSet(c.Request.Context(), id)
	if err != nil {
		respond.Upstream(c, err, &StandardSetNotFound, map[string]any{"action": "get_standard_set"})
		return
	}
	respond.HTML(c, http.StatusOK, "standard_set.html", gin.H{
		"title":        set.Name,
		"backLink":     standardSetsPath,
		"name":         set.Name,
		"rows":         view.StandardSetSummary(set),
		"deleteAction": standardSetsPath + "/" + set.ID + "/delete",
	})
}

func (h *Handler) deleteStandardSet(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := h.API.DeleteStandardSet(c.Request.Context(), id); err != nil && !apiclient.IsNotFound(err) {
		respond.Upstream(c, err, nil, map[string]any{"action": "delete_standard_set"})
		return
	}
	telemetry.Info("standards.standard_set_deleted", map[string]any{
		"request_id":      middleware.RequestIDFromContext(c),
		"standard_set_id": id,
	})
	c.Redirect(http.StatusFound, standardSetsPath)
}

type classificationForm struct {
	Name string `form:"name"`
}

func (f classificationForm) validate() view.FormErrors {
	var errs view.FormErrors
	switch {
	case f.Name == "":
		errs.Add("name", msgClassificationNameRequired)
	case !classificationNamePattern.MatchString(f.Name):
		errs.Add("name", msgClassificationNameInvalid)
	}
	return errs
}

func (h *Handler) listClassifications(c *gin.Context) {
	h.renderClassifications(c, http.StatusOK, classificationForm{}, view.FormErrors{})
}

func (h *Handler) createClassification(c *gin.Context) {
	var form classificationForm
	if err := c.ShouldBind(&form); err != nil {
		telemetry.Warn("standards.classification_form_bind_failed", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"error":      err,
		})
		respond.ServiceError(c)
		return
	}
	form.Name = strings.TrimSpace(form.Name)

	if errs := form.validate(); errs.Any() {
		h.renderClassifications(c, http.StatusBadRequest, form, errs)
		return
	}

	created, err := h.API.CreateClassification(c.Request.Context(), apiclient.CreateClassificationRequest{Name: form.Name})
	if err != nil {
		if apiclient.IsValidation(err) {
			var errs view.FormErrors
			errs.Add("name", upstreamMessage(err, "The classification could not be saved"))
			h.renderClassifications(c, http.StatusBadRequest, form, errs)
			return
		}
		respond.Upstream(c, err, nil, map[string]any{"action": "create_classification"})
		return
	}

	telemetry.Info("standards.classification_created", map[string]any{
		"request_id":        middleware.RequestIDFromContext(c),
		"classification_id": created.ID,
		"name":              created.Name,
	})
	c.Redirect(http.StatusFound, classificationsPath)
}

func (h *Handler) renderClassifications(c *gin.Context, status int, form classificationForm, errs view.FormErrors) {
	items, err := h.API.ListClassifications(c.Request.Context())
	if err != nil {
		respond.Upstream(c, err, nil, map[string]any{"action": "list_classifications"})
		return
	}
	respond.HTML(c, status, "classifications.html", gin.H{
		"title":    "Classifications",
		"backLink": "/standards",
		"rows":     view.FormatClassificationsForTable(items),
		"values":   form,
		"errors":   errs,
	})
}

func (h *Handler) deleteClassification(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := h.API.DeleteClassification(c.Request.Context(), id); err != nil && !apiclient.IsNotFound(err) {
		respond.Upstream(c, err, nil, map[string]any{"action": "delete_classification"})
		return
	}
	telemetry.Info("standards.classification_deleted", map[string]any{
		"request_id":        middleware.RequestIDFromContext(c),
		"classification_id": id,
	})
	c.Redirect(http.StatusFound, classificationsPath)
}

func upstreamMessage(err error, fallback string) string {
	if detail := apiclient.Detail(err); detail != "" {
		return detail
	}
	return fallback
}
