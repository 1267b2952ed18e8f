package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codereview-frontend/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized JSON error response. Used by the JSON endpoints.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	telemetry.Error("http.error", requestFields(c, map[string]any{
		"status":  status,
		"code":    code,
		"message": message,
	}))

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// ReturnLink is the optional "go back" link on the not found page.
type ReturnLink struct {
	Href string
	Text string
}

// NotFoundPage customises the not found view.
type NotFoundPage struct {
	Heading    string
	Message    string
	Reasons    []string
	ReturnLink *ReturnLink
}

// DefaultNotFound is shown for unknown routes and missing resources.
var DefaultNotFound = NotFoundPage{
	Heading: "Page not found",
	Message: "If you typed the web address, check it is correct. If you pasted the web address, check you copied the entire address.",
}

// NotFound renders the not found page with a 404 status.
func NotFound(c *gin.Context, page NotFoundPage) {
	if page.Heading == "" {
		page.Heading = DefaultNotFound.Heading
	}
	if page.Message == "" && len(page.Reasons) == 0 {
		page.Message = DefaultNotFound.Message
	}
	data := gin.H{
		"title":   page.Heading,
		"heading": page.Heading,
		"message": page.Message,
		"reasons": page.Reasons,
	}
	if page.ReturnLink != nil {
		data["returnLink"] = *page.ReturnLink
	}
	HTML(c, http.StatusNotFound, "error_not_found.html", data)
	c.Abort()
}

// Unauthorised renders the sign in required page.
func Unauthorised(c *gin.Context) {
	HTML(c, http.StatusUnauthorized, "error_unauthorised.html", gin.H{"title": "You need to sign in"})
	c.Abort()
}

// Forbidden renders the permission denied page.
func Forbidden(c *gin.Context) {
	HTML(c, http.StatusForbidden, "error_forbidden.html", gin.H{"title": "You do not have permission"})
	c.Abort()
}

// ServiceError renders the generic problem page with a 500 status.
func ServiceError(c *gin.Context) {
	HTML(c, http.StatusInternalServerError, "error_service.html", gin.H{"title": "Sorry, there is a problem with the service"})
	c.Abort()
}

type httpStatuser interface {
	HTTPStatus() int
}

// UpstreamStatus extracts the HTTP status carried by an upstream error, or 0
// when the request never produced a response.
func UpstreamStatus(err error) int {
	var hs httpStatuser
	if errors.As(err, &hs) {
		return hs.HTTPStatus()
	}
	return 0
}

// Upstream maps a failed backend call onto an error page. 404 uses notFound
// when one is given.
func Upstream(c *gin.Context, err error, notFound *NotFoundPage, fields map[string]any) {
	status := UpstreamStatus(err)
	logFields := requestFields(c, fields)
	logFields["upstream_status"] = status
	logFields["error"] = err

	switch status {
	case http.StatusUnauthorized:
		telemetry.Warn("http.upstream_error", logFields)
		Unauthorised(c)
	case http.StatusForbidden:
		telemetry.Warn("http.upstream_error", logFields)
		Forbidden(c)
	case http.StatusNotFound:
		telemetry.Info("http.upstream_not_found", logFields)
		page := DefaultNotFound
		if notFound != nil {
			page = *notFound
		}
		NotFound(c, page)
	default:
		telemetry.Error("http.upstream_error", logFields)
		ServiceError(c)
	}
}

func requestFields(c *gin.Context, extra map[string]any) map[string]any {
	fields := map[string]any{
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString(RequestIDKey),
	}
	if id := c.Param("id"); id != "" {
		fields["resource_id"] = id
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}
