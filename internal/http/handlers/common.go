package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"invenso/internal/domain"
	"invenso/internal/http/middleware"
	"invenso/internal/services"
	"invenso/internal/utils"

	"github.com/gin-gonic/gin"
)

// RespondError sends standard error payload with request_id included.
// Keeps backward compatibility by always providing "message".
func RespondError(c *gin.Context, status int, message string, err error) {
	reqID := middleware.GetRequestID(c)
	payload := gin.H{
		"message":    message,
		"request_id": reqID,
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondError(c, http.StatusBadRequest, "body kosong", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "payload tidak valid", err)
		return false
	}
	return true
}

// criteriaFrom reads the four filters through get (Query or PostForm).
// Values are used verbatim: they come from the dropdowns.
func criteriaFrom(get func(string) string) domain.FilterCriteria {
	var c domain.FilterCriteria
	for _, f := range services.FilterFields {
		c = f.WithCriterion(c, get(f.Param()))
	}
	return c
}

// pageFrom parses a 1-based page; missing or non-numeric means 1.
func pageFrom(raw string) int {
	raw = utils.TrimOrEmpty(raw)
	if raw == "" {
		return 1
	}
	p, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return p
}

// viewQuery encodes criteria and page for links back to the dashboard.
func viewQuery(c domain.FilterCriteria, page int) url.Values {
	q := url.Values{}
	for _, f := range services.FilterFields {
		if v := f.Criterion(c); v != "" {
			q.Set(f.Param(), v)
		}
	}
	if page != 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
