package handlers

import (
	"context"
	"errors"
	"net"
	"net/http"

	"invenso/internal/domain"
	"invenso/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads for new handlers.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	resp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}
	reqID := middleware.GetRequestID(c)
	if reqID != "" {
		c.JSON(status, gin.H{
			"error":      resp.Error,
			"code":       resp.Code,
			"details":    resp.Details,
			"request_id": reqID,
			"message":    message,
		})
		return
	}
	c.JSON(status, resp)
}

// RespondDomainError maps domain and backend errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsBackendStatus(err):
		respondError(c, http.StatusBadGateway, "backend_status", "backend menolak permintaan",
			gin.H{"backendStatus": domain.BackendStatusCode(err)})
	case domain.IsTransport(err) && isTimeout(err):
		respondError(c, http.StatusGatewayTimeout, "backend_timeout", "backend tidak merespons", nil)
	case domain.IsTransport(err):
		respondError(c, http.StatusBadGateway, "backend_unreachable", "backend tidak dapat dihubungi", nil)
	case domain.IsMalformedResponse(err):
		respondError(c, http.StatusBadGateway, "backend_malformed", "respons backend tidak valid", nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "terjadi kesalahan", nil)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
