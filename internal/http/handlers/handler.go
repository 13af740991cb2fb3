package handlers

import (
	"time"

	"invenso/internal/services"
	"invenso/internal/tokenstore"
)

// Handler serves the dashboard and the JSON API over one IssueService.
type Handler struct {
	Issues *services.IssueService
	Tokens tokenstore.Provider

	TokenStoreType string
	BackendURL     string
	InventoryUIURL string

	Now func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
