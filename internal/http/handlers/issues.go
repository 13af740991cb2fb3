package handlers

import (
	"net/http"
	"strings"

	"invenso/internal/domain"
	"invenso/internal/domain/models"
	"invenso/internal/services"
	"invenso/internal/utils"

	"github.com/gin-gonic/gin"
)

type issuesResponse struct {
	services.IssueView
	Stale     bool   `json:"stale"`
	LoadError string `json:"loadError,omitempty"`
}

type statusRequest struct {
	Status string `json:"Status" binding:"required"`
}

// GET /api/issues?location=&condition=&status=&equipmentType=&page=
func (h *Handler) ListIssues(c *gin.Context) {
	resp := issuesResponse{}
	if err := h.Issues.Load(c.Request.Context()); err != nil {
		resp.LoadError = err.Error()
		resp.Stale = !domain.IsMalformedResponse(err)
	}
	resp.IssueView = h.Issues.View(criteriaFrom(c.Query), pageFrom(c.Query("page")))
	c.JSON(http.StatusOK, resp)
}

// PUT /api/issues/:id/status {"Status": "INPROGRESS" | "COMPLETE"}
func (h *Handler) UpdateIssueStatus(c *gin.Context) {
	var req statusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	id := models.NewIssueID(utils.TrimOrEmpty(c.Param("id")))
	status := models.Status(strings.ToUpper(utils.TrimOrEmpty(req.Status)))

	res, err := h.Issues.SetStatus(c.Request.Context(), id, status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
