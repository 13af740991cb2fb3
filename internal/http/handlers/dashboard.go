package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"invenso/internal/domain"
	"invenso/internal/domain/models"
	"invenso/internal/http/middleware"
	"invenso/internal/services"
	"invenso/internal/tokenstore"
	"invenso/internal/utils"

	"github.com/gin-gonic/gin"
)

const dashboardPath = "/admin"

type navLink struct {
	Label string
	URL   string
}

type pageLink struct {
	Number  int
	URL     string
	Current bool
}

type dashboardPage struct {
	View      services.IssueView
	Token     string
	Links     []navLink
	Inventory navLink
	PrevURL   string
	NextURL   string
	Pages     []pageLink
	ExportURL string
}

func (h *Handler) navLinks() (navLink, []navLink) {
	base := strings.TrimRight(h.InventoryUIURL, "/")
	inventory := navLink{"Create and Manage your Inventory", base + "/inventory"}
	return inventory, []navLink{
		{"Check Room Inventory", base + "/rooms"},
		{"Check Equipment Inventory", base + "/equipments"},
		{"Check Equipment Type Inventory", base + "/equipmenttypes"},
	}
}

// Dashboard is the "mount" of the admin page: it reloads the issue list
// and renders the requested page of the filtered table. A failed load
// is already logged and the last good list is shown.
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	_ = h.Issues.Load(ctx)

	criteria := criteriaFrom(c.Query)
	page := pageFrom(c.Query("page"))
	view := h.Issues.View(criteria, page)

	data := dashboardPage{
		View:      view,
		Token:     h.tokenLabel(c),
		ExportURL: withQuery(dashboardPath+"/export.pdf", viewQuery(criteria, 1)),
		PrevURL:   withQuery(dashboardPath, viewQuery(criteria, view.Pager.Previous)),
		NextURL:   withQuery(dashboardPath, viewQuery(criteria, view.Pager.Next)),
	}
	data.Inventory, data.Links = h.navLinks()
	for _, n := range view.Pager.Pages {
		data.Pages = append(data.Pages, pageLink{
			Number:  n,
			URL:     withQuery(dashboardPath, viewQuery(criteria, n)),
			Current: n == page,
		})
	}
	c.HTML(http.StatusOK, "dashboard.tmpl", data)
}

// PostStatus handles the In Progress / Complete buttons and sends the
// operator back to the page they were on. Failures leave the table as
// it was; the details are in the log.
func (h *Handler) PostStatus(c *gin.Context) {
	ctx := c.Request.Context()
	id := models.NewIssueID(utils.TrimOrEmpty(c.Param("id")))
	status := models.Status(strings.ToUpper(utils.TrimOrEmpty(c.PostForm("newStatus"))))

	if _, err := h.Issues.SetStatus(ctx, id, status); err != nil && domain.IsValidation(err) {
		utils.LogError(middleware.GetRequestID(c), "dashboard", "post_status", err)
	}

	criteria := criteriaFrom(c.PostForm)
	page := pageFrom(c.PostForm("page"))
	c.Redirect(http.StatusSeeOther, withQuery(dashboardPath, viewQuery(criteria, page)))
}

// ExportPDF downloads the filtered list as a PDF report.
func (h *Handler) ExportPDF(c *gin.Context) {
	ctx := c.Request.Context()
	_ = h.Issues.Load(ctx)

	svc := services.ReportService{RequestID: middleware.GetRequestID(c), Now: h.Now}
	pdf, filename, err := svc.Export(h.Issues.Records(), criteriaFrom(c.Query))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) tokenLabel(c *gin.Context) string {
	if h.Tokens == nil {
		return tokenstore.Inspect("", h.now()).Label()
	}
	token, err := h.Tokens.Token(c.Request.Context())
	if err != nil {
		return "token store error"
	}
	return tokenstore.Inspect(token, h.now()).Label()
}
