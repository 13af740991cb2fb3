package api

import (
	"embed"
	"html/template"
	"log"
	stdhttp "net/http"
	"net/url"

	intconfig "invenso/internal/config"
	h "invenso/internal/http/handlers"
	"invenso/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"pathEscape": url.PathEscape,
}

// NewRouter wires the dashboard pages and the JSON API.
func NewRouter(env intconfig.Env, handler *h.Handler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger("/api/health"), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	tmpl := template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl"))
	r.SetHTMLTemplate(tmpl)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route tidak ditemukan",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/", func(c *gin.Context) { c.Redirect(stdhttp.StatusFound, "/admin") })

	admin := r.Group("/admin")
	{
		admin.GET("", handler.Dashboard)
		admin.GET("/export.pdf", handler.ExportPDF)
		admin.POST("/issues/:id/status", handler.PostStatus)
	}

	api := r.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.GET("/routes", h.Routes)

		issues := api.Group("/issues")
		issues.GET("", handler.ListIssues)
		issues.PUT("/:id/status", handler.UpdateIssueStatus)
	}

	h.SetRouter(r)
	return r
}
