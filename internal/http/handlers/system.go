package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"invenso/internal/tokenstore"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

// Health reports liveness plus the token store reachability when the
// store can tell.
func (h *Handler) Health(c *gin.Context) {
	out := gin.H{
		"status":     "ok",
		"message":    "invenso dashboard berjalan",
		"backend":    h.BackendURL,
		"loaded":     h.Issues.Loaded(),
		"tokenStore": h.TokenStoreType,
	}
	if p, ok := h.Tokens.(tokenstore.Pinger); ok {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			out["status"] = "degraded"
			out["tokenStoreError"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, out)
			return
		}
	}
	c.JSON(http.StatusOK, out)
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router belum siap"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
