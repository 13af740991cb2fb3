package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "invenso/internal/config"
	router "invenso/internal/http"
	"invenso/internal/http/handlers"
	"invenso/internal/repositories"
	"invenso/internal/services"
	"invenso/internal/tokenstore"

	"github.com/gin-gonic/gin"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		log.Printf("warning: %v (memakai env saja)", err)
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	store, err := tokenstore.New(tokenstore.OptionsFromEnv(env))
	if err != nil {
		log.Fatalf("Gagal membuka token store: %v", err)
	}
	defer store.Close()
	defer intconfig.CloseDB()

	repo := repositories.NewIssueRepository(env.BackendURL, env.BackendTimeout, store)
	h := &handlers.Handler{
		Issues:         services.NewIssueService(repo),
		Tokens:         store,
		TokenStoreType: env.TokenStore,
		BackendURL:     env.BackendURL,
		InventoryUIURL: env.InventoryUIURL,
	}

	// Router (Gin engine)
	r := router.NewRouter(env, h)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      env.BackendTimeout*2 + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Dashboard berjalan di http://%s/admin (backend %s)", env.AppAddr, env.BackendURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Gagal menjalankan server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Mematikan server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown server gagal: %v", err)
		return
	}

	log.Println("Server berhenti dengan aman.")
}
