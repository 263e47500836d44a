package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/render"
	"github.com/gorilla/mux"

	"github.com/invitely/invitely/editor-go/internal/asset"
	"github.com/invitely/invitely/editor-go/internal/config"
	"github.com/invitely/invitely/editor-go/internal/document"
	"github.com/invitely/invitely/editor-go/internal/export"
	"github.com/invitely/invitely/editor-go/internal/live"
	mw "github.com/invitely/invitely/editor-go/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	assetHandler := asset.NewHandler(cfg.AssetDir)
	resolver := asset.NewResolver(cfg.AssetDir, asset.WithMaxBytes(cfg.ImageFetchMax))

	exportHandler, err := export.NewHandler(resolver)
	if err != nil {
		slog.Error("create export handler", "error", err)
		os.Exit(1)
	}

	sessionOpts := cfg.SessionOptions()
	sessionOpts.Resolver = resolver
	hub := live.NewHub(sessionOpts, slog.Default())

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{"status": "ok", "sessions": hub.Len()})
	}).Methods("GET")

	// Asset endpoints
	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.HandleFunc("/assets/{id}", assetHandler.Remove).Methods("DELETE", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	// Template library and decorations
	r.HandleFunc("/templates", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		render.JSON(w, r, document.Templates(q.Get("q"), document.Category(q.Get("category"))))
	}).Methods("GET")
	r.HandleFunc("/decorations", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, document.Decorations())
	}).Methods("GET")

	// Export endpoint
	r.HandleFunc("/export/png", exportHandler.ExportPNG).Methods("POST", "OPTIONS")

	// WebSocket endpoint
	originPatterns := hostPatterns(cfg.Origins())
	r.HandleFunc("/ws/editor", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			slog.Error("websocket accept", "error", err)
			return
		}
		if err := hub.Serve(r.Context(), conn, document.CanvasData{
			Width:  cfg.CanvasWidth,
			Height: cfg.CanvasHeight,
		}); err != nil {
			slog.Warn("websocket refused", "error", err)
		}
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		// Stop the hub first so every session saves what it still holds
		slog.Info("saving open canvases...")
		hub.Stop(shutdownCtx)

		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// hostPatterns strips the scheme from allowed origins, the form websocket
// origin checks match against.
func hostPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if _, host, ok := strings.Cut(o, "://"); ok {
			o = host
		}
		out = append(out, o)
	}
	return out
}
