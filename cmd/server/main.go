package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/b-hayes/room-planner-sub000/internal/auth"
	"github.com/b-hayes/room-planner-sub000/internal/collab"
	"github.com/b-hayes/room-planner-sub000/internal/config"
	"github.com/b-hayes/room-planner-sub000/internal/engine"
	mw "github.com/b-hayes/room-planner-sub000/internal/middleware"
	"github.com/b-hayes/room-planner-sub000/internal/typeid"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	// Fail at startup rather than on the first session.
	if probe, err := engine.New(cfg.Editor.Options()...); err != nil {
		slog.Error("invalid editor config", "error", err)
		os.Exit(1)
	} else {
		probe.Close()
	}

	hub := collab.NewHub(func() (*engine.Grid, error) {
		return engine.New(cfg.Editor.Options()...)
	})
	go hub.Run()

	authService := auth.NewService(cfg.JWTSecret, cfg.SessionTTL)
	authHandler := auth.NewHandler(authService, hub)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.AllowedOrigins))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Session routes (public; they hand out the join tokens)
	r.HandleFunc("/sessions", authHandler.CreateSession).Methods("POST", "OPTIONS")
	r.HandleFunc("/sessions/{sessionId}/join", authHandler.JoinSession).Methods("POST", "OPTIONS")

	// WebSocket endpoint
	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(authService.AuthMiddleware)
	originPatterns := mw.OriginPatterns(cfg.AllowedOrigins)
	ws.HandleFunc("/session/{sessionId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, originPatterns)
	})

	// Static page hosting the wasm build
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir))).Methods("GET")

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
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "static", cfg.StaticDir)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, originPatterns []string) {
	sessionID := mux.Vars(r)["sessionId"]

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil || claims.SessionID != sessionID {
		http.Error(w, "token is not valid for this session", http.StatusForbidden)
		return
	}
	if !hub.Exists(sessionID) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := collab.NewClient(hub, conn, claims.UserID, claims.DisplayName, sessionID, typeid.NewClientID())

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
