package auth

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// Sessions is the registry of editing sessions tokens can be issued for.
type Sessions interface {
	Open() (string, error)
	Exists(sessionID string) bool
}

type Handler struct {
	service  *Service
	sessions Sessions
}

func NewHandler(service *Service, sessions Sessions) *Handler {
	return &Handler{service: service, sessions: sessions}
}

type joinRequest struct {
	DisplayName string `json:"displayName"`
}

func decodeJoin(r *http.Request) (joinRequest, error) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	return req, nil
}

// CreateSession opens a new session and admits the caller to it.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJoin(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sessionID, err := h.sessions.Open()
	if err != nil {
		slog.Error("open session failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	grant, err := h.service.IssueToken(sessionID, req.DisplayName)
	if err != nil {
		slog.Error("issue token failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	slog.Info("session created", "session", sessionID, "user", grant.UserID)
	writeJSON(w, http.StatusCreated, grant)
}

// JoinSession admits the caller to an existing session.
func (h *Handler) JoinSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if !h.sessions.Exists(sessionID) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	req, err := decodeJoin(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	grant, err := h.service.IssueToken(sessionID, req.DisplayName)
	if err != nil {
		slog.Error("issue token failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, grant)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
