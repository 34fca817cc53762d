package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"studybuddy/core"
	"studybuddy/storage"
)

func (h *Handlers) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		core.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var session core.StudySession
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		core.WriteError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := session.Normalize(); err != nil {
		core.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.sessions.CreateSession(r.Context(), &session); err != nil {
		log.Printf("Failed to store study session: %v", err)
		core.WriteError(w, http.StatusInternalServerError, "failed to store study session")
		return
	}

	log.Printf("Stored study session %d for user %s (%d min)", session.ID, session.UserID, session.DurationMinutes)
	core.WriteJSON(w, http.StatusCreated, session)
}

func (h *Handlers) progressHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		core.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		core.WriteError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	sessions, err := h.sessions.ListSessions(r.Context(), userID)
	if err != nil {
		log.Printf("Failed to load sessions for %s: %v", userID, err)
		core.WriteError(w, http.StatusInternalServerError, "failed to load study sessions")
		return
	}

	core.WriteJSON(w, http.StatusOK, storage.ComputeProgress(userID, sessions))
}
