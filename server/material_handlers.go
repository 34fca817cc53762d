package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"studybuddy/core"
)

type searchRequest struct {
	UserID string `json:"user_id"`
	Query  string `json:"query"`
	TopK   int    `json:"top_k"`
}

type searchResponse struct {
	UserID string             `json:"user_id"`
	Query  string             `json:"query"`
	Hits   []core.MaterialHit `json:"hits"`
}

func (h *Handlers) storeMaterialHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		core.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var material core.Material
	if err := json.NewDecoder(r.Body).Decode(&material); err != nil {
		core.WriteError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := material.Normalize(); err != nil {
		core.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if material.ID == "" {
		material.ID = core.NewID()
	}
	if material.CreatedAt.IsZero() {
		material.CreatedAt = time.Now()
	}

	if err := h.materials.Upsert(r.Context(), material); err != nil {
		log.Printf("Failed to store material %s: %v", material.ID, err)
		core.WriteError(w, http.StatusInternalServerError, "failed to store material")
		return
	}

	log.Printf("Stored material %s (%q) for user %s", material.ID, material.Title, material.UserID)
	core.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":     material.ID,
		"count":  1,
		"status": "stored",
	})
}

func (h *Handlers) searchMaterialsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		core.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.Query = strings.TrimSpace(req.Query)
	if req.UserID == "" || req.Query == "" {
		core.WriteError(w, http.StatusBadRequest, "user_id and query are required")
		return
	}

	hits, err := h.materials.Search(r.Context(), req.UserID, req.Query, req.TopK)
	if err != nil {
		log.Printf("Material search failed for %s: %v", req.UserID, err)
		core.WriteError(w, http.StatusInternalServerError, "material search failed")
		return
	}
	if hits == nil {
		hits = []core.MaterialHit{}
	}

	core.WriteJSON(w, http.StatusOK, searchResponse{UserID: req.UserID, Query: req.Query, Hits: hits})
}
