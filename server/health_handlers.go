package server

import (
	"net/http"
	"runtime"
	"time"

	"studybuddy/config"
	"studybuddy/core"
)

func (h *Handlers) rootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		core.WriteError(w, http.StatusNotFound, "not found")
		return
	}
	core.WriteJSON(w, http.StatusOK, map[string]string{
		"message":      serviceName + " API is running",
		"health_check": "/health",
	})
}

func (h *Handlers) healthHandler(w http.ResponseWriter, r *http.Request) {
	core.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   serviceName,
		"version":   serviceVersion,
	})
}

func (h *Handlers) statusHandler(w http.ResponseWriter, r *http.Request) {
	core.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   serviceName + " API",
		"version":   serviceVersion,
	})
}

func (h *Handlers) detailedHealthHandler(w http.ResponseWriter, r *http.Request) {
	openaiStatus := "not_configured"
	databaseStatus := "not_configured"
	if cfg, err := config.Load(); err == nil {
		if cfg.HasValidAPI() {
			openaiStatus = "configured"
		}
		if cfg.HasDatabase() {
			databaseStatus = "configured"
		}
	}

	status := "healthy"
	if openaiStatus != "configured" {
		status = "degraded"
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"service":   serviceName,
		"version":   serviceVersion,
		"features": map[string]string{
			"summarization":   "available",
			"quiz_generation": "available",
			"transcription":   "available",
			"study_sessions":  "available",
			"material_search": "available",
		},
		"dependencies": map[string]string{
			"openai_api": openaiStatus,
			"database":   databaseStatus,
		},
		"metrics": map[string]any{
			"uptime_seconds": int64(time.Since(h.started).Seconds()),
			"total_requests": h.requestCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
		},
	})
}
