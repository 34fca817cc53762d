package server

import (
	"net/http"
	"sync/atomic"
	"time"

	"studybuddy/processors"
	"studybuddy/storage"
)

const serviceName = "StudyBuddy AI"
const serviceVersion = "1.0.0"

// Handlers wires the AI providers and stores into the HTTP surface.
type Handlers struct {
	summarizer  processors.Summarizer
	quiz        processors.QuizGenerator
	transcriber processors.Transcriber
	sessions    storage.SessionStore
	materials   storage.MaterialStore

	started      time.Time
	requestCount atomic.Int64
}

func NewHandlers(
	summarizer processors.Summarizer,
	quiz processors.QuizGenerator,
	transcriber processors.Transcriber,
	sessions storage.SessionStore,
	materials storage.MaterialStore,
) *Handlers {
	return &Handlers{
		summarizer:  summarizer,
		quiz:        quiz,
		transcriber: transcriber,
		sessions:    sessions,
		materials:   materials,
		started:     time.Now(),
	}
}

// Register installs all routes on the mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", h.rootHandler)
	mux.HandleFunc("/health", h.healthHandler)
	mux.HandleFunc("/health/detailed", h.detailedHealthHandler)
	mux.HandleFunc("/api/status", h.statusHandler)

	mux.HandleFunc("/api/summarize", h.summarizeHandler)
	mux.HandleFunc("/api/quiz/generate", h.quizHandler)
	mux.HandleFunc("/api/transcribe", h.transcribeHandler)
	mux.HandleFunc("/api/transcribe/formats", h.formatsHandler)

	mux.HandleFunc("/api/sessions", h.createSessionHandler)
	mux.HandleFunc("/api/progress", h.progressHandler)

	mux.HandleFunc("/api/materials", h.storeMaterialHandler)
	mux.HandleFunc("/api/materials/search", h.searchMaterialsHandler)
}
