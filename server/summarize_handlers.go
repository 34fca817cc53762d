package server

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"time"

	"studybuddy/core"
	"studybuddy/processors"
)

func (h *Handlers) summarizeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		core.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start := time.Now()

	var req core.SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := req.Normalize(); err != nil {
		log.Printf("Invalid summarization request: %v", err)
		core.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Printf("Summarization request: %d chars, style: %s", len(req.Text), req.LearningStyle)

	summary, err := h.summarizer.Summarize(r.Context(), req.Text, req.LearningStyle, req.MaxTokens)
	if err != nil {
		// Keep the endpoint available when the model is down: log and
		// hand the student the fixed fallback message instead.
		log.Printf("Summarization failed: %v", err)
		summary = processors.FallbackSummary
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000

	core.WriteJSON(w, http.StatusOK, core.SummarizeResponse{
		Summary:           summary,
		LearningStyleUsed: req.LearningStyle,
		OriginalLength:    len(req.Text),
		SummaryLength:     len(summary),
		ProcessingTimeMs:  elapsed,
	})
}

func (h *Handlers) quizHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		core.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start := time.Now()

	var req core.QuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := req.Normalize(); err != nil {
		log.Printf("Invalid quiz generation request: %v", err)
		core.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Printf("Quiz generation request: %d chars, %d questions, difficulty: %s, style: %s",
		len(req.Text), req.NumQuestions, req.Difficulty, req.LearningStyle)

	questions, err := h.quiz.Generate(r.Context(), req.Text, req.NumQuestions, req.Difficulty, req.LearningStyle)
	if err != nil {
		log.Printf("Quiz generation failed: %v", err)
		core.WriteError(w, http.StatusInternalServerError, "Unable to generate quiz questions. Please try again.")
		return
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000

	core.WriteJSON(w, http.StatusOK, core.QuizResponse{
		Questions:                      questions,
		TotalQuestions:                 len(questions),
		DifficultyUsed:                 req.Difficulty,
		LearningStyleUsed:              req.LearningStyle,
		EstimatedCompletionTimeMinutes: int(math.Ceil(float64(len(questions)) * 1.5)),
		ProcessingTimeMs:               elapsed,
	})
}
