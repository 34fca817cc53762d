package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"studybuddy/core"
	"studybuddy/processors"
)

// multipart parse budget: file limit plus headroom for the form fields.
const maxUploadBytes = processors.MaxAudioFileSize + 1024*1024

func (h *Handlers) transcribeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		core.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			core.WriteError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf(
				"file too large. Maximum: %dMB", processors.MaxAudioFileSize/(1024*1024)))
			return
		}
		core.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		core.WriteError(w, http.StatusBadRequest, "no audio file provided in field 'file'")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		core.WriteError(w, http.StatusBadRequest, "no filename provided in uploaded file")
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !processors.SupportedAudioFormats[ext] {
		core.WriteError(w, http.StatusBadRequest, fmt.Sprintf(
			"unsupported file format: %s. Supported: %s", ext, processors.FormatList()))
		return
	}
	if header.Size > processors.MaxAudioFileSize {
		core.WriteError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf(
			"file too large: %.1fMB. Maximum: %dMB",
			float64(header.Size)/(1024*1024), processors.MaxAudioFileSize/(1024*1024)))
		return
	}
	if header.Size == 0 {
		core.WriteError(w, http.StatusBadRequest, "empty file uploaded")
		return
	}

	language := r.FormValue("language")
	if language == "" {
		language = r.URL.Query().Get("language")
	}
	contextPrompt := r.FormValue("context_prompt")
	if contextPrompt == "" {
		contextPrompt = r.URL.Query().Get("context_prompt")
	}

	log.Printf("Processing audio file: %s (%d bytes)", header.Filename, header.Size)

	// The Whisper client wants a file on disk.
	tempFile, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		core.WriteError(w, http.StatusInternalServerError, "file processing error")
		return
	}
	tempPath := tempFile.Name()
	defer func() {
		if err := os.Remove(tempPath); err != nil {
			log.Printf("Failed to clean up temp file %s: %v", tempPath, err)
		}
	}()

	if _, err := io.Copy(tempFile, file); err != nil {
		tempFile.Close()
		core.WriteError(w, http.StatusInternalServerError, "file processing error")
		return
	}
	tempFile.Close()

	transcription, err := h.transcriber.Transcribe(r.Context(), tempPath, language, contextPrompt)
	if err != nil {
		if core.IsValidation(err) {
			log.Printf("Transcription validation error: %v", err)
			core.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Transcription processing error: %v", err)
		core.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	duration, _ := processors.ProbeDuration(tempPath)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	log.Printf("Transcription completed: %d characters in %.2fms", len(transcription), elapsed)

	core.WriteJSON(w, http.StatusOK, core.TranscriptionResponse{
		Transcription:    transcription,
		LanguageDetected: language,
		DurationSeconds:  duration,
		EstimatedCostUSD: processors.EstimateCost(duration),
		ProcessingTimeMs: elapsed,
	})
}

func (h *Handlers) formatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		core.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	formats := make([]string, 0, len(processors.SupportedAudioFormats))
	for ext := range processors.SupportedAudioFormats {
		formats = append(formats, ext)
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{
		"supported_formats":   formats,
		"max_file_size_mb":    processors.MaxAudioFileSize / (1024 * 1024),
		"recommended_formats": []string{".mp3", ".wav", ".m4a"},
		"languages_supported": "auto-detect or specify ISO language code",
	})
}
