package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"studybuddy/config"
	"studybuddy/processors"
	"studybuddy/server"
	"studybuddy/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.HasValidAPI() {
		log.Printf("OpenAI API configured (model: %s)", cfg.ChatModel)
	} else {
		log.Printf("Warning: no API key configured, AI providers run in mock mode")
	}

	summarizer := processors.NewSummarizer()
	quiz := processors.NewQuizGenerator()
	transcriber := processors.NewTranscriber()
	sessions := storage.NewSessionStore()
	materials := storage.NewMaterialStore()

	handlers := server.NewHandlers(summarizer, quiz, transcriber, sessions, materials)
	mux := http.NewServeMux()
	handlers.Register(mux)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: handlers.Middleware(mux, cfg.AllowedOrigins),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Printf("StudyBuddy AI listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http listen and serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown server: %v", err)
	}
}
