package processors

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"studybuddy/config"
	"studybuddy/core"
)

// SupportedAudioFormats lists the extensions the Whisper API accepts.
var SupportedAudioFormats = map[string]bool{
	".mp3":  true,
	".mp4":  true,
	".mpeg": true,
	".mpga": true,
	".m4a":  true,
	".wav":  true,
	".webm": true,
}

// MaxAudioFileSize is the Whisper API upload limit.
const MaxAudioFileSize = 25 * 1024 * 1024

// NoSpeechMessage is returned for audio that produced no transcription.
const NoSpeechMessage = "No speech detected in the audio file."

const defaultContextPrompt = "This is educational content about academic subjects. " +
	"Please transcribe with attention to technical and academic vocabulary."

type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language, prompt string) (string, error)
}

type WhisperTranscriber struct {
	cli   *openai.Client
	model string
}

type MockTranscriber struct{}

func NewTranscriber() Transcriber {
	if strings.EqualFold(strings.TrimSpace(os.Getenv("TRANSCRIBER")), "mock") {
		return MockTranscriber{}
	}
	cfg, err := config.Load()
	if err != nil || !cfg.HasValidAPI() {
		log.Printf("Warning: API configuration not found for transcriber, using mock transcriber")
		return MockTranscriber{}
	}
	return &WhisperTranscriber{cli: openaiClient(), model: cfg.TranscribeModel}
}

// ValidateAudioFile checks extension, size and non-emptiness before any
// upload happens. Failures are client errors.
func ValidateAudioFile(audioPath string) error {
	info, err := os.Stat(audioPath)
	if err != nil {
		return fmt.Errorf("audio file not found: %s", audioPath)
	}

	ext := strings.ToLower(filepath.Ext(audioPath))
	if !SupportedAudioFormats[ext] {
		return &core.ValidationError{Msg: fmt.Sprintf(
			"unsupported audio format: %s. Supported formats: %s", ext, FormatList())}
	}

	if info.Size() > MaxAudioFileSize {
		return &core.ValidationError{Msg: fmt.Sprintf(
			"audio file too large: %.1fMB. Maximum size: %dMB",
			float64(info.Size())/(1024*1024), MaxAudioFileSize/(1024*1024))}
	}
	if info.Size() == 0 {
		return &core.ValidationError{Msg: "audio file is empty"}
	}
	return nil
}

// FormatList returns the supported extensions sorted for messages.
func FormatList() string {
	exts := make([]string, 0, len(SupportedAudioFormats))
	for ext := range SupportedAudioFormats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}

func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioPath, language, prompt string) (string, error) {
	if err := ValidateAudioFile(audioPath); err != nil {
		return "", err
	}

	if prompt == "" {
		prompt = defaultContextPrompt
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	req := openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
		Prompt:   prompt,
		Format:   openai.AudioResponseFormatText,
	}
	if language != "" {
		req.Language = language
	}

	resp, err := t.cli.CreateTranscription(ctx, req)
	if err != nil {
		log.Printf("Transcription failed for %s: %v", filepath.Base(audioPath), err)
		return "", mapTranscriptionError(err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		log.Printf("Whisper returned empty transcription for %s", filepath.Base(audioPath))
		return NoSpeechMessage, nil
	}
	log.Printf("Transcribed %d characters from %s", len(text), filepath.Base(audioPath))
	return text, nil
}

// mapTranscriptionError turns common API failures into messages a
// student can act on.
func mapTranscriptionError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit"):
		return fmt.Errorf("transcription service is busy. Please try again in a moment")
	case strings.Contains(msg, "quota"):
		return fmt.Errorf("transcription quota exceeded. Please contact support")
	case strings.Contains(msg, "invalid"):
		return fmt.Errorf("audio file format not supported or corrupted")
	default:
		return fmt.Errorf("transcription failed: %w", err)
	}
}

func (m MockTranscriber) Transcribe(_ context.Context, audioPath, language, prompt string) (string, error) {
	if err := ValidateAudioFile(audioPath); err != nil {
		return "", err
	}
	dur, _ := ProbeDuration(audioPath)
	if dur > 0 {
		return fmt.Sprintf("Placeholder transcript covering %.0f seconds of audio.", dur), nil
	}
	return "Placeholder transcript of the uploaded audio.", nil
}

// ProbeDuration asks ffprobe for the audio duration in seconds. Best
// effort: callers treat 0 as unknown.
func ProbeDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return 0, err
	}
	s := strings.TrimSpace(out.String())
	return strconv.ParseFloat(s, 64)
}

// EstimateCost estimates the Whisper charge for a clip at $0.006 per
// minute, rounded to four decimals. Returns 0 when the duration is
// unknown.
func EstimateCost(durationSeconds float64) float64 {
	if durationSeconds <= 0 {
		return 0
	}
	minutes := durationSeconds / 60
	return float64(int(minutes*0.006*10000+0.5)) / 10000
}
