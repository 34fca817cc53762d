package processors

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"studybuddy/core"
)

func writeTempAudio(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write temp audio: %v", err)
	}
	return path
}

func TestValidateAudioFile(t *testing.T) {
	t.Run("AcceptsSupportedFormat", func(t *testing.T) {
		path := writeTempAudio(t, "lecture.mp3", []byte("fake audio data"))
		if err := ValidateAudioFile(path); err != nil {
			t.Fatalf("ValidateAudioFile() failed: %v", err)
		}
	})

	t.Run("RejectsUnsupportedFormat", func(t *testing.T) {
		path := writeTempAudio(t, "notes.txt", []byte("not audio"))
		err := ValidateAudioFile(path)
		if !core.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if !strings.Contains(err.Error(), "unsupported audio format") {
			t.Errorf("unexpected message: %v", err)
		}
	})

	t.Run("RejectsEmptyFile", func(t *testing.T) {
		path := writeTempAudio(t, "silence.wav", nil)
		if err := ValidateAudioFile(path); !core.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("RejectsMissingFile", func(t *testing.T) {
		err := ValidateAudioFile(filepath.Join(t.TempDir(), "missing.mp3"))
		if err == nil {
			t.Fatal("expected error for missing file")
		}
		if core.IsValidation(err) {
			t.Error("missing file is a server-side error, not a validation error")
		}
	})
}

func TestMapTranscriptionError(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"429 rate limit exceeded", "busy"},
		{"you have exceeded your quota", "quota exceeded"},
		{"invalid file content", "not supported or corrupted"},
		{"connection refused", "transcription failed"},
	}
	for _, tc := range cases {
		got := mapTranscriptionError(errors.New(tc.in))
		if !strings.Contains(got.Error(), tc.want) {
			t.Errorf("mapTranscriptionError(%q) = %q, expected to contain %q", tc.in, got, tc.want)
		}
	}
}

func TestMockTranscriber(t *testing.T) {
	m := MockTranscriber{}

	t.Run("TranscribesValidFile", func(t *testing.T) {
		path := writeTempAudio(t, "lecture.mp3", []byte("fake audio data"))
		text, err := m.Transcribe(context.Background(), path, "en", "")
		if err != nil {
			t.Fatalf("Transcribe() failed: %v", err)
		}
		if !strings.Contains(text, "Placeholder transcript") {
			t.Errorf("unexpected mock transcript: %q", text)
		}
	})

	t.Run("PropagatesValidationErrors", func(t *testing.T) {
		path := writeTempAudio(t, "notes.txt", []byte("not audio"))
		if _, err := m.Transcribe(context.Background(), path, "", ""); !core.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestFormatList(t *testing.T) {
	list := FormatList()
	for ext := range SupportedAudioFormats {
		if !strings.Contains(list, ext) {
			t.Errorf("format list missing %s", ext)
		}
	}
	// Sorted output keeps error messages stable.
	if !strings.HasPrefix(list, ".m4a") {
		t.Errorf("expected sorted list starting with .m4a, got %q", list)
	}
}

func TestEstimateCost(t *testing.T) {
	cases := []struct {
		name    string
		seconds float64
		want    float64
	}{
		{"UnknownDuration", 0, 0},
		{"NegativeDuration", -5, 0},
		{"OneMinute", 60, 0.006},
		{"TwoAndAHalfMinutes", 150, 0.015},
		{"OneHour", 3600, 0.36},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EstimateCost(tc.seconds); got != tc.want {
				t.Errorf("EstimateCost(%v) = %v, want %v", tc.seconds, got, tc.want)
			}
		})
	}
}
