package core

import (
	"strings"
	"testing"
)

func TestSummarizeRequestNormalize(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		req := SummarizeRequest{Text: "The French Revolution was a period of radical change."}
		if err := req.Normalize(); err != nil {
			t.Fatalf("Normalize() failed: %v", err)
		}
		if req.LearningStyle != StyleReading {
			t.Errorf("expected default style reading, got %s", req.LearningStyle)
		}
		if req.MaxTokens != 300 {
			t.Errorf("expected default max_tokens 300, got %d", req.MaxTokens)
		}
	})

	t.Run("RejectsEmptyText", func(t *testing.T) {
		req := SummarizeRequest{Text: "   \n  "}
		if err := req.Normalize(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("RejectsLongText", func(t *testing.T) {
		req := SummarizeRequest{Text: strings.Repeat("a", MaxSummarizeChars+1)}
		if err := req.Normalize(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("RejectsUnknownStyle", func(t *testing.T) {
		req := SummarizeRequest{Text: "Photosynthesis converts light into chemical energy.", LearningStyle: "telepathic"}
		if err := req.Normalize(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("RejectsMaxTokensOutOfRange", func(t *testing.T) {
		for _, tokens := range []int{49, 1001, -5} {
			req := SummarizeRequest{Text: "Photosynthesis converts light into chemical energy.", MaxTokens: tokens}
			if err := req.Normalize(); !IsValidation(err) {
				t.Errorf("max_tokens=%d: expected validation error, got %v", tokens, err)
			}
		}
	})
}

func TestQuizRequestNormalize(t *testing.T) {
	validText := strings.Repeat("The water cycle involves evaporation and condensation. ", 3)

	t.Run("Defaults", func(t *testing.T) {
		req := QuizRequest{Text: validText}
		if err := req.Normalize(); err != nil {
			t.Fatalf("Normalize() failed: %v", err)
		}
		if req.NumQuestions != 3 {
			t.Errorf("expected default 3 questions, got %d", req.NumQuestions)
		}
		if req.Difficulty != DifficultyHighSchool {
			t.Errorf("expected default difficulty high_school, got %s", req.Difficulty)
		}
	})

	t.Run("RejectsShortText", func(t *testing.T) {
		req := QuizRequest{Text: "Too short."}
		if err := req.Normalize(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("RejectsTooManyQuestions", func(t *testing.T) {
		req := QuizRequest{Text: validText, NumQuestions: 11}
		if err := req.Normalize(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("RejectsUnknownDifficulty", func(t *testing.T) {
		req := QuizRequest{Text: validText, Difficulty: "kindergarten"}
		if err := req.Normalize(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestStudySessionNormalize(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		score := 85.0
		sess := StudySession{UserID: "u1", ContentType: "textbook", DurationMinutes: 30, ComprehensionScore: &score}
		if err := sess.Normalize(); err != nil {
			t.Fatalf("Normalize() failed: %v", err)
		}
		if sess.LearningStyle != StyleReading {
			t.Errorf("expected default style reading, got %s", sess.LearningStyle)
		}
	})

	t.Run("RejectsMissingUser", func(t *testing.T) {
		sess := StudySession{ContentType: "notes", DurationMinutes: 10}
		if err := sess.Normalize(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("RejectsScoreOutOfRange", func(t *testing.T) {
		score := 120.0
		sess := StudySession{UserID: "u1", ContentType: "notes", DurationMinutes: 10, ComprehensionScore: &score}
		if err := sess.Normalize(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("RejectsZeroDuration", func(t *testing.T) {
		sess := StudySession{UserID: "u1", ContentType: "notes", DurationMinutes: 0}
		if err := sess.Normalize(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}
