package core

import (
	"fmt"
	"strings"
	"time"
)

// LearningStyle controls how generated content is presented to the student.
type LearningStyle string

const (
	StyleVisual      LearningStyle = "visual"
	StyleAuditory    LearningStyle = "auditory"
	StyleReading     LearningStyle = "reading"
	StyleKinesthetic LearningStyle = "kinesthetic"
)

func (s LearningStyle) Valid() bool {
	switch s {
	case StyleVisual, StyleAuditory, StyleReading, StyleKinesthetic:
		return true
	}
	return false
}

// Difficulty is the academic level used for quiz generation.
type Difficulty string

const (
	DifficultyMiddleSchool Difficulty = "middle_school"
	DifficultyHighSchool   Difficulty = "high_school"
	DifficultyCollege      Difficulty = "college"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyMiddleSchool, DifficultyHighSchool, DifficultyCollege:
		return true
	}
	return false
}

// QuestionType describes the quiz question format.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionShortAnswer    QuestionType = "short_answer"
	QuestionTrueFalse      QuestionType = "true_false"
)

const (
	// MaxSummarizeChars bounds summarization input.
	MaxSummarizeChars = 10000
	// MaxQuizChars bounds quiz generation input.
	MaxQuizChars = 8000
	// MinQuizChars is the shortest text worth generating questions from.
	MinQuizChars = 50
	// MinSummarizeChars is the shortest text worth summarizing.
	MinSummarizeChars = 10
)

type SummarizeRequest struct {
	Text          string        `json:"text"`
	LearningStyle LearningStyle `json:"learning_style"`
	MaxTokens     int           `json:"max_tokens"`
}

// Normalize trims the text and fills defaults, then validates bounds.
func (r *SummarizeRequest) Normalize() error {
	r.Text = strings.TrimSpace(r.Text)
	if r.Text == "" {
		return &ValidationError{Msg: "text cannot be empty or only whitespace"}
	}
	if len(r.Text) < MinSummarizeChars {
		return &ValidationError{Msg: fmt.Sprintf("text too short (min %d characters)", MinSummarizeChars)}
	}
	if len(r.Text) > MaxSummarizeChars {
		return &ValidationError{Msg: fmt.Sprintf("text too long (max %d characters)", MaxSummarizeChars)}
	}
	if r.LearningStyle == "" {
		r.LearningStyle = StyleReading
	}
	if !r.LearningStyle.Valid() {
		return &ValidationError{Msg: fmt.Sprintf("unknown learning style: %s", r.LearningStyle)}
	}
	if r.MaxTokens == 0 {
		r.MaxTokens = 300
	}
	if r.MaxTokens < 50 || r.MaxTokens > 1000 {
		return &ValidationError{Msg: "max_tokens must be between 50 and 1000"}
	}
	return nil
}

type SummarizeResponse struct {
	Summary           string        `json:"summary"`
	LearningStyleUsed LearningStyle `json:"learning_style_used"`
	OriginalLength    int           `json:"original_length"`
	SummaryLength     int           `json:"summary_length"`
	ProcessingTimeMs  float64       `json:"processing_time_ms"`
}

type QuizRequest struct {
	Text          string        `json:"text"`
	NumQuestions  int           `json:"num_questions"`
	Difficulty    Difficulty    `json:"difficulty"`
	LearningStyle LearningStyle `json:"learning_style"`
}

func (r *QuizRequest) Normalize() error {
	r.Text = strings.TrimSpace(r.Text)
	if r.Text == "" {
		return &ValidationError{Msg: "text cannot be empty or only whitespace"}
	}
	if len(r.Text) < MinQuizChars {
		return &ValidationError{Msg: fmt.Sprintf("text too short for quiz generation (min %d characters)", MinQuizChars)}
	}
	if len(r.Text) > MaxQuizChars {
		return &ValidationError{Msg: fmt.Sprintf("text too long for quiz generation (max %d characters)", MaxQuizChars)}
	}
	if r.NumQuestions == 0 {
		r.NumQuestions = 3
	}
	if r.NumQuestions < 1 || r.NumQuestions > 10 {
		return &ValidationError{Msg: "number of questions must be between 1 and 10"}
	}
	if r.Difficulty == "" {
		r.Difficulty = DifficultyHighSchool
	}
	if !r.Difficulty.Valid() {
		return &ValidationError{Msg: fmt.Sprintf("unknown difficulty: %s", r.Difficulty)}
	}
	if r.LearningStyle == "" {
		r.LearningStyle = StyleReading
	}
	if !r.LearningStyle.Valid() {
		return &ValidationError{Msg: fmt.Sprintf("unknown learning style: %s", r.LearningStyle)}
	}
	return nil
}

type QuizQuestion struct {
	Question      string       `json:"question"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation"`
	Difficulty    string       `json:"difficulty"`
	QuestionType  QuestionType `json:"question_type"`
}

type QuizResponse struct {
	Questions                      []QuizQuestion `json:"questions"`
	TotalQuestions                 int            `json:"total_questions"`
	DifficultyUsed                 Difficulty     `json:"difficulty_used"`
	LearningStyleUsed              LearningStyle  `json:"learning_style_used"`
	EstimatedCompletionTimeMinutes int            `json:"estimated_completion_time_minutes"`
	ProcessingTimeMs               float64        `json:"processing_time_ms"`
}

type TranscriptionResponse struct {
	Transcription    string  `json:"transcription"`
	LanguageDetected string  `json:"language_detected,omitempty"`
	DurationSeconds  float64 `json:"duration_seconds,omitempty"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd,omitempty"`
	ProcessingTimeMs float64 `json:"processing_time_ms"`
}

type StudySession struct {
	ID                 int64         `json:"id,omitempty"`
	UserID             string        `json:"user_id"`
	ContentType        string        `json:"content_type"`
	LearningStyle      LearningStyle `json:"learning_style"`
	DurationMinutes    int           `json:"duration_minutes"`
	ComprehensionScore *float64      `json:"comprehension_score,omitempty"`
	CreatedAt          time.Time     `json:"created_at,omitempty"`
}

func (s *StudySession) Normalize() error {
	s.UserID = strings.TrimSpace(s.UserID)
	if s.UserID == "" {
		return &ValidationError{Msg: "user_id is required"}
	}
	s.ContentType = strings.TrimSpace(s.ContentType)
	if s.ContentType == "" {
		return &ValidationError{Msg: "content_type is required"}
	}
	if s.LearningStyle == "" {
		s.LearningStyle = StyleReading
	}
	if !s.LearningStyle.Valid() {
		return &ValidationError{Msg: fmt.Sprintf("unknown learning style: %s", s.LearningStyle)}
	}
	if s.DurationMinutes < 1 {
		return &ValidationError{Msg: "duration_minutes must be at least 1"}
	}
	if s.ComprehensionScore != nil && (*s.ComprehensionScore < 0 || *s.ComprehensionScore > 100) {
		return &ValidationError{Msg: "comprehension_score must be between 0 and 100"}
	}
	return nil
}

type ProgressReport struct {
	UserID                    string        `json:"user_id"`
	TotalStudyTimeMinutes     int           `json:"total_study_time_minutes"`
	AverageComprehensionScore float64       `json:"average_comprehension_score"`
	PreferredLearningStyle    LearningStyle `json:"preferred_learning_style"`
	ImprovementTrend          string        `json:"improvement_trend"`
	Recommendations           []string      `json:"recommendations"`
}

type Material struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	Title         string        `json:"title"`
	Text          string        `json:"text"`
	Summary       string        `json:"summary"`
	LearningStyle LearningStyle `json:"learning_style,omitempty"`
	CreatedAt     time.Time     `json:"created_at,omitempty"`
}

func (m *Material) Normalize() error {
	m.UserID = strings.TrimSpace(m.UserID)
	if m.UserID == "" {
		return &ValidationError{Msg: "user_id is required"}
	}
	m.Title = strings.TrimSpace(m.Title)
	if m.Title == "" {
		return &ValidationError{Msg: "title is required"}
	}
	m.Text = strings.TrimSpace(m.Text)
	if m.Text == "" {
		return &ValidationError{Msg: "text is required"}
	}
	if m.LearningStyle != "" && !m.LearningStyle.Valid() {
		return &ValidationError{Msg: fmt.Sprintf("unknown learning style: %s", m.LearningStyle)}
	}
	return nil
}

// MaterialHit is a single semantic search result.
type MaterialHit struct {
	Score   float64 `json:"score"`
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Summary string  `json:"summary"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
