package processors

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"studybuddy/config"
	"studybuddy/core"
)

// FallbackSummary is returned when the model cannot be reached so the
// student still gets a friendly answer instead of a raw error.
const FallbackSummary = "I'm having trouble generating a summary right now. Please try again in a moment, or contact support if the issue persists."

// stylePrompts adapts the summary presentation to the student's
// learning preference.
var stylePrompts = map[core.LearningStyle]string{
	core.StyleVisual:      "Create a summary with bullet points, clear structure, and suggest visual elements that would help understanding.",
	core.StyleAuditory:    "Create a summary that flows well when read aloud, using conversational tone and natural speech patterns.",
	core.StyleReading:     "Create a well-structured summary with clear sections and logical flow for text-based learning.",
	core.StyleKinesthetic: "Create a summary with practical examples, real-world applications, and hands-on learning suggestions.",
}

type Summarizer interface {
	Summarize(ctx context.Context, text string, style core.LearningStyle, maxTokens int) (string, error)
}

type OpenAISummarizer struct {
	cli   *openai.Client
	model string
}

type MockSummarizer struct{}

// NewSummarizer picks a provider the same way ASR backends are picked:
// SUMMARIZER=mock forces the mock, and missing API config falls back to
// it with a warning.
func NewSummarizer() Summarizer {
	if strings.EqualFold(strings.TrimSpace(os.Getenv("SUMMARIZER")), "mock") {
		return MockSummarizer{}
	}
	cfg, err := config.Load()
	if err != nil || !cfg.HasValidAPI() {
		log.Printf("Warning: API configuration not found for summarizer, using mock summarizer")
		return MockSummarizer{}
	}
	return &OpenAISummarizer{cli: openaiClient(), model: cfg.ChatModel}
}

func systemPrompt(style core.LearningStyle) string {
	instruction, ok := stylePrompts[style]
	if !ok {
		instruction = stylePrompts[core.StyleReading]
	}
	return fmt.Sprintf(`You are a helpful study assistant for students with learning difficulties.
%s
Keep summaries concise but comprehensive. Be encouraging and patient.`, instruction)
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, text string, style core.LearningStyle, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	resp, err := s.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(style)},
			{Role: openai.ChatMessageRoleUser, Content: "Summarize this text for studying:\n\n" + text},
		},
		Temperature: 0.7,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty summary response")
	}
	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("empty summary response")
	}
	return summary, nil
}

// Summarize produces a deterministic summary from the first sentences so
// the service works without an API key.
func (m MockSummarizer) Summarize(_ context.Context, text string, style core.LearningStyle, maxTokens int) (string, error) {
	sentences := splitSentences(text)
	n := 3
	if len(sentences) < n {
		n = len(sentences)
	}
	lead := strings.Join(sentences[:n], " ")

	// Keep roughly within the token budget (about 4 chars per token).
	if limit := maxTokens * 4; len(lead) > limit {
		lead = truncate(lead, limit)
	}

	switch style {
	case core.StyleVisual:
		var b strings.Builder
		b.WriteString("Key points:\n")
		for _, s := range sentences[:n] {
			b.WriteString("- " + s + "\n")
		}
		return strings.TrimSpace(b.String()), nil
	case core.StyleAuditory:
		return "Let's talk through the main ideas. " + lead, nil
	case core.StyleKinesthetic:
		return lead + " Try applying these ideas to a real-world example.", nil
	default:
		return lead, nil
	}
}

func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p+".")
		}
	}
	if len(out) == 0 {
		out = []string{strings.TrimSpace(text)}
	}
	return out
}
