package processors

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"

	"studybuddy/config"
	"studybuddy/core"
)

var difficultyPrompts = map[core.Difficulty]string{
	core.DifficultyMiddleSchool: "Create basic comprehension questions that test understanding of main ideas and key facts.",
	core.DifficultyHighSchool:   "Create questions that test analysis, inference, and deeper understanding beyond memorization.",
	core.DifficultyCollege:      "Create advanced questions requiring critical thinking, synthesis, and evaluation of complex concepts.",
}

var styleAdaptations = map[core.LearningStyle]string{
	core.StyleVisual:      "Include references to diagrams, charts, or visual representations when relevant. Use clear, structured question formats.",
	core.StyleAuditory:    "Write questions in a conversational style that sound natural when read aloud. Use rhythm and flow.",
	core.StyleReading:     "Use traditional academic question formats with precise language and clear structure.",
	core.StyleKinesthetic: "Focus on application scenarios, real-world examples, and hands-on problem-solving situations.",
}

type QuizGenerator interface {
	Generate(ctx context.Context, text string, numQuestions int, difficulty core.Difficulty, style core.LearningStyle) ([]core.QuizQuestion, error)
}

type OpenAIQuizGenerator struct {
	cli   *openai.Client
	model string
}

type MockQuizGenerator struct{}

func NewQuizGenerator() QuizGenerator {
	if strings.EqualFold(strings.TrimSpace(os.Getenv("QUIZ_GENERATOR")), "mock") {
		return MockQuizGenerator{}
	}
	cfg, err := config.Load()
	if err != nil || !cfg.HasValidAPI() {
		log.Printf("Warning: API configuration not found for quiz generator, using mock quiz generator")
		return MockQuizGenerator{}
	}
	return &OpenAIQuizGenerator{cli: openaiClient(), model: cfg.ChatModel}
}

func quizSystemPrompt(numQuestions int, difficulty core.Difficulty, style core.LearningStyle) string {
	diffInstruction, ok := difficultyPrompts[difficulty]
	if !ok {
		diffInstruction = difficultyPrompts[core.DifficultyHighSchool]
	}
	styleInstruction, ok := styleAdaptations[style]
	if !ok {
		styleInstruction = styleAdaptations[core.StyleReading]
	}

	return fmt.Sprintf(`You are an expert educational assessment creator for StudyBuddy AI.

Create %d multiple-choice questions from the given text.

Difficulty level: %s
%s

Learning style adaptation: %s
%s

Requirements:
- Each question must have exactly 4 options (A, B, C, D)
- Only one correct answer per question
- Include explanation for why the correct answer is right
- Questions should test understanding, not just memorization
- Use inclusive, encouraging language

Return ONLY valid JSON in this exact format:
[
    {
        "question": "Question text here?",
        "options": ["Option A", "Option B", "Option C", "Option D"],
        "correct_answer": "A",
        "explanation": "Explanation of why A is correct",
        "difficulty": "easy|medium|hard"
    }
]`, numQuestions, difficulty, diffInstruction, style, styleInstruction)
}

func (g *OpenAIQuizGenerator) Generate(ctx context.Context, text string, numQuestions int, difficulty core.Difficulty, style core.LearningStyle) ([]core.QuizQuestion, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	resp, err := g.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: quizSystemPrompt(numQuestions, difficulty, style)},
			{Role: openai.ChatMessageRoleUser, Content: "Generate quiz questions from this content:\n\n" + text},
		},
		Temperature: 0.3,
		MaxTokens:   1500,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty quiz response")
	}
	raw := resp.Choices[0].Message.Content
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty quiz response")
	}

	questions, err := parseQuizJSON(raw)
	if err != nil {
		log.Printf("Failed to parse quiz JSON: %v", err)
		return nil, fmt.Errorf("failed to generate properly formatted quiz questions")
	}
	log.Printf("Generated %d quiz questions", len(questions))
	return questions, nil
}

// parseQuizJSON strips markdown code fences the model sometimes adds,
// unmarshals the question array and validates each entry.
func parseQuizJSON(raw string) ([]core.QuizQuestion, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var questions []core.QuizQuestion
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		return nil, fmt.Errorf("unmarshal quiz: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions in response")
	}

	for i := range questions {
		q := &questions[i]
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("question %d has no text", i+1)
		}
		if len(q.Options) != 4 {
			return nil, fmt.Errorf("question %d must have exactly 4 options", i+1)
		}
		switch q.CorrectAnswer {
		case "A", "B", "C", "D":
		default:
			return nil, fmt.Errorf("question %d correct_answer must be A, B, C, or D", i+1)
		}
		if strings.TrimSpace(q.Explanation) == "" {
			return nil, fmt.Errorf("question %d has no explanation", i+1)
		}
		if q.QuestionType == "" {
			q.QuestionType = core.QuestionMultipleChoice
		}
	}
	return questions, nil
}

// Generate builds deterministic comprehension questions from the text.
func (m MockQuizGenerator) Generate(_ context.Context, text string, numQuestions int, difficulty core.Difficulty, style core.LearningStyle) ([]core.QuizQuestion, error) {
	sentences := splitSentences(text)
	questions := make([]core.QuizQuestion, 0, numQuestions)
	for i := 0; i < numQuestions; i++ {
		src := sentences[i%len(sentences)]
		questions = append(questions, core.QuizQuestion{
			Question:      fmt.Sprintf("Which statement reflects the material: %q?", truncate(src, 120)),
			Options:       []string{truncate(src, 80), "An unrelated claim", "The opposite of the material", "None of the above"},
			CorrectAnswer: "A",
			Explanation:   "The first option restates the source material directly.",
			Difficulty:    "easy",
			QuestionType:  core.QuestionMultipleChoice,
		})
	}
	return questions, nil
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return strings.TrimSpace(s[:n]) + "..."
}
