package processors

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"studybuddy/core"
)

const sampleText = "Photosynthesis is the process by which plants convert light into chemical energy. " +
	"It takes place in chloroplasts. The products are glucose and oxygen."

func TestMockSummarizer(t *testing.T) {
	m := MockSummarizer{}

	t.Run("ReadingStyle", func(t *testing.T) {
		summary, err := m.Summarize(context.Background(), sampleText, core.StyleReading, 300)
		if err != nil {
			t.Fatalf("Summarize() failed: %v", err)
		}
		if summary == "" {
			t.Fatal("expected non-empty summary")
		}
		if !strings.Contains(summary, "Photosynthesis") {
			t.Errorf("summary should lead with the source material, got %q", summary)
		}
	})

	t.Run("VisualStyleUsesBullets", func(t *testing.T) {
		summary, err := m.Summarize(context.Background(), sampleText, core.StyleVisual, 300)
		if err != nil {
			t.Fatalf("Summarize() failed: %v", err)
		}
		if !strings.Contains(summary, "- ") {
			t.Errorf("visual summary should contain bullet points, got %q", summary)
		}
	})

	t.Run("AuditoryStyleIsConversational", func(t *testing.T) {
		summary, err := m.Summarize(context.Background(), sampleText, core.StyleAuditory, 300)
		if err != nil {
			t.Fatalf("Summarize() failed: %v", err)
		}
		if !strings.HasPrefix(summary, "Let's talk") {
			t.Errorf("auditory summary should open conversationally, got %q", summary)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		a, _ := m.Summarize(context.Background(), sampleText, core.StyleReading, 300)
		b, _ := m.Summarize(context.Background(), sampleText, core.StyleReading, 300)
		if a != b {
			t.Error("mock summaries should be deterministic")
		}
	})
}

func TestSystemPrompt(t *testing.T) {
	for _, style := range []core.LearningStyle{core.StyleVisual, core.StyleAuditory, core.StyleReading, core.StyleKinesthetic} {
		prompt := systemPrompt(style)
		if !strings.Contains(prompt, "study assistant") {
			t.Errorf("style %s: prompt missing assistant framing", style)
		}
		if !strings.Contains(prompt, stylePrompts[style]) {
			t.Errorf("style %s: prompt missing style instruction", style)
		}
	}

	// Unknown styles fall back to the reading instruction.
	prompt := systemPrompt(core.LearningStyle("unknown"))
	if !strings.Contains(prompt, stylePrompts[core.StyleReading]) {
		t.Error("unknown style should fall back to reading instruction")
	}
}

func TestSplitSentences(t *testing.T) {
	sentences := splitSentences("First point. Second point! Third point?")
	if len(sentences) != 3 {
		t.Fatalf("expected 3 sentences, got %d: %v", len(sentences), sentences)
	}
	if sentences[0] != "First point." {
		t.Errorf("unexpected first sentence: %q", sentences[0])
	}

	// Text without terminators still yields one sentence.
	sentences = splitSentences("no terminator here")
	if len(sentences) != 1 {
		t.Fatalf("expected 1 sentence, got %d", len(sentences))
	}
}

func TestMockSummarizerMultibyteText(t *testing.T) {
	m := MockSummarizer{}
	text := strings.Repeat("光合作用将光能转化为化学能", 40) + "."
	out, err := m.Summarize(context.Background(), text, core.StyleReading, 50)
	if err != nil {
		t.Fatal(err)
	}
	if !utf8.ValidString(out) {
		t.Fatalf("summary is not valid UTF-8: %q", out)
	}
}
