package storage

import (
	"context"
	"testing"

	"studybuddy/core"
)

func score(v float64) *float64 { return &v }

func TestMemorySessionStore(t *testing.T) {
	s := NewMemorySessionStore()
	ctx := context.Background()

	sess := core.StudySession{UserID: "alice", ContentType: "textbook", LearningStyle: core.StyleVisual, DurationMinutes: 30}
	if err := s.CreateSession(ctx, &sess); err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	if sess.ID == 0 {
		t.Error("expected assigned session ID")
	}
	if sess.CreatedAt.IsZero() {
		t.Error("expected assigned creation time")
	}

	sessions, err := s.ListSessions(ctx, "alice")
	if err != nil {
		t.Fatalf("ListSessions() failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}

	sessions, err = s.ListSessions(ctx, "bob")
	if err != nil {
		t.Fatalf("ListSessions() failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected no sessions for bob, got %d", len(sessions))
	}
}

func TestComputeProgress(t *testing.T) {
	t.Run("NoSessions", func(t *testing.T) {
		report := ComputeProgress("alice", nil)
		if report.TotalStudyTimeMinutes != 0 {
			t.Errorf("expected 0 minutes, got %d", report.TotalStudyTimeMinutes)
		}
		if report.ImprovementTrend != "stable" {
			t.Errorf("expected stable trend, got %s", report.ImprovementTrend)
		}
		if len(report.Recommendations) == 0 {
			t.Error("expected an onboarding recommendation")
		}
	})

	t.Run("TotalsAndAverage", func(t *testing.T) {
		sessions := []core.StudySession{
			{UserID: "alice", LearningStyle: core.StyleReading, DurationMinutes: 30, ComprehensionScore: score(80)},
			{UserID: "alice", LearningStyle: core.StyleReading, DurationMinutes: 45, ComprehensionScore: score(90)},
			{UserID: "alice", LearningStyle: core.StyleReading, DurationMinutes: 15},
		}
		report := ComputeProgress("alice", sessions)
		if report.TotalStudyTimeMinutes != 90 {
			t.Errorf("expected 90 minutes, got %d", report.TotalStudyTimeMinutes)
		}
		if report.AverageComprehensionScore != 85 {
			t.Errorf("expected average 85, got %f", report.AverageComprehensionScore)
		}
	})

	t.Run("ImprovingTrend", func(t *testing.T) {
		sessions := []core.StudySession{
			{LearningStyle: core.StyleReading, DurationMinutes: 10, ComprehensionScore: score(50)},
			{LearningStyle: core.StyleReading, DurationMinutes: 10, ComprehensionScore: score(55)},
			{LearningStyle: core.StyleReading, DurationMinutes: 10, ComprehensionScore: score(80)},
			{LearningStyle: core.StyleReading, DurationMinutes: 10, ComprehensionScore: score(85)},
		}
		report := ComputeProgress("alice", sessions)
		if report.ImprovementTrend != "improving" {
			t.Errorf("expected improving, got %s", report.ImprovementTrend)
		}
	})

	t.Run("DecliningTrend", func(t *testing.T) {
		sessions := []core.StudySession{
			{LearningStyle: core.StyleReading, DurationMinutes: 10, ComprehensionScore: score(90)},
			{LearningStyle: core.StyleReading, DurationMinutes: 10, ComprehensionScore: score(85)},
			{LearningStyle: core.StyleReading, DurationMinutes: 10, ComprehensionScore: score(60)},
			{LearningStyle: core.StyleReading, DurationMinutes: 10, ComprehensionScore: score(55)},
		}
		report := ComputeProgress("alice", sessions)
		if report.ImprovementTrend != "declining" {
			t.Errorf("expected declining, got %s", report.ImprovementTrend)
		}
	})

	t.Run("StableWithinBand", func(t *testing.T) {
		sessions := []core.StudySession{
			{LearningStyle: core.StyleReading, DurationMinutes: 10, ComprehensionScore: score(80)},
			{LearningStyle: core.StyleReading, DurationMinutes: 10, ComprehensionScore: score(82)},
			{LearningStyle: core.StyleReading, DurationMinutes: 10, ComprehensionScore: score(81)},
			{LearningStyle: core.StyleReading, DurationMinutes: 10, ComprehensionScore: score(83)},
		}
		report := ComputeProgress("alice", sessions)
		if report.ImprovementTrend != "stable" {
			t.Errorf("expected stable, got %s", report.ImprovementTrend)
		}
	})

	t.Run("PreferredStyleByScore", func(t *testing.T) {
		sessions := []core.StudySession{
			{LearningStyle: core.StyleReading, DurationMinutes: 10, ComprehensionScore: score(60)},
			{LearningStyle: core.StyleVisual, DurationMinutes: 10, ComprehensionScore: score(95)},
			{LearningStyle: core.StyleReading, DurationMinutes: 10, ComprehensionScore: score(65)},
		}
		report := ComputeProgress("alice", sessions)
		if report.PreferredLearningStyle != core.StyleVisual {
			t.Errorf("expected visual preferred, got %s", report.PreferredLearningStyle)
		}
	})

	t.Run("PreferredStyleWithoutScores", func(t *testing.T) {
		sessions := []core.StudySession{
			{LearningStyle: core.StyleKinesthetic, DurationMinutes: 10},
			{LearningStyle: core.StyleKinesthetic, DurationMinutes: 10},
			{LearningStyle: core.StyleReading, DurationMinutes: 10},
		}
		report := ComputeProgress("alice", sessions)
		if report.PreferredLearningStyle != core.StyleKinesthetic {
			t.Errorf("expected kinesthetic preferred, got %s", report.PreferredLearningStyle)
		}
	})
}
