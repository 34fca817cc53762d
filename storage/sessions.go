package storage

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"studybuddy/config"
	"studybuddy/core"
)

// SessionStore persists study sessions and serves progress reports.
type SessionStore interface {
	CreateSession(ctx context.Context, session *core.StudySession) error
	ListSessions(ctx context.Context, userID string) ([]core.StudySession, error)
}

// NewSessionStore opens a Postgres-backed store when a database is
// configured and otherwise falls back to memory so the service still
// serves the analytics endpoints.
func NewSessionStore() SessionStore {
	cfg, err := config.Load()
	if err != nil || !cfg.HasDatabase() {
		log.Printf("Warning: no database configured, study sessions are kept in memory")
		return NewMemorySessionStore()
	}
	s, err := newPgSessionStore(cfg)
	if err != nil {
		log.Printf("Warning: failed to initialize session store (%v), keeping sessions in memory", err)
		return NewMemorySessionStore()
	}
	return s
}

// ---------------- Memory implementation ----------------

type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]core.StudySession
	nextID   int64
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string][]core.StudySession{}, nextID: 1}
}

func (s *MemorySessionStore) CreateSession(_ context.Context, session *core.StudySession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.ID = s.nextID
	s.nextID++
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	s.sessions[session.UserID] = append(s.sessions[session.UserID], *session)
	return nil
}

func (s *MemorySessionStore) ListSessions(_ context.Context, userID string) ([]core.StudySession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.StudySession, len(s.sessions[userID]))
	copy(out, s.sessions[userID])
	return out, nil
}

// ---------------- Postgres implementation ----------------

type PgSessionStore struct {
	conn *pgx.Conn
}

func newPgSessionStore(cfg *config.Config) (*PgSessionStore, error) {
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PgSessionStore{conn: conn}
	if err := s.ensureTable(ctx); err != nil {
		conn.Close(ctx)
		return nil, err
	}
	return s, nil
}

func (s *PgSessionStore) ensureTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS study_sessions (
			id SERIAL PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			content_type VARCHAR(100) NOT NULL,
			learning_style VARCHAR(32) NOT NULL,
			duration_minutes INT NOT NULL,
			comprehension_score FLOAT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := s.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("create study_sessions table: %w", err)
	}
	if _, err := s.conn.Exec(ctx,
		"CREATE INDEX IF NOT EXISTS idx_study_sessions_user_id ON study_sessions(user_id);"); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

func (s *PgSessionStore) CreateSession(ctx context.Context, session *core.StudySession) error {
	err := s.conn.QueryRow(ctx, `
		INSERT INTO study_sessions (user_id, content_type, learning_style, duration_minutes, comprehension_score)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, session.UserID, session.ContentType, string(session.LearningStyle),
		session.DurationMinutes, session.ComprehensionScore).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *PgSessionStore) ListSessions(ctx context.Context, userID string) ([]core.StudySession, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, user_id, content_type, learning_style, duration_minutes, comprehension_score, created_at
		FROM study_sessions
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []core.StudySession
	for rows.Next() {
		var sess core.StudySession
		var style string
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.ContentType, &style,
			&sess.DurationMinutes, &sess.ComprehensionScore, &sess.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.LearningStyle = core.LearningStyle(style)
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (s *PgSessionStore) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

// ---------------- Progress analytics ----------------

// ComputeProgress aggregates a user's sessions into a progress report.
// Sessions must be ordered oldest first.
func ComputeProgress(userID string, sessions []core.StudySession) core.ProgressReport {
	report := core.ProgressReport{
		UserID:                 userID,
		PreferredLearningStyle: core.StyleReading,
		ImprovementTrend:       "stable",
	}

	var scored []core.StudySession
	for _, sess := range sessions {
		report.TotalStudyTimeMinutes += sess.DurationMinutes
		if sess.ComprehensionScore != nil {
			scored = append(scored, sess)
		}
	}

	if len(scored) > 0 {
		var sum float64
		for _, sess := range scored {
			sum += *sess.ComprehensionScore
		}
		report.AverageComprehensionScore = sum / float64(len(scored))
		report.PreferredLearningStyle = preferredStyle(sessions, scored)
		report.ImprovementTrend = trend(scored)
	} else if len(sessions) > 0 {
		report.PreferredLearningStyle = preferredStyle(sessions, nil)
	}

	report.Recommendations = recommendations(report, len(sessions))
	return report
}

// preferredStyle is the style with the highest mean comprehension
// score, ties broken by session count.
func preferredStyle(sessions, scored []core.StudySession) core.LearningStyle {
	counts := map[core.LearningStyle]int{}
	for _, sess := range sessions {
		counts[sess.LearningStyle]++
	}

	if len(scored) > 0 {
		sums := map[core.LearningStyle]float64{}
		ns := map[core.LearningStyle]int{}
		for _, sess := range scored {
			sums[sess.LearningStyle] += *sess.ComprehensionScore
			ns[sess.LearningStyle]++
		}
		styles := make([]core.LearningStyle, 0, len(sums))
		for style := range sums {
			styles = append(styles, style)
		}
		sort.Slice(styles, func(i, j int) bool {
			mi := sums[styles[i]] / float64(ns[styles[i]])
			mj := sums[styles[j]] / float64(ns[styles[j]])
			if mi != mj {
				return mi > mj
			}
			return counts[styles[i]] > counts[styles[j]]
		})
		return styles[0]
	}

	best := core.StyleReading
	bestCount := 0
	for style, n := range counts {
		if n > bestCount {
			best, bestCount = style, n
		}
	}
	return best
}

// trend compares the mean score of the most recent half of sessions
// against the earlier half, with a 5-point stability band.
func trend(scored []core.StudySession) string {
	if len(scored) < 4 {
		return "stable"
	}
	half := len(scored) / 2
	earlier, recent := scored[:half], scored[len(scored)-half:]

	mean := func(ss []core.StudySession) float64 {
		var sum float64
		for _, s := range ss {
			sum += *s.ComprehensionScore
		}
		return sum / float64(len(ss))
	}

	diff := mean(recent) - mean(earlier)
	switch {
	case diff > 5:
		return "improving"
	case diff < -5:
		return "declining"
	default:
		return "stable"
	}
}

func recommendations(report core.ProgressReport, sessionCount int) []string {
	var recs []string
	if sessionCount == 0 {
		return []string{"Log a study session after your next review to start tracking progress."}
	}
	if report.AverageComprehensionScore > 0 && report.AverageComprehensionScore < 60 {
		recs = append(recs, "Try shorter study sessions with more frequent quizzes to reinforce the material.")
	}
	if report.ImprovementTrend == "declining" {
		recs = append(recs, "Recent scores are dropping. Revisit earlier material before moving on.")
	}
	if report.ImprovementTrend == "improving" {
		recs = append(recs, "Scores are trending up. Keep using your current study routine.")
	}
	recs = append(recs, fmt.Sprintf("Summaries in the %s style have worked best for you so far.", report.PreferredLearningStyle))
	return recs
}
