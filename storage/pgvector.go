package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"studybuddy/config"
	"studybuddy/core"
)

const embeddingDim = 1536

// PgVectorMaterialStore stores materials and their embeddings in
// Postgres with the pgvector extension.
type PgVectorMaterialStore struct {
	conn *pgx.Conn
	emb  *embedder
}

func newPgVectorMaterialStore(cfg *config.Config) (*PgVectorMaterialStore, error) {
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PgVectorMaterialStore{conn: conn, emb: newEmbedder(cfg)}
	if err := s.ensureTable(ctx); err != nil {
		conn.Close(ctx)
		return nil, err
	}
	return s, nil
}

func (s *PgVectorMaterialStore) ensureTable(ctx context.Context) error {
	if _, err := s.conn.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector;"); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS study_materials (
			id SERIAL PRIMARY KEY,
			material_id VARCHAR(64) UNIQUE NOT NULL,
			user_id VARCHAR(255) NOT NULL,
			title VARCHAR(500) NOT NULL,
			text TEXT NOT NULL,
			summary TEXT,
			learning_style VARCHAR(32),
			embedding vector(%d),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`, embeddingDim)
	if _, err := s.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("create study_materials table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_study_materials_user_id ON study_materials(user_id);",
		`CREATE INDEX IF NOT EXISTS idx_study_materials_embedding
		 ON study_materials USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);`,
	}
	for _, q := range indexes {
		if _, err := s.conn.Exec(ctx, q); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

func (s *PgVectorMaterialStore) Upsert(ctx context.Context, material core.Material) error {
	embedding, err := s.emb.embed(ctx, strings.ToLower(material.Text+" "+material.Summary))
	if err != nil {
		return err
	}
	vec := pgvector.NewVector(embedding)

	_, err = s.conn.Exec(ctx, `
		INSERT INTO study_materials (material_id, user_id, title, text, summary, learning_style, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (material_id)
		DO UPDATE SET
			title = EXCLUDED.title,
			text = EXCLUDED.text,
			summary = EXCLUDED.summary,
			learning_style = EXCLUDED.learning_style,
			embedding = EXCLUDED.embedding
	`, material.ID, material.UserID, material.Title, material.Text, material.Summary,
		string(material.LearningStyle), vec)
	if err != nil {
		return fmt.Errorf("upsert material: %w", err)
	}
	return nil
}

func (s *PgVectorMaterialStore) Search(ctx context.Context, userID, query string, topK int) ([]core.MaterialHit, error) {
	if topK <= 0 {
		topK = 5
	}
	queryEmbedding, err := s.emb.embed(ctx, strings.ToLower(query))
	if err != nil {
		return nil, err
	}
	vec := pgvector.NewVector(queryEmbedding)

	rows, err := s.conn.Query(ctx, `
		SELECT material_id, title, summary,
			   1 - (embedding <=> $1) as similarity
		FROM study_materials
		WHERE user_id = $2
		ORDER BY embedding <=> $1
		LIMIT $3
	`, vec, userID, topK)
	if err != nil {
		return nil, fmt.Errorf("search materials: %w", err)
	}
	defer rows.Close()

	var hits []core.MaterialHit
	for rows.Next() {
		var id, title, summary string
		var similarity float64
		if err := rows.Scan(&id, &title, &summary, &similarity); err != nil {
			continue
		}
		hits = append(hits, core.MaterialHit{
			Score:   similarity,
			ID:      id,
			Title:   title,
			Summary: excerpt(summary, 300),
		})
	}
	return hits, nil
}

func (s *PgVectorMaterialStore) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}
