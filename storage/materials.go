package storage

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"studybuddy/config"
	"studybuddy/core"
)

// MaterialStore abstracts the search backend for studied materials.
type MaterialStore interface {
	Upsert(ctx context.Context, material core.Material) error
	Search(ctx context.Context, userID, query string, topK int) ([]core.MaterialHit, error)
}

// NewMaterialStore picks a backend from the STORE environment variable:
// "pgvector", "milvus", or the default in-memory store. Backends that
// need API or database access fall back to memory with a warning so the
// service keeps working.
func NewMaterialStore() MaterialStore {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: failed to load config (%v), using memory material store", err)
		return NewMemoryMaterialStore()
	}

	switch strings.ToLower(strings.TrimSpace(os.Getenv("STORE"))) {
	case "pgvector":
		if !cfg.HasValidAPI() || !cfg.HasDatabase() {
			log.Printf("Warning: API and database configuration required for pgvector store, falling back to memory store")
			return NewMemoryMaterialStore()
		}
		s, err := newPgVectorMaterialStore(cfg)
		if err != nil {
			log.Printf("Warning: failed to initialize pgvector store (%v), falling back to memory store", err)
			return NewMemoryMaterialStore()
		}
		return s
	case "milvus":
		if !cfg.HasValidAPI() {
			log.Printf("Warning: API configuration required for milvus store, falling back to memory store")
			return NewMemoryMaterialStore()
		}
		s, err := newMilvusMaterialStore(cfg)
		if err != nil {
			log.Printf("Warning: failed to initialize milvus store (%v), falling back to memory store", err)
			return NewMemoryMaterialStore()
		}
		return s
	}
	return NewMemoryMaterialStore()
}

// ---------------- Memory implementation ----------------

type memoryDoc struct {
	material core.Material
	embed    map[string]float64
}

// MemoryMaterialStore keeps materials per user with token-frequency
// embeddings. Default backend and the one used in tests.
type MemoryMaterialStore struct {
	mu   sync.RWMutex
	docs map[string][]memoryDoc // userID -> docs
}

func NewMemoryMaterialStore() *MemoryMaterialStore {
	return &MemoryMaterialStore{docs: map[string][]memoryDoc{}}
}

func (s *MemoryMaterialStore) Upsert(_ context.Context, material core.Material) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	vec := embedTokens(strings.ToLower(material.Text + " " + material.Summary))
	docs := s.docs[material.UserID]
	for i := range docs {
		if docs[i].material.ID == material.ID {
			docs[i] = memoryDoc{material: material, embed: vec}
			return nil
		}
	}
	s.docs[material.UserID] = append(docs, memoryDoc{material: material, embed: vec})
	return nil
}

func (s *MemoryMaterialStore) Search(_ context.Context, userID, query string, topK int) ([]core.MaterialHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := s.docs[userID]
	qv := embedTokens(strings.ToLower(query))

	type scored struct {
		i     int
		score float64
	}
	scores := make([]scored, 0, len(docs))
	for i, d := range docs {
		scores = append(scores, scored{i, cosine(qv, d.embed)})
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if topK <= 0 || topK > len(scores) {
		topK = minInt(len(scores), 5)
	}

	hits := make([]core.MaterialHit, 0, topK)
	for _, sc := range scores[:topK] {
		m := docs[sc.i].material
		hits = append(hits, core.MaterialHit{
			Score:   sc.score,
			ID:      m.ID,
			Title:   m.Title,
			Summary: excerpt(m.Summary, 300),
		})
	}
	return hits, nil
}

func embedTokens(text string) map[string]float64 {
	toks := strings.Fields(strings.ToLower(text))
	m := map[string]float64{}
	for _, t := range toks {
		m[t]++
	}
	var sum float64
	for _, v := range m {
		sum += v * v
	}
	if sum == 0 {
		return m
	}
	norm := math.Sqrt(sum)
	for k, v := range m {
		m[k] = v / norm
	}
	return m
}

func cosine(a, b map[string]float64) float64 {
	var dot float64
	for k, va := range a {
		if vb, ok := b[k]; ok {
			dot += va * vb
		}
	}
	return dot
}

func excerpt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "..."
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ---------------- Shared embedding helper ----------------

type embedder struct {
	oa    *openai.Client
	model string
}

func (e *embedder) embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.oa.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding API failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return resp.Data[0].Embedding, nil
}

func newEmbedder(cfg *config.Config) *embedder {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &embedder{oa: openai.NewClientWithConfig(clientConfig), model: cfg.EmbeddingModel}
}
