package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"studybuddy/config"
	"studybuddy/core"
)

// MilvusMaterialStore keeps material embeddings in a Milvus collection
// with an HNSW cosine index.
type MilvusMaterialStore struct {
	mc   client.Client
	coll string
	dim  int
	emb  *embedder
}

func newMilvusMaterialStore(cfg *config.Config) (*MilvusMaterialStore, error) {
	addr := os.Getenv("MILVUS_ADDR")
	if addr == "" {
		addr = "localhost:19530"
	}
	coll := os.Getenv("MILVUS_COLLECTION")
	if coll == "" {
		coll = "study_materials"
	}

	mc, err := client.NewClient(context.Background(), client.Config{
		Address:  addr,
		Username: os.Getenv("MILVUS_USERNAME"),
		Password: os.Getenv("MILVUS_PASSWORD"),
		APIKey:   os.Getenv("MILVUS_API_KEY"),
	})
	if err != nil {
		return nil, fmt.Errorf("connect milvus: %w", err)
	}

	s := &MilvusMaterialStore{mc: mc, coll: coll, dim: embeddingDim, emb: newEmbedder(cfg)}
	if err := s.ensureSchemaAndIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MilvusMaterialStore) ensureSchemaAndIndex() error {
	ctx := context.Background()
	has, err := s.mc.HasCollection(ctx, s.coll)
	if err != nil {
		return err
	}
	if !has {
		schema := entity.NewSchema()
		schema.WithField(entity.NewField().WithName("id").WithIsAutoID(true).WithIsPrimaryKey(true).WithDataType(entity.FieldTypeInt64))
		schema.WithField(entity.NewField().WithName("material_id").WithDataType(entity.FieldTypeVarChar).WithMaxLength(64))
		schema.WithField(entity.NewField().WithName("user_id").WithDataType(entity.FieldTypeVarChar).WithMaxLength(255))
		schema.WithField(entity.NewField().WithName("title").WithDataType(entity.FieldTypeVarChar).WithMaxLength(512))
		schema.WithField(entity.NewField().WithName("summary").WithDataType(entity.FieldTypeVarChar).WithMaxLength(4096))
		schema.WithField(entity.NewField().WithName("vector").WithDataType(entity.FieldTypeFloatVector).WithDim(int64(s.dim)))

		if err := s.mc.CreateCollection(ctx, schema, int32(2)); err != nil {
			return fmt.Errorf("create collection: %w", err)
		}
	}
	idx, err := entity.NewIndexHNSW(entity.COSINE, 8, 200)
	if err != nil {
		return fmt.Errorf("new hnsw index: %w", err)
	}
	if err := s.mc.CreateIndex(ctx, s.coll, "vector", idx, false, client.WithIndexName("idx_vector")); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	if err := s.mc.LoadCollection(ctx, s.coll, false); err != nil {
		return fmt.Errorf("load collection: %w", err)
	}
	return nil
}

func (s *MilvusMaterialStore) Upsert(ctx context.Context, material core.Material) error {
	v, err := s.emb.embed(ctx, strings.ToLower(material.Text+" "+material.Summary))
	if err != nil {
		return err
	}

	_, err = s.mc.Insert(ctx, s.coll, "",
		entity.NewColumnVarChar("material_id", []string{material.ID}),
		entity.NewColumnVarChar("user_id", []string{material.UserID}),
		entity.NewColumnVarChar("title", []string{material.Title}),
		entity.NewColumnVarChar("summary", []string{material.Summary}),
		entity.NewColumnFloatVector("vector", s.dim, [][]float32{v}),
	)
	if err != nil {
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

func (s *MilvusMaterialStore) Search(ctx context.Context, userID, query string, topK int) ([]core.MaterialHit, error) {
	if topK <= 0 {
		topK = 5
	}
	v, err := s.emb.embed(ctx, strings.ToLower(query))
	if err != nil {
		return nil, err
	}

	sp, _ := entity.NewIndexHNSWSearchParam(74)
	filter := fmt.Sprintf("user_id == %q", strings.ReplaceAll(userID, `"`, `\"`))
	res, err := s.mc.Search(ctx, s.coll, []string{}, filter,
		[]string{"material_id", "title", "summary"},
		[]entity.Vector{entity.FloatVector(v)}, "vector", entity.COSINE, topK, sp)
	if err != nil {
		return nil, fmt.Errorf("search milvus: %w", err)
	}

	var hits []core.MaterialHit
	for _, r := range res {
		cols := map[string]entity.Column{}
		for _, c := range r.Fields {
			cols[c.Name()] = c
		}
		for i := 0; i < r.ResultCount; i++ {
			var id, title, summary string
			if c, ok := cols["material_id"].(*entity.ColumnVarChar); ok {
				if data := c.Data(); i < len(data) {
					id = data[i]
				}
			}
			if c, ok := cols["title"].(*entity.ColumnVarChar); ok {
				if data := c.Data(); i < len(data) {
					title = data[i]
				}
			}
			if c, ok := cols["summary"].(*entity.ColumnVarChar); ok {
				if data := c.Data(); i < len(data) {
					summary = data[i]
				}
			}
			hits = append(hits, core.MaterialHit{
				Score:   float64(r.Scores[i]),
				ID:      id,
				Title:   title,
				Summary: excerpt(summary, 300),
			})
		}
	}
	return hits, nil
}
