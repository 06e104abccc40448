package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/miraihq/mirai-interview/internal/models"
	pgrepo "github.com/miraihq/mirai-interview/internal/repositories/postgres"
	"github.com/miraihq/mirai-interview/internal/utils"
)

// Retriever supplies reference material for prompt context. Lookups
// are best-effort: an empty string simply means the prompt goes out
// without extra context.
type Retriever interface {
	ContextFor(ctx context.Context, position string) string
}

type KnowledgeService interface {
	Retriever
	AddDocument(ctx context.Context, title, content string, tags []string, metadataJSON []byte, embedding []float32) (*models.KnowledgeDoc, error)
}

type knowledgeService struct {
	docs pgrepo.KnowledgeRepo
	log  *logrus.Logger
}

func NewKnowledgeService(docs pgrepo.KnowledgeRepo, log *logrus.Logger) KnowledgeService {
	if log == nil {
		log = logrus.New()
	}
	return &knowledgeService{docs: docs, log: log}
}

func (s *knowledgeService) AddDocument(ctx context.Context, title, content string, tags []string, metadataJSON []byte, embedding []float32) (*models.KnowledgeDoc, error) {
	const op = "KnowledgeService.AddDocument"

	if title == "" || content == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "title and content are required", nil)
	}

	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			normalized = append(normalized, t)
		}
	}

	doc := &models.KnowledgeDoc{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Tags:      normalized,
		Metadata:  datatypes.JSON(metadataJSON),
		CreatedAt: time.Now().UTC(),
	}
	if len(embedding) > 0 {
		doc.Embedding = pgvector.NewVector(embedding)
	}

	if err := s.docs.Insert(ctx, doc); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to insert knowledge document", err)
	}
	return doc, nil
}

func (s *knowledgeService) ContextFor(ctx context.Context, position string) string {
	tag := strings.ToLower(strings.TrimSpace(position))
	if tag == "" {
		return ""
	}

	docs, err := s.docs.SearchByTag(ctx, tag, 3)
	if err != nil {
		s.log.WithError(err).WithField("position", position).Warn("knowledge lookup failed")
		return ""
	}

	// The best tag match anchors a similarity expansion: its stored
	// embedding pulls in neighboring material the tag alone misses.
	// Tag results stand on their own when no embedding is stored.
	if len(docs) > 0 {
		if q := docs[0].Embedding.Slice(); len(q) > 0 {
			similar, err := s.docs.SearchSimilar(ctx, q, 3)
			if err != nil {
				s.log.WithError(err).WithField("position", position).Warn("similarity lookup failed")
			} else {
				docs = mergeDocs(docs, similar)
			}
		}
	}

	var b strings.Builder
	for _, d := range docs {
		b.WriteString("- " + d.Title + ": " + d.Content + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// mergeDocs appends extra onto base, deduplicating by id and keeping
// base order first.
func mergeDocs(base, extra []models.KnowledgeDoc) []models.KnowledgeDoc {
	seen := make(map[string]struct{}, len(base))
	for _, d := range base {
		seen[d.ID] = struct{}{}
	}
	for _, d := range extra {
		if _, ok := seen[d.ID]; ok {
			continue
		}
		seen[d.ID] = struct{}{}
		base = append(base, d)
	}
	return base
}
