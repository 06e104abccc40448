package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pgvector/pgvector-go"

	"github.com/miraihq/mirai-interview/internal/models"
)

type fakeKnowledgeRepo struct {
	byTag    []models.KnowledgeDoc
	tagErr   error
	similar  []models.KnowledgeDoc
	simErr   error
	simCalls int
	gotQuery []float32
}

func (f *fakeKnowledgeRepo) Insert(ctx context.Context, doc *models.KnowledgeDoc) error {
	return nil
}

func (f *fakeKnowledgeRepo) SearchByTag(ctx context.Context, tag string, limit int) ([]models.KnowledgeDoc, error) {
	return f.byTag, f.tagErr
}

func (f *fakeKnowledgeRepo) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]models.KnowledgeDoc, error) {
	f.simCalls++
	f.gotQuery = embedding
	return f.similar, f.simErr
}

func TestContextForExpandsViaSimilarity(t *testing.T) {
	anchor := models.KnowledgeDoc{
		ID:        "doc-1",
		Title:     "REST",
		Content:   "Dasar REST",
		Embedding: pgvector.NewVector([]float32{0.1, 0.2}),
	}
	repo := &fakeKnowledgeRepo{
		byTag: []models.KnowledgeDoc{anchor},
		similar: []models.KnowledgeDoc{
			anchor, // similarity returns the anchor itself too
			{ID: "doc-2", Title: "HTTP", Content: "Metode HTTP"},
		},
	}
	svc := NewKnowledgeService(repo, nil)

	got := svc.ContextFor(context.Background(), "Backend Engineer")

	if repo.simCalls != 1 {
		t.Fatalf("similarity calls = %d, want 1", repo.simCalls)
	}
	if len(repo.gotQuery) != 2 {
		t.Fatalf("similarity query = %v, want the anchor embedding", repo.gotQuery)
	}
	if !strings.Contains(got, "- REST: Dasar REST") || !strings.Contains(got, "- HTTP: Metode HTTP") {
		t.Fatalf("context = %q", got)
	}
	if strings.Count(got, "- REST:") != 1 {
		t.Fatalf("anchor duplicated in context: %q", got)
	}
}

func TestContextForSkipsSimilarityWithoutEmbedding(t *testing.T) {
	repo := &fakeKnowledgeRepo{
		byTag: []models.KnowledgeDoc{{ID: "doc-1", Title: "REST", Content: "Dasar REST"}},
	}
	svc := NewKnowledgeService(repo, nil)

	got := svc.ContextFor(context.Background(), "Backend Engineer")

	if repo.simCalls != 0 {
		t.Fatalf("similarity calls = %d, want 0", repo.simCalls)
	}
	if got != "- REST: Dasar REST" {
		t.Fatalf("context = %q", got)
	}
}

func TestContextForKeepsTagResultsOnSimilarityFailure(t *testing.T) {
	repo := &fakeKnowledgeRepo{
		byTag: []models.KnowledgeDoc{{
			ID:        "doc-1",
			Title:     "REST",
			Content:   "Dasar REST",
			Embedding: pgvector.NewVector([]float32{0.1}),
		}},
		simErr: errors.New("pgvector down"),
	}
	svc := NewKnowledgeService(repo, nil)

	got := svc.ContextFor(context.Background(), "Backend Engineer")
	if got != "- REST: Dasar REST" {
		t.Fatalf("context = %q", got)
	}
}

func TestContextForEmptyInputs(t *testing.T) {
	repo := &fakeKnowledgeRepo{tagErr: errors.New("db down")}
	svc := NewKnowledgeService(repo, nil)

	if got := svc.ContextFor(context.Background(), "  "); got != "" {
		t.Fatalf("blank position context = %q", got)
	}
	if got := svc.ContextFor(context.Background(), "QA"); got != "" {
		t.Fatalf("failed lookup context = %q", got)
	}
}
