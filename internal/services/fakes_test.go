package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/resume-advisor/internal/models"
	"alfredoptarigan/resume-advisor/internal/repositories"
)

type fakeAnalysisRepo struct {
	mu       sync.Mutex
	analyses map[uuid.UUID]*models.Analysis
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{analyses: make(map[uuid.UUID]*models.Analysis)}
}

func (r *fakeAnalysisRepo) Create(a *models.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.analyses[a.ID] = &cp
	return nil
}

func (r *fakeAnalysisRepo) FindByID(id uuid.UUID) (*models.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.analyses[id]
	if !ok {
		return nil, fmt.Errorf("analysis %s: %w", id, repositories.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAnalysisRepo) UpdateStatus(id uuid.UUID, status models.AnalysisStatus) error {
	return r.update(id, func(a *models.Analysis) { a.Status = status })
}

func (r *fakeAnalysisRepo) UpdateResult(id uuid.UUID, resultJSON string) error {
	return r.update(id, func(a *models.Analysis) {
		a.Status = models.StatusCompleted
		a.Result = &resultJSON
		a.ErrorMessage = nil
	})
}

func (r *fakeAnalysisRepo) UpdateError(id uuid.UUID, errorMsg string) error {
	return r.update(id, func(a *models.Analysis) {
		a.Status = models.StatusFailed
		a.ErrorMessage = &errorMsg
	})
}

func (r *fakeAnalysisRepo) FindPendingJobs(limit int) ([]models.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Analysis
	for _, a := range r.analyses {
		if a.Status == models.StatusQueued && len(out) < limit {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAnalysisRepo) update(id uuid.UUID, fn func(*models.Analysis)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.analyses[id]
	if !ok {
		return fmt.Errorf("analysis %s: %w", id, repositories.ErrNotFound)
	}
	fn(a)
	return nil
}

func (r *fakeAnalysisRepo) get(id uuid.UUID) models.Analysis {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.analyses[id]
}

type fakeDocRepo struct {
	docs map[uuid.UUID]*models.Document
}

func (r *fakeDocRepo) Create(d *models.Document) error {
	r.docs[d.ID] = d
	return nil
}

func (r *fakeDocRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, repositories.ErrNotFound)
	}
	return d, nil
}

func (r *fakeDocRepo) Delete(id uuid.UUID) error {
	delete(r.docs, id)
	return nil
}

type fakeGemini struct {
	mu       sync.Mutex
	response string
	err      error
	embedErr error
	prompts  []string
	embedded []string
	maxRetry int
	tempSeen float32
}

func (g *fakeGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.embedded = append(g.embedded, text)
	if g.embedErr != nil {
		return nil, g.embedErr
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (g *fakeGemini) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	g.tempSeen = temperature
	return g.response, g.err
}

func (g *fakeGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	g.mu.Lock()
	g.maxRetry = maxRetries
	g.mu.Unlock()
	return g.GenerateText(ctx, prompt, temperature)
}

func (g *fakeGemini) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

type fakeQdrant struct {
	results   []SearchResult
	err       error
	limitSeen int
	typesSeen []string
}

func (q *fakeQdrant) InitCollection() error { return nil }

func (q *fakeQdrant) UpsertDocument(ctx context.Context, docID string, chunkIndex int, docType string, text string, embedding []float32) error {
	return errors.New("not implemented")
}

func (q *fakeQdrant) SearchSimilar(ctx context.Context, queryEmbedding []float32, docTypes []string, limit int) ([]SearchResult, error) {
	q.limitSeen = limit
	q.typesSeen = docTypes
	return q.results, q.err
}

func (q *fakeQdrant) DeleteDocument(ctx context.Context, docID string) error { return nil }

func (q *fakeQdrant) Close() error { return nil }
