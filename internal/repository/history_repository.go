package repository

import (
	"context"
	"fmt"
	"sync"

	"go-channel-histogram/pkg/models"
)

// memoryHistoryRepository keeps analysis results in memory, newest appended
// last. Enough for the viewer's session-scoped history; nothing survives a
// restart.
type memoryHistoryRepository struct {
	mu        sync.RWMutex
	nextID    int
	byID      map[string]*models.AnalysisResult
	byRef     map[string][]*models.AnalysisResult
	maxPerRef int
}

// NewMemoryHistoryRepository creates an in-memory history store keeping at
// most maxPerRef results per image ref; zero means unbounded.
func NewMemoryHistoryRepository(maxPerRef int) HistoryRepository {
	return &memoryHistoryRepository{
		nextID:    1,
		byID:      make(map[string]*models.AnalysisResult),
		byRef:     make(map[string][]*models.AnalysisResult),
		maxPerRef: maxPerRef,
	}
}

// Save stores a copy of the result and assigns it an ID.
func (r *memoryHistoryRepository) Save(ctx context.Context, result *models.AnalysisResult) error {
	if result == nil || result.ImageRef == "" {
		return ErrInvalidImageRef
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *result
	stored.ID = fmt.Sprintf("analysis-%d", r.nextID)
	r.nextID++
	result.ID = stored.ID

	r.byID[stored.ID] = &stored
	refHistory := append(r.byRef[stored.ImageRef], &stored)
	if r.maxPerRef > 0 && len(refHistory) > r.maxPerRef {
		evicted := refHistory[0]
		delete(r.byID, evicted.ID)
		refHistory = refHistory[1:]
	}
	r.byRef[stored.ImageRef] = refHistory
	return nil
}

// Get retrieves a stored result by ID.
func (r *memoryHistoryRepository) Get(ctx context.Context, id string) (*models.AnalysisResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result, ok := r.byID[id]
	if !ok {
		return nil, ErrResultNotFound
	}
	copied := *result
	return &copied, nil
}

// History retrieves all stored results for an image ref, oldest first.
func (r *memoryHistoryRepository) History(ctx context.Context, ref string) ([]*models.AnalysisResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.byRef[ref]
	out := make([]*models.AnalysisResult, len(stored))
	for i, result := range stored {
		copied := *result
		out[i] = &copied
	}
	return out, nil
}
