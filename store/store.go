// Package store keeps prompts and their optimization history addressable by
// ID, so callers can re-run analysis on a saved prompt or save an optimized
// text as a new entry.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Loofy147/Prompt-dashboard/optimizer"
)

// ErrNotFound is returned when no prompt exists under the given ID.
var ErrNotFound = errors.New("prompt not found")

// StoredPrompt is one saved prompt text plus its last known quality.
type StoredPrompt struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	QScore    float64   `json:"q_score"`
	ParentID  string    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists prompts across optimization runs.
type Store interface {
	// Get returns the prompt stored under id, or ErrNotFound.
	Get(ctx context.Context, id string) (*StoredPrompt, error)
	// Save stores text and returns its new ID.
	Save(ctx context.Context, text string, qScore float64) (string, error)
	// SaveResult records an optimization outcome. When parentID is empty the
	// optimized text becomes a fresh entry; otherwise it is a child of the
	// original prompt.
	SaveResult(ctx context.Context, parentID string, res *optimizer.Result) (string, error)
	// List returns all stored prompts, newest first.
	List(ctx context.Context) ([]*StoredPrompt, error)
}

// MemoryStore is a mutex-guarded in-process Store.
type MemoryStore struct {
	mu      sync.RWMutex
	prompts map[string]*StoredPrompt
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		prompts: make(map[string]*StoredPrompt),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*StoredPrompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prompts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) Save(ctx context.Context, text string, qScore float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	id := uuid.NewString()
	s.prompts[id] = &StoredPrompt{
		ID:        id,
		Text:      text,
		QScore:    qScore,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return id, nil
}

func (s *MemoryStore) SaveResult(ctx context.Context, parentID string, res *optimizer.Result) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if parentID != "" {
		if _, ok := s.prompts[parentID]; !ok {
			return "", ErrNotFound
		}
	}

	now := s.now()
	id := uuid.NewString()
	s.prompts[id] = &StoredPrompt{
		ID:        id,
		Text:      res.OptimizedPrompt,
		QScore:    res.OptimizedQ,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return id, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*StoredPrompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*StoredPrompt, 0, len(s.prompts))
	for _, p := range s.prompts {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
