package posts

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryPostRepository is an in-memory post store for tests and the default
// container. It does not join categories; the service hydrates them.
type MemoryPostRepository struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]*Post
	slugIndex map[string]uuid.UUID
}

var _ PostRepository = (*MemoryPostRepository)(nil)

// NewMemoryPostRepository constructs an empty repository.
func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{
		records:   make(map[uuid.UUID]*Post),
		slugIndex: make(map[string]uuid.UUID),
	}
}

func (m *MemoryPostRepository) Create(_ context.Context, record *Post) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.slugIndex[record.Slug]; exists {
		return nil, ErrSlugExists
	}
	copied := clonePost(record)
	copied.Category = nil
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.records[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return clonePost(copied), nil
}

func (m *MemoryPostRepository) GetByID(_ context.Context, id uuid.UUID) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return clonePost(record), nil
}

func (m *MemoryPostRepository) GetBySlug(_ context.Context, slug string) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &NotFoundError{Key: slug}
	}
	return clonePost(m.records[id]), nil
}

func (m *MemoryPostRepository) List(_ context.Context, opts ListOptions) ([]*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Post, 0, len(m.records))
	for _, record := range m.records {
		if opts.Status != "" && record.Status != opts.Status {
			continue
		}
		if opts.CategoryID != nil && (record.CategoryID == nil || *record.CategoryID != *opts.CategoryID) {
			continue
		}
		out = append(out, clonePost(record))
	}
	slices.SortFunc(out, func(a, b *Post) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *MemoryPostRepository) Update(_ context.Context, record *Post) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.records[record.ID]
	if !ok {
		return nil, &NotFoundError{Key: record.ID.String()}
	}
	if owner, exists := m.slugIndex[record.Slug]; exists && owner != record.ID {
		return nil, ErrSlugExists
	}
	delete(m.slugIndex, current.Slug)
	updated := clonePost(record)
	updated.Category = nil
	updated.CreatedAt = current.CreatedAt
	m.records[record.ID] = updated
	m.slugIndex[updated.Slug] = updated.ID
	return clonePost(updated), nil
}

func (m *MemoryPostRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		return &NotFoundError{Key: id.String()}
	}
	delete(m.slugIndex, record.Slug)
	delete(m.records, id)
	return nil
}
