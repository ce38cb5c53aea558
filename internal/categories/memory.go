package categories

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryCategoryRepository is an in-memory category store for tests and the
// default container.
type MemoryCategoryRepository struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]*Category
	slugIndex map[string]uuid.UUID
}

var _ CategoryRepository = (*MemoryCategoryRepository)(nil)

// NewMemoryCategoryRepository constructs an empty repository.
func NewMemoryCategoryRepository() *MemoryCategoryRepository {
	return &MemoryCategoryRepository{
		records:   make(map[uuid.UUID]*Category),
		slugIndex: make(map[string]uuid.UUID),
	}
}

func (m *MemoryCategoryRepository) Create(_ context.Context, record *Category) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.slugIndex[record.Slug]; exists {
		return nil, ErrSlugExists
	}
	copied := cloneCategory(record)
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.records[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneCategory(copied), nil
}

func (m *MemoryCategoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Resource: "category", Key: id.String()}
	}
	return cloneCategory(record), nil
}

func (m *MemoryCategoryRepository) GetBySlug(_ context.Context, slug string) (*Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "category", Key: slug}
	}
	return cloneCategory(m.records[id]), nil
}

func (m *MemoryCategoryRepository) List(_ context.Context, activeOnly bool) ([]*Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Category, 0, len(m.records))
	for _, record := range m.records {
		if activeOnly && !record.IsActive {
			continue
		}
		out = append(out, cloneCategory(record))
	}
	slices.SortFunc(out, func(a, b *Category) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

func (m *MemoryCategoryRepository) Update(_ context.Context, record *Category) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.records[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "category", Key: record.ID.String()}
	}
	if owner, exists := m.slugIndex[record.Slug]; exists && owner != record.ID {
		return nil, ErrSlugExists
	}
	delete(m.slugIndex, current.Slug)
	updated := cloneCategory(record)
	updated.CreatedAt = current.CreatedAt
	m.records[record.ID] = updated
	m.slugIndex[updated.Slug] = updated.ID
	return cloneCategory(updated), nil
}

func (m *MemoryCategoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		return &NotFoundError{Resource: "category", Key: id.String()}
	}
	delete(m.slugIndex, record.Slug)
	delete(m.records, id)
	return nil
}
