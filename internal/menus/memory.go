package menus

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryMenuRepository is an in-memory menu store.
type MemoryMenuRepository struct {
	mu        sync.RWMutex
	menus     map[uuid.UUID]*Menu
	codeIndex map[string]uuid.UUID
}

var _ MenuRepository = (*MemoryMenuRepository)(nil)

func NewMemoryMenuRepository() *MemoryMenuRepository {
	return &MemoryMenuRepository{
		menus:     make(map[uuid.UUID]*Menu),
		codeIndex: make(map[string]uuid.UUID),
	}
}

func (m *MemoryMenuRepository) Create(_ context.Context, menu *Menu) (*Menu, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.codeIndex[menu.Code]; exists {
		return nil, ErrCodeExists
	}
	copied := cloneMenu(menu)
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.menus[copied.ID] = copied
	m.codeIndex[copied.Code] = copied.ID
	return cloneMenu(copied), nil
}

func (m *MemoryMenuRepository) GetByID(_ context.Context, id uuid.UUID) (*Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	menu, ok := m.menus[id]
	if !ok {
		return nil, &NotFoundError{Resource: "menu", Key: id.String()}
	}
	return cloneMenu(menu), nil
}

func (m *MemoryMenuRepository) GetByCode(_ context.Context, code string) (*Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.codeIndex[code]
	if !ok {
		return nil, &NotFoundError{Resource: "menu", Key: code}
	}
	return cloneMenu(m.menus[id]), nil
}

func (m *MemoryMenuRepository) List(_ context.Context, activeOnly bool) ([]*Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Menu, 0, len(m.menus))
	for _, menu := range m.menus {
		if activeOnly && !menu.IsActive {
			continue
		}
		out = append(out, cloneMenu(menu))
	}
	slices.SortFunc(out, func(a, b *Menu) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

func (m *MemoryMenuRepository) Update(_ context.Context, menu *Menu) (*Menu, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.menus[menu.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "menu", Key: menu.ID.String()}
	}
	if owner, exists := m.codeIndex[menu.Code]; exists && owner != menu.ID {
		return nil, ErrCodeExists
	}
	delete(m.codeIndex, current.Code)
	updated := cloneMenu(menu)
	updated.CreatedAt = current.CreatedAt
	m.menus[menu.ID] = updated
	m.codeIndex[updated.Code] = updated.ID
	return cloneMenu(updated), nil
}

func (m *MemoryMenuRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	menu, ok := m.menus[id]
	if !ok {
		return &NotFoundError{Resource: "menu", Key: id.String()}
	}
	delete(m.codeIndex, menu.Code)
	delete(m.menus, id)
	return nil
}

// MemoryMenuItemRepository is an in-memory menu item store.
type MemoryMenuItemRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*MenuItem
}

var _ MenuItemRepository = (*MemoryMenuItemRepository)(nil)

func NewMemoryMenuItemRepository() *MemoryMenuItemRepository {
	return &MemoryMenuItemRepository{items: make(map[uuid.UUID]*MenuItem)}
}

func (m *MemoryMenuItemRepository) Create(_ context.Context, item *MenuItem) (*MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneMenuItem(item)
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.items[copied.ID] = copied
	return cloneMenuItem(copied), nil
}

func (m *MemoryMenuItemRepository) GetByID(_ context.Context, id uuid.UUID) (*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[id]
	if !ok {
		return nil, &NotFoundError{Resource: "menu_item", Key: id.String()}
	}
	return cloneMenuItem(item), nil
}

func (m *MemoryMenuItemRepository) ListByMenu(_ context.Context, menuID uuid.UUID, activeOnly bool) ([]*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*MenuItem
	for _, item := range m.items {
		if item.MenuID != menuID || (activeOnly && !item.IsActive) {
			continue
		}
		out = append(out, cloneMenuItem(item))
	}
	slices.SortFunc(out, func(a, b *MenuItem) int {
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

func (m *MemoryMenuItemRepository) Update(_ context.Context, item *MenuItem) (*MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.items[item.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "menu_item", Key: item.ID.String()}
	}
	updated := cloneMenuItem(item)
	updated.CreatedAt = current.CreatedAt
	m.items[item.ID] = updated
	return cloneMenuItem(updated), nil
}

func (m *MemoryMenuItemRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return &NotFoundError{Resource: "menu_item", Key: id.String()}
	}
	delete(m.items, id)
	return nil
}

func (m *MemoryMenuItemRepository) DeleteByMenu(_ context.Context, menuID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, item := range m.items {
		if item.MenuID == menuID {
			delete(m.items, id)
			removed++
		}
	}
	return removed, nil
}
