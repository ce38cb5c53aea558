package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-academy-cms/internal/categories"
	"github.com/goliatone/go-academy-cms/internal/identity"
	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/internal/menus"
	"github.com/goliatone/go-academy-cms/internal/pages"
	"github.com/goliatone/go-academy-cms/internal/posts"
	"github.com/goliatone/go-academy-cms/internal/slugs"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

var ErrServicesRequired = errors.New("seed: category, post, page and menu services are required")

// Counts tallies writes for one entity kind.
type Counts struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Result summarises an Apply call.
type Result struct {
	Categories Counts `json:"categories"`
	Posts      Counts `json:"posts"`
	Pages      Counts `json:"pages"`
	Menus      Counts `json:"menus"`
	MenuItems  Counts `json:"menu_items"`
}

// Services groups the domain services a fixture is written through.
type Services struct {
	Categories categories.Service
	Posts      posts.Service
	Pages      pages.Service
	Menus      menus.Service
}

// Applier upserts fixtures. Records are keyed by slug or code, so applying
// the same fixture twice only updates.
type Applier struct {
	services Services
	logger   interfaces.Logger
}

// NewApplier constructs an Applier.
func NewApplier(services Services, logger interfaces.Logger) *Applier {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Applier{services: services, logger: logger}
}

// Apply writes categories first so posts can reference them, then posts,
// pages and menus.
func (a *Applier) Apply(ctx context.Context, fixture *Fixture) (*Result, error) {
	s := a.services
	if s.Categories == nil || s.Posts == nil || s.Pages == nil || s.Menus == nil {
		return nil, ErrServicesRequired
	}
	if fixture.Empty() {
		return nil, ErrFixtureEmpty
	}

	result := &Result{}
	categoryIDs := map[string]uuid.UUID{}
	for _, item := range fixture.Categories {
		record, created, err := a.applyCategory(ctx, item)
		if err != nil {
			return result, err
		}
		tally(&result.Categories, created)
		categoryIDs[record.Slug] = record.ID
		categoryIDs[strings.ToLower(record.Name)] = record.ID
	}
	for _, item := range fixture.Posts {
		created, err := a.applyPost(ctx, item, categoryIDs)
		if err != nil {
			return result, err
		}
		tally(&result.Posts, created)
	}
	for _, item := range fixture.Pages {
		created, err := a.applyPage(ctx, item)
		if err != nil {
			return result, err
		}
		tally(&result.Pages, created)
	}
	for _, item := range fixture.Menus {
		if err := a.applyMenu(ctx, item, result); err != nil {
			return result, err
		}
	}

	logging.WithFields(a.logger, map[string]any{
		"categories": result.Categories.Created + result.Categories.Updated,
		"posts":      result.Posts.Created + result.Posts.Updated,
		"pages":      result.Pages.Created + result.Pages.Updated,
		"menus":      result.Menus.Created + result.Menus.Updated,
	}).Info("seed.apply.completed")
	return result, nil
}

func (a *Applier) applyCategory(ctx context.Context, item CategoryFixture) (*categories.Category, bool, error) {
	slug, err := slugs.Derive(item.Slug, item.Name)
	if err != nil {
		return nil, false, fmt.Errorf("seed: category %q: %w", item.Name, err)
	}
	description := optionalString(item.Description)
	existing, err := a.services.Categories.GetBySlug(ctx, slug)
	if err != nil {
		var notFound *categories.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, false, fmt.Errorf("seed: category %s: %w", slug, err)
		}
		record, err := a.services.Categories.Create(ctx, categories.CreateCategoryInput{
			ID:          identity.CategoryUUID(slug),
			Name:        item.Name,
			Slug:        slug,
			Description: description,
			IsActive:    item.Active,
		})
		if err != nil {
			return nil, false, fmt.Errorf("seed: create category %s: %w", slug, err)
		}
		return record, true, nil
	}

	record, err := a.services.Categories.Update(ctx, categories.UpdateCategoryInput{
		ID:          existing.ID,
		Name:        &item.Name,
		Description: description,
		IsActive:    item.Active,
	})
	if err != nil {
		return nil, false, fmt.Errorf("seed: update category %s: %w", slug, err)
	}
	return record, false, nil
}

func (a *Applier) applyPost(ctx context.Context, item PostFixture, categoryIDs map[string]uuid.UUID) (bool, error) {
	slug, err := slugs.Derive(item.Slug, item.Title)
	if err != nil {
		return false, fmt.Errorf("seed: post %q: %w", item.Title, err)
	}
	categoryID, err := a.lookupCategory(ctx, item.Category, categoryIDs)
	if err != nil {
		return false, fmt.Errorf("seed: post %s: %w", slug, err)
	}

	existing, err := a.services.Posts.GetBySlug(ctx, slug)
	if err != nil {
		var notFound *posts.NotFoundError
		if !errors.As(err, &notFound) {
			return false, fmt.Errorf("seed: post %s: %w", slug, err)
		}
		if _, err := a.services.Posts.Create(ctx, posts.CreatePostInput{
			ID:         identity.PostUUID(slug),
			Title:      item.Title,
			Slug:       slug,
			Excerpt:    optionalString(item.Excerpt),
			Body:       item.Body,
			Status:     item.Status,
			CategoryID: categoryID,
		}); err != nil {
			return false, fmt.Errorf("seed: create post %s: %w", slug, err)
		}
		return true, nil
	}

	input := posts.UpdatePostInput{
		ID:            existing.ID,
		Title:         &item.Title,
		Body:          &item.Body,
		Excerpt:       optionalString(item.Excerpt),
		CategoryID:    categoryID,
		ClearCategory: categoryID == nil && existing.CategoryID != nil,
	}
	if item.Status != "" {
		input.Status = &item.Status
	}
	if _, err := a.services.Posts.Update(ctx, input); err != nil {
		return false, fmt.Errorf("seed: update post %s: %w", slug, err)
	}
	return false, nil
}

// lookupCategory resolves a fixture reference by slug or name, against the
// fixture first and the store second.
func (a *Applier) lookupCategory(ctx context.Context, ref string, known map[string]uuid.UUID) (*uuid.UUID, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	if id, ok := known[ref]; ok {
		return &id, nil
	}
	if id, ok := known[strings.ToLower(ref)]; ok {
		return &id, nil
	}
	slug, err := slugs.Derive(ref, "")
	if err != nil {
		return nil, err
	}
	if id, ok := known[slug]; ok {
		return &id, nil
	}
	record, err := a.services.Categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("category %q: %w", ref, err)
	}
	return &record.ID, nil
}

func (a *Applier) applyPage(ctx context.Context, item PageFixture) (bool, error) {
	slug, err := slugs.Derive(item.Slug, item.Title)
	if err != nil {
		return false, fmt.Errorf("seed: page %q: %w", item.Title, err)
	}
	existing, err := a.services.Pages.GetBySlug(ctx, slug)
	if err != nil {
		var notFound *pages.NotFoundError
		if !errors.As(err, &notFound) {
			return false, fmt.Errorf("seed: page %s: %w", slug, err)
		}
		if _, err := a.services.Pages.Create(ctx, pages.CreatePageInput{
			ID:     identity.PageUUID(slug),
			Title:  item.Title,
			Slug:   slug,
			Body:   item.Body,
			Status: item.Status,
		}); err != nil {
			return false, fmt.Errorf("seed: create page %s: %w", slug, err)
		}
		return true, nil
	}

	input := pages.UpdatePageInput{ID: existing.ID, Title: &item.Title, Body: &item.Body}
	if item.Status != "" {
		input.Status = &item.Status
	}
	if _, err := a.services.Pages.Update(ctx, input); err != nil {
		return false, fmt.Errorf("seed: update page %s: %w", slug, err)
	}
	return false, nil
}

func (a *Applier) applyMenu(ctx context.Context, item MenuFixture, result *Result) error {
	code, err := slugs.Derive(item.Code, item.Name)
	if err != nil {
		return fmt.Errorf("seed: menu %q: %w", item.Name, err)
	}

	menu, err := a.services.Menus.GetMenuByCode(ctx, code)
	if err != nil {
		var notFound *menus.NotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("seed: menu %s: %w", code, err)
		}
		menu, err = a.services.Menus.CreateMenu(ctx, menus.CreateMenuInput{
			ID:       identity.MenuUUID(code),
			Name:     item.Name,
			Code:     code,
			IsActive: item.Active,
		})
		if err != nil {
			return fmt.Errorf("seed: create menu %s: %w", code, err)
		}
		tally(&result.Menus, true)
	} else {
		if _, err := a.services.Menus.UpdateMenu(ctx, menus.UpdateMenuInput{
			ID:       menu.ID,
			Name:     &item.Name,
			IsActive: item.Active,
		}); err != nil {
			return fmt.Errorf("seed: update menu %s: %w", code, err)
		}
		tally(&result.Menus, false)
	}

	existingItems := map[uuid.UUID]bool{}
	for _, existing := range menu.Items {
		existingItems[existing.ID] = true
	}
	for idx, entry := range item.Items {
		position := idx
		if entry.Position != nil {
			position = *entry.Position
		}
		id := identity.MenuItemUUID(menu.ID, entry.IdentityKey())
		url := optionalString(entry.URL)

		if existingItems[id] {
			if _, err := a.services.Menus.UpdateItem(ctx, menus.UpdateMenuItemInput{
				ID:       id,
				Title:    &entry.Title,
				URL:      url,
				ClearURL: url == nil,
				Position: &position,
				IsActive: entry.Active,
			}); err != nil {
				return fmt.Errorf("seed: update menu item %s/%s: %w", code, entry.IdentityKey(), err)
			}
			tally(&result.MenuItems, false)
			continue
		}
		if _, err := a.services.Menus.AddItem(ctx, menus.AddMenuItemInput{
			ID:       id,
			MenuID:   menu.ID,
			Title:    entry.Title,
			URL:      url,
			Position: &position,
			IsActive: entry.Active,
		}); err != nil {
			return fmt.Errorf("seed: add menu item %s/%s: %w", code, entry.IdentityKey(), err)
		}
		tally(&result.MenuItems, true)
	}
	return nil
}

func tally(counts *Counts, created bool) {
	if created {
		counts.Created++
		return
	}
	counts.Updated++
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
