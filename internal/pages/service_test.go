package pages

import (
	"context"
	"errors"
	"testing"
)

func TestServiceCreateDerivesSlugAndDefaultsToDraft(t *testing.T) {
	svc := NewService(NewMemoryPageRepository())

	page, err := svc.Create(context.Background(), CreatePageInput{Title: "About Us", Body: "Who we are"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if page.Slug != "about-us" {
		t.Fatalf("unexpected slug %q", page.Slug)
	}
	if page.Status != StatusDraft {
		t.Fatalf("expected draft, got %q", page.Status)
	}
}

func TestServiceCreateRejectsReservedAndDuplicateSlugs(t *testing.T) {
	svc := NewService(NewMemoryPageRepository())
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreatePageInput{Title: "Blog"}); !errors.Is(err, ErrSlugReserved) {
		t.Fatalf("expected ErrSlugReserved, got %v", err)
	}
	if _, err := svc.Create(ctx, CreatePageInput{Title: "Contact"}); err != nil {
		t.Fatalf("create contact: %v", err)
	}
	if _, err := svc.Create(ctx, CreatePageInput{Title: "Contact Us", Slug: "contact"}); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
	if _, err := svc.Create(ctx, CreatePageInput{Title: "Terms", Status: "hidden"}); !errors.Is(err, ErrStatusInvalid) {
		t.Fatalf("expected ErrStatusInvalid, got %v", err)
	}
}

func TestServiceListPublishedOrdersByTitle(t *testing.T) {
	svc := NewService(NewMemoryPageRepository())
	ctx := context.Background()

	for _, input := range []CreatePageInput{
		{Title: "Privacy", Status: StatusPublished},
		{Title: "About", Status: StatusPublished},
		{Title: "Roadmap"},
	} {
		if _, err := svc.Create(ctx, input); err != nil {
			t.Fatalf("create %s: %v", input.Title, err)
		}
	}

	published, err := svc.ListPublished(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(published) != 2 {
		t.Fatalf("expected 2 published pages, got %d", len(published))
	}
	if published[0].Title != "About" || published[1].Title != "Privacy" {
		t.Fatalf("unexpected order %s, %s", published[0].Title, published[1].Title)
	}

	var notFound *NotFoundError
	if _, err := svc.GetPublishedBySlug(ctx, "roadmap"); !errors.As(err, &notFound) {
		t.Fatalf("expected draft page to be hidden, got %v", err)
	}
}

func TestServiceUpdateAndDelete(t *testing.T) {
	svc := NewService(NewMemoryPageRepository())
	ctx := context.Background()

	page, err := svc.Create(ctx, CreatePageInput{Title: "Contact"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	title := "Contact the team"
	status := StatusPublished
	updated, err := svc.Update(ctx, UpdatePageInput{ID: page.ID, Title: &title, Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != title || updated.Slug != "contact" || !updated.IsPublished() {
		t.Fatalf("unexpected update result %+v", updated)
	}

	reserved := "sitemap"
	if _, err := svc.Update(ctx, UpdatePageInput{ID: page.ID, Slug: &reserved}); !errors.Is(err, ErrSlugReserved) {
		t.Fatalf("expected ErrSlugReserved, got %v", err)
	}

	if err := svc.Delete(ctx, page.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var notFound *NotFoundError
	if _, err := svc.Get(ctx, page.ID); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
