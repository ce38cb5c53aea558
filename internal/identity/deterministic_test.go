package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsStable(t *testing.T) {
	first := PostUUID("intro-to-vat")
	second := PostUUID("  Intro-To-VAT ")
	if first == uuid.Nil {
		t.Fatal("expected non-nil uuid")
	}
	if first != second {
		t.Fatalf("expected normalized keys to match, got %s and %s", first, second)
	}
}

func TestUUIDSeparatesEntityTypes(t *testing.T) {
	if PostUUID("tax") == CategoryUUID("tax") {
		t.Fatal("expected post and category ids to differ for the same slug")
	}
	menu := MenuUUID("footer")
	if MenuItemUUID(menu, "home") == MenuItemUUID(MenuUUID("header"), "home") {
		t.Fatal("expected menu item ids to be scoped by menu")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if got := UUID("   "); got != uuid.Nil {
		t.Fatalf("expected nil uuid for empty key, got %s", got)
	}
}
