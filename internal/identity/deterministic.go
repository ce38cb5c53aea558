package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "academy:"

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by entity type to avoid cross-entity collisions.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

func CategoryUUID(slug string) uuid.UUID {
	return UUID(namespace + "category:" + normalizeKey(slug))
}

func PostUUID(slug string) uuid.UUID {
	return UUID(namespace + "post:" + normalizeKey(slug))
}

func PageUUID(slug string) uuid.UUID {
	return UUID(namespace + "page:" + normalizeKey(slug))
}

func MenuUUID(code string) uuid.UUID {
	return UUID(namespace + "menu:" + normalizeKey(code))
}

func MenuItemUUID(menuID uuid.UUID, key string) uuid.UUID {
	return UUID(namespace + "menu_item:" + menuID.String() + ":" + normalizeKey(key))
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
