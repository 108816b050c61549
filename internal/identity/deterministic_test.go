package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDDeterministic(t *testing.T) {
	first := SnapshotUUID("app_data_v1.6")
	second := SnapshotUUID(" app_data_v1.6 ")
	if first == uuid.Nil {
		t.Fatalf("expected non-nil uuid")
	}
	if first != second {
		t.Fatalf("expected stable uuid, got %s and %s", first, second)
	}
	if first == SnapshotUUID("app_data_v1.7") {
		t.Fatalf("expected distinct keys to produce distinct uuids")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if UUID("  ") != uuid.Nil {
		t.Fatalf("expected nil uuid for empty key")
	}
}

func TestEntityUUIDNamespacesKinds(t *testing.T) {
	if EntityUUID("article", "1") == EntityUUID("form", "1") {
		t.Fatalf("expected kinds to be namespaced")
	}
}
