package sqlite

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/alphabot-ai/murmur/internal/store"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	path := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	b, err := Open(path)
	if err != nil {
		t.Fatalf("open backend: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestReadMissingCollection(t *testing.T) {
	b := newTestBackend(t)
	data, err := b.Read(context.Background(), "users")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil data, got %q", data)
	}
}

func TestWriteUpserts(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	if err := b.Write(ctx, "posts", []byte(`[]`)); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := b.Write(ctx, "posts", []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("second write: %v", err)
	}
	data, err := b.Read(ctx, "posts")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != `[{"id":1}]` {
		t.Fatalf("unexpected data: %s", data)
	}
	ts, err := b.UpdatedAt(ctx, "posts")
	if err != nil {
		t.Fatalf("updated_at: %v", err)
	}
	if ts.IsZero() {
		t.Fatalf("expected updated_at to be set")
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	b := newTestBackend(t)
	if err := applySchema(b.db); err != nil {
		t.Fatalf("reapply schema: %v", err)
	}
	var version int
	if err := b.db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		t.Fatalf("scan version: %v", err)
	}
	if version != len(migrations) {
		t.Fatalf("expected version %d, got %d", len(migrations), version)
	}
}

func TestStoreOverSQLite(t *testing.T) {
	b := newTestBackend(t)
	st := store.New(b)
	ctx := context.Background()

	type item struct {
		N int `json:"n"`
	}
	coll := store.NewCollection[item](st, "items")
	for i := 1; i <= 3; i++ {
		n := i
		if err := coll.Update(ctx, func(items []item) ([]item, error) {
			return append(items, item{N: n}), nil
		}); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}
	items, err := coll.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(items) != 3 || items[2].N != 3 {
		t.Fatalf("unexpected items: %+v", items)
	}
}
