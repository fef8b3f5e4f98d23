package docstore

import (
	"context"
	"testing"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryAddGetRoundTrip(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	id, err := s.Add(ctx, "records", record{Name: "alpha", Count: 3})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty id")
	}

	var got record
	if err := s.Get(ctx, "records", id, &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "alpha" || got.Count != 3 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestMemoryGetMissingReturnsNotFound(t *testing.T) {
	s := NewMemory()
	var got record
	if err := s.Get(context.Background(), "records", "absent", &got); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemorySetOverwrites(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	id, err := s.Add(ctx, "records", record{Name: "before"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Set(ctx, "records", id, record{Name: "after", Count: 1}); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got record
	if err := s.Get(ctx, "records", id, &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "after" {
		t.Fatalf("expected overwrite, got %+v", got)
	}
}

func TestMemoryDeleteIsIdempotent(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	id, err := s.Add(ctx, "records", record{Name: "gone"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Delete(ctx, "records", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "records", id); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}

	var got record
	if err := s.Get(ctx, "records", id, &got); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryListAndCount(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.Add(ctx, "records", record{Name: "r", Count: i}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	docs, err := s.List(ctx, "records")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	var got record
	if err := docs[0].DataTo(&got); err != nil {
		t.Fatalf("data to: %v", err)
	}

	n, err := s.Count(ctx, "records")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected count 3, got %d", n)
	}
}
