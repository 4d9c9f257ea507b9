package store

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemoryFindMissing(t *testing.T) {
	s := NewMemory()
	_, err := s.FindByProductID(context.Background(), 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryUpsertCreatesThenUpdates(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	res, err := s.Upsert(ctx, 7, 50)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !res.Created || res.PreviousQuantity != nil {
		t.Fatalf("expected creation, got %+v", res)
	}
	if res.Record.Quantity != 50 || res.Record.ProductID != 7 {
		t.Fatalf("unexpected record: %+v", res.Record)
	}

	res, err = s.Upsert(ctx, 7, 20)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if res.Created || res.PreviousQuantity == nil || *res.PreviousQuantity != 50 {
		t.Fatalf("expected update with previous 50, got %+v", res)
	}

	rec, err := s.FindByProductID(ctx, 7)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rec.Quantity != 20 {
		t.Fatalf("expected 20, got %d", rec.Quantity)
	}
}

func TestMemoryUpsertIdempotentReplay(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	s.Upsert(ctx, 1, 5)
	s.Upsert(ctx, 1, 5)
	res, _ := s.Upsert(ctx, 1, 5)
	if res.Created || res.PreviousQuantity == nil || *res.PreviousQuantity != 5 {
		t.Fatalf("replayed upsert should report update with previous 5: %+v", res)
	}
}

func TestMemoryUpsertAssignsDistinctIDs(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	a, _ := s.Upsert(ctx, 1, 1)
	b, _ := s.Upsert(ctx, 2, 1)
	if a.Record.ID == b.Record.ID {
		t.Fatalf("ids must be distinct: %d", a.Record.ID)
	}
}

func TestMemoryConcurrentUpserts(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(q int64) {
			defer wg.Done()
			if _, err := s.Upsert(ctx, 42, q); err != nil {
				t.Errorf("upsert: %v", err)
			}
		}(int64(i))
	}
	wg.Wait()

	rec, err := s.FindByProductID(ctx, 42)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rec.ID != 1 {
		t.Fatalf("concurrent creation must yield exactly one record, id=%d", rec.ID)
	}
}
