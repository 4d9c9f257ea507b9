package store

import (
	"context"
	"sync"

	"github.com/AndresCespedes/inventory-service/internal/model"
)

// Memory is an in-memory Store used in tests and when no database is
// configured. Ids are assigned sequentially like a serial column would.
type Memory struct {
	mu     sync.RWMutex
	byPID  map[int64]model.StockRecord
	nextID int64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{byPID: make(map[int64]model.StockRecord)}
}

func (s *Memory) FindByProductID(ctx context.Context, productID int64) (model.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byPID[productID]
	if !ok {
		return model.StockRecord{}, ErrNotFound
	}
	return rec, nil
}

func (s *Memory) Upsert(ctx context.Context, productID, quantity int64) (UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.byPID[productID]; ok {
		prev := rec.Quantity
		rec.Quantity = quantity
		s.byPID[productID] = rec
		return UpsertResult{Record: rec, PreviousQuantity: &prev}, nil
	}

	s.nextID++
	rec := model.StockRecord{ID: s.nextID, ProductID: productID, Quantity: quantity}
	s.byPID[productID] = rec
	return UpsertResult{Record: rec, Created: true}, nil
}
