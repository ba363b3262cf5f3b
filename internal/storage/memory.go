// Package storage provides an in-memory implementation of the offer store,
// used by tests and by serve --no-persist.
package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/offerdesk/offerd/pkg/offer"
	"github.com/offerdesk/offerd/pkg/store"
)

// InMemoryOfferStore is a thread-safe in-memory implementation of
// store.OfferStore. Offers keep insertion order, matching the file store.
type InMemoryOfferStore struct {
	mu     sync.RWMutex
	offers []*offer.Offer
}

// NewInMemoryOfferStore creates a new InMemoryOfferStore.
func NewInMemoryOfferStore() *InMemoryOfferStore {
	return &InMemoryOfferStore{}
}

// List returns offers in insertion order, truncated to limit if positive.
func (s *InMemoryOfferStore) List(ctx context.Context, limit int) ([]*offer.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.offers)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]*offer.Offer, n)
	copy(result, s.offers[:n])
	return result, nil
}

// Get returns a single offer by id.
func (s *InMemoryOfferStore) Get(ctx context.Context, id string) (*offer.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.offers {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, store.ErrNotFound
}

// Create stores a new offer, assigning an id if none is set.
func (s *InMemoryOfferStore) Create(ctx context.Context, o *offer.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	for _, existing := range s.offers {
		if existing.ID == o.ID {
			return store.ErrAlreadyExists
		}
	}
	s.offers = append(s.offers, o)
	return nil
}

// Upsert replaces the offer with a matching id or appends a new one.
func (s *InMemoryOfferStore) Upsert(ctx context.Context, o *offer.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.offers {
		if existing.ID == o.ID {
			s.offers[i] = o
			return nil
		}
	}
	s.offers = append(s.offers, o)
	return nil
}

// Delete removes an offer by id.
func (s *InMemoryOfferStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.offers {
		if o.ID == id {
			s.offers = append(s.offers[:i], s.offers[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// DeleteAll removes every offer.
func (s *InMemoryOfferStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers = nil
	return nil
}

// Count returns the number of stored offers.
func (s *InMemoryOfferStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.offers), nil
}

// Ensure InMemoryOfferStore implements store.OfferStore.
var _ store.OfferStore = (*InMemoryOfferStore)(nil)
