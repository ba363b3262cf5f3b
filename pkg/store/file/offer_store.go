package file

import (
	"context"

	"github.com/google/uuid"

	"github.com/offerdesk/offerd/pkg/offer"
	"github.com/offerdesk/offerd/pkg/store"
)

// List returns offers in insertion order, truncated to limit if positive.
func (s *Store) List(ctx context.Context, limit int) ([]*offer.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.data.Offers)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]*offer.Offer, n)
	copy(result, s.data.Offers[:n])
	return result, nil
}

// Get returns a single offer by id.
func (s *Store) Get(ctx context.Context, id string) (*offer.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.data.Offers {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, store.ErrNotFound
}

// Create persists a new offer, assigning an id if none is set.
func (s *Store) Create(ctx context.Context, o *offer.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.ReadOnly {
		return store.ErrReadOnly
	}

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	for _, existing := range s.data.Offers {
		if existing.ID == o.ID {
			return store.ErrAlreadyExists
		}
	}

	s.data.Offers = append(s.data.Offers, o)
	s.markDirty()
	return nil
}

// Upsert replaces the offer with a matching id, preserving its position,
// or appends a new offer under the given id when no match exists.
func (s *Store) Upsert(ctx context.Context, o *offer.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.ReadOnly {
		return store.ErrReadOnly
	}

	for i, existing := range s.data.Offers {
		if existing.ID == o.ID {
			s.data.Offers[i] = o
			s.markDirty()
			return nil
		}
	}

	s.data.Offers = append(s.data.Offers, o)
	s.markDirty()
	return nil
}

// Delete removes an offer by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.ReadOnly {
		return store.ErrReadOnly
	}

	for i, o := range s.data.Offers {
		if o.ID == id {
			s.data.Offers = append(s.data.Offers[:i], s.data.Offers[i+1:]...)
			s.markDirty()
			return nil
		}
	}
	return store.ErrNotFound
}

// DeleteAll removes every offer.
func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.ReadOnly {
		return store.ErrReadOnly
	}

	s.data.Offers = nil
	s.markDirty()
	return nil
}

// Count returns the number of stored offers.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.Offers), nil
}

// Ensure Store implements store.OfferStore.
var _ store.OfferStore = (*Store)(nil)
