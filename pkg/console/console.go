// Package console is a terminal front end for the offer admin API. It
// mirrors the browser admin page: one list snapshot, refreshed whole
// after every mutation.
package console

import (
	"context"
	"sync"

	"github.com/offerdesk/offerd/pkg/offer"
)

// Service is the slice of the admin API the console needs. It is
// satisfied by adminclient.Client.
type Service interface {
	ListOffers(ctx context.Context, limit int) ([]*offer.Offer, error)
	CreateOffer(ctx context.Context, name string, amount, maximumRides float64) error
	UpdateOffer(ctx context.Context, o *offer.Offer) error
	DeleteOffer(ctx context.Context, id string) error
}

// DisplayChoices are the selectable list sizes. Zero means show all.
var DisplayChoices = []int{0, 2, 3, 4, 5, 6, 7, 8, 9}

// State is an immutable snapshot of the console view. Transitions return
// a new State and never mutate the receiver.
type State struct {
	Offers       []*offer.Offer
	DisplayLimit int
	CreateMode   bool
}

func (s State) withOffers(offers []*offer.Offer) State {
	s.Offers = offers
	return s
}

func (s State) withDisplayLimit(limit int) State {
	s.DisplayLimit = limit
	return s
}

func (s State) withCreateMode(on bool) State {
	s.CreateMode = on
	return s
}

// Console drives the offer list view. Every mutation is followed by a
// whole-list refresh; refresh responses are sequence-numbered so a slow
// reply can never overwrite a newer snapshot.
type Console struct {
	svc Service

	mu    sync.Mutex
	state State
	seq   uint64
}

// New creates a console backed by the given service.
func New(svc Service) *Console {
	return &Console{svc: svc}
}

// State returns the current view snapshot.
func (c *Console) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Refresh reloads the offer list. A refresh that loses the race to a
// newer one is discarded; a failed refresh resets the list to empty.
func (c *Console) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	mySeq := c.seq
	limit := c.state.DisplayLimit
	c.mu.Unlock()

	offers, err := c.svc.ListOffers(ctx, limit)

	c.mu.Lock()
	defer c.mu.Unlock()
	if mySeq != c.seq {
		return nil
	}
	if err != nil {
		c.state = c.state.withOffers(nil)
		return err
	}
	c.state = c.state.withOffers(offers)
	return nil
}

// SetDisplayLimit changes how many offers are shown and refreshes.
func (c *Console) SetDisplayLimit(ctx context.Context, limit int) error {
	c.mu.Lock()
	c.state = c.state.withDisplayLimit(limit)
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// EnterCreateMode opens the new-offer form in the view.
func (c *Console) EnterCreateMode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.withCreateMode(true)
}

// LeaveCreateMode closes the new-offer form without saving.
func (c *Console) LeaveCreateMode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.withCreateMode(false)
}

// ValidDraft reports whether a draft looks sensible before submitting.
// The server accepts garbage numbers and coerces them to zero; this is
// only an advisory check for the interactive form.
func ValidDraft(name, amount, maximumRides string) bool {
	return name != "" && offer.Coerce(amount) != 0 && offer.Coerce(maximumRides) != 0
}

// Add creates an offer from raw form input and refreshes. The numeric
// fields coerce the way the server does.
func (c *Console) Add(ctx context.Context, name, amount, maximumRides string) error {
	if err := c.svc.CreateOffer(ctx, name, offer.Coerce(amount), offer.Coerce(maximumRides)); err != nil {
		return err
	}
	c.LeaveCreateMode()
	return c.Refresh(ctx)
}

// Save pushes an edited offer and refreshes. The refresh happens whether
// or not the update succeeded, so the view never shows an unsynced edit.
func (c *Console) Save(ctx context.Context, o *offer.Offer) error {
	err := c.svc.UpdateOffer(ctx, o)
	if refreshErr := c.Refresh(ctx); err == nil {
		err = refreshErr
	}
	return err
}

// Delete removes an offer and refreshes, like Save regardless of whether
// the removal succeeded.
func (c *Console) Delete(ctx context.Context, id string) error {
	err := c.svc.DeleteOffer(ctx, id)
	if refreshErr := c.Refresh(ctx); err == nil {
		err = refreshErr
	}
	return err
}

// Offer returns the offer with the given id from the current snapshot.
func (c *Console) Offer(id string) (*offer.Offer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, o := range c.state.Offers {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}
