package adminclient

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offerdesk/offerd/internal/storage"
	"github.com/offerdesk/offerd/pkg/admin"
	"github.com/offerdesk/offerd/pkg/config"
	"github.com/offerdesk/offerd/pkg/offer"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.Users = []config.User{
		{Username: "admin", Password: "secret", Role: config.RoleAdministrator},
		{Username: "viewer", Password: "secret", Role: "viewer"},
	}
	cfg.Session.Secret = "test-signing-secret"

	api, err := admin.New(cfg, storage.NewInMemoryOfferStore())
	require.NoError(t, err)

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestClientCRUD(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	require.NoError(t, c.Login(ctx, "admin", "secret"))
	require.NoError(t, c.CreateOffer(ctx, "ten rides", 25, 10))

	offers, err := c.ListOffers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "ten rides", offers[0].Name)
	assert.Equal(t, 25.0, offers[0].Amount)

	updated := &offer.Offer{ID: offers[0].ID, Name: "twenty rides", Amount: 45, MaximumRides: 20}
	require.NoError(t, c.UpdateOffer(ctx, updated))

	offers, err = c.ListOffers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "twenty rides", offers[0].Name)

	require.NoError(t, c.DeleteOffer(ctx, offers[0].ID))
	offers, err = c.ListOffers(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, offers)
}

func TestClientListLimit(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	require.NoError(t, c.Login(ctx, "admin", "secret"))
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, c.CreateOffer(ctx, name, 1, 1))
	}

	offers, err := c.ListOffers(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, offers, 2)

	offers, err = c.ListOffers(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, offers, 3)
}

func TestClientValidationError(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	require.NoError(t, c.Login(ctx, "admin", "secret"))

	err := c.UpdateOffer(ctx, &offer.Offer{Name: "no id"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestClientWithoutLogin(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)

	_, err := c.ListOffers(context.Background(), 0)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestClientBadCredentials(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)

	err := c.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestClientForbiddenRole(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	require.NoError(t, c.Login(ctx, "viewer", "secret"))

	_, err := c.ListOffers(ctx, 0)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestClientDeleteUnknownID(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	require.NoError(t, c.Login(ctx, "admin", "secret"))
	assert.NoError(t, c.DeleteOffer(ctx, "never-existed"))
}

func TestClientHealth(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)

	assert.NoError(t, c.Health(context.Background()))
}
