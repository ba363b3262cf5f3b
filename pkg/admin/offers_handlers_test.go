package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offerdesk/offerd/internal/storage"
	"github.com/offerdesk/offerd/pkg/config"
	"github.com/offerdesk/offerd/pkg/offer"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Users = []config.User{
		{Username: "admin", Password: "secret", Role: config.RoleAdministrator},
		{Username: "viewer", Password: "secret", Role: "viewer"},
	}
	cfg.Session.Secret = "test-signing-secret"
	return cfg
}

func newTestAPI(t *testing.T) (*API, http.Handler) {
	t.Helper()
	api, err := New(testConfig(), storage.NewInMemoryOfferStore())
	require.NoError(t, err)
	return api, api.Handler()
}

// login performs POST /login and returns the session cookie.
func login(t *testing.T, h http.Handler, username, password string) *http.Cookie {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie in login response")
	return nil
}

// doJSON sends an authenticated request with an optional JSON body.
func doJSON(h http.Handler, cookie *http.Cookie, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func listOffers(t *testing.T, h http.Handler, cookie *http.Cookie, path string) []*offer.Offer {
	t.Helper()
	rec := doJSON(h, cookie, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var offers []*offer.Offer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &offers))
	return offers
}

func assertErrorBody(t *testing.T, rec *httptest.ResponseRecorder, message string, code int) {
	t.Helper()
	var em ErrorMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &em))
	assert.Equal(t, message, em.Message)
	assert.Equal(t, code, em.Code)
}

func TestCreateOffer(t *testing.T) {
	_, h := newTestAPI(t)
	cookie := login(t, h, "admin", "secret")

	rec := doJSON(h, cookie, http.MethodPost, "/offer", map[string]any{
		"name": "weekend special", "amount": 15, "maximumRides": 3,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	offers := listOffers(t, h, cookie, "/offers")
	require.Len(t, offers, 1)
	assert.Equal(t, "weekend special", offers[0].Name)
	assert.Equal(t, 15.0, offers[0].Amount)
	assert.Equal(t, 3.0, offers[0].MaximumRides)
	assert.NotEmpty(t, offers[0].ID)
}

func TestCreateOfferValidation(t *testing.T) {
	_, h := newTestAPI(t)
	cookie := login(t, h, "admin", "secret")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing maximumRides", map[string]any{"name": "x", "amount": 10}},
		{"missing amount", map[string]any{"name": "x", "maximumRides": 2}},
		{"missing name", map[string]any{"amount": 10, "maximumRides": 2}},
		{"empty name", map[string]any{"name": "", "amount": 10, "maximumRides": 2}},
		{"whitespace name", map[string]any{"name": "   ", "amount": 10, "maximumRides": 2}},
		{"null amount", map[string]any{"name": "x", "amount": nil, "maximumRides": 2}},
		{"empty string amount", map[string]any{"name": "x", "amount": "", "maximumRides": 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(h, cookie, http.MethodPost, "/offer", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assertErrorBody(t, rec, MsgValidationFailure, CodeValidationFailure)

			assert.Empty(t, listOffers(t, h, cookie, "/offers"))
		})
	}
}

func TestCreateOfferCoercesGarbageNumbers(t *testing.T) {
	_, h := newTestAPI(t)
	cookie := login(t, h, "admin", "secret")

	rec := doJSON(h, cookie, http.MethodPost, "/offer", map[string]any{
		"name": "odd one", "amount": "abc", "maximumRides": "7",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	offers := listOffers(t, h, cookie, "/offers")
	require.Len(t, offers, 1)
	assert.Equal(t, 0.0, offers[0].Amount)
	assert.Equal(t, 7.0, offers[0].MaximumRides)
}

func TestCreateOfferIgnoresClientID(t *testing.T) {
	_, h := newTestAPI(t)
	cookie := login(t, h, "admin", "secret")

	rec := doJSON(h, cookie, http.MethodPost, "/offer", map[string]any{
		"_id": "chosen-by-client", "name": "x", "amount": 1, "maximumRides": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	offers := listOffers(t, h, cookie, "/offers")
	require.Len(t, offers, 1)
	assert.NotEqual(t, "chosen-by-client", offers[0].ID)
}

func TestUpdateOffer(t *testing.T) {
	_, h := newTestAPI(t)
	cookie := login(t, h, "admin", "secret")

	doJSON(h, cookie, http.MethodPost, "/offer", map[string]any{
		"name": "before", "amount": 1, "maximumRides": 1,
	})
	id := listOffers(t, h, cookie, "/offers")[0].ID

	rec := doJSON(h, cookie, http.MethodPost, "/offerUpdate", map[string]any{
		"_id": id, "name": "after", "amount": 20, "maximumRides": 5,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	offers := listOffers(t, h, cookie, "/offers")
	require.Len(t, offers, 1)
	assert.Equal(t, id, offers[0].ID)
	assert.Equal(t, "after", offers[0].Name)
	assert.Equal(t, 20.0, offers[0].Amount)
}

func TestUpdateOfferMissingID(t *testing.T) {
	_, h := newTestAPI(t)
	cookie := login(t, h, "admin", "secret")

	rec := doJSON(h, cookie, http.MethodPost, "/offerUpdate", map[string]any{
		"name": "x", "amount": 1, "maximumRides": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assertErrorBody(t, rec, MsgValidationFailure, CodeValidationFailure)
}

func TestUpdateOfferUnknownIDInserts(t *testing.T) {
	_, h := newTestAPI(t)
	cookie := login(t, h, "admin", "secret")

	rec := doJSON(h, cookie, http.MethodPost, "/offerUpdate", map[string]any{
		"_id": "never-seen", "name": "upserted", "amount": 2, "maximumRides": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	offers := listOffers(t, h, cookie, "/offers")
	require.Len(t, offers, 1)
	assert.Equal(t, "never-seen", offers[0].ID)
	assert.Equal(t, "upserted", offers[0].Name)
}

func TestListOffersLimit(t *testing.T) {
	_, h := newTestAPI(t)
	cookie := login(t, h, "admin", "secret")

	for i := 0; i < 3; i++ {
		rec := doJSON(h, cookie, http.MethodPost, "/offer", map[string]any{
			"name": fmt.Sprintf("offer-%d", i), "amount": i, "maximumRides": 1,
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Len(t, listOffers(t, h, cookie, "/offers"), 3)
	assert.Len(t, listOffers(t, h, cookie, "/offers/2"), 2)
	assert.Len(t, listOffers(t, h, cookie, "/offers/0"), 3)
	assert.Len(t, listOffers(t, h, cookie, "/offers/-1"), 3)
	assert.Len(t, listOffers(t, h, cookie, "/offers/10"), 3)

	// Limited listing returns the first offers in insertion order.
	limited := listOffers(t, h, cookie, "/offers/2")
	assert.Equal(t, "offer-0", limited[0].Name)
	assert.Equal(t, "offer-1", limited[1].Name)
}

func TestListOffersBadLimit(t *testing.T) {
	_, h := newTestAPI(t)
	cookie := login(t, h, "admin", "secret")

	rec := doJSON(h, cookie, http.MethodGet, "/offers/lots", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assertErrorBody(t, rec, MsgValidationFailure, CodeValidationFailure)
}

func TestListOffersEmpty(t *testing.T) {
	_, h := newTestAPI(t)
	cookie := login(t, h, "admin", "secret")

	rec := doJSON(h, cookie, http.MethodGet, "/offers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestDeleteOffer(t *testing.T) {
	_, h := newTestAPI(t)
	cookie := login(t, h, "admin", "secret")

	doJSON(h, cookie, http.MethodPost, "/offer", map[string]any{
		"name": "doomed", "amount": 1, "maximumRides": 1,
	})
	id := listOffers(t, h, cookie, "/offers")[0].ID

	rec := doJSON(h, cookie, http.MethodDelete, "/offer/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Empty(t, listOffers(t, h, cookie, "/offers"))
}

func TestDeleteOfferMissingIsNoOp(t *testing.T) {
	_, h := newTestAPI(t)
	cookie := login(t, h, "admin", "secret")

	rec := doJSON(h, cookie, http.MethodDelete, "/offer/no-such-id", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeleteOfferWithoutID(t *testing.T) {
	_, h := newTestAPI(t)
	cookie := login(t, h, "admin", "secret")

	for _, path := range []string{"/offer", "/offer/"} {
		rec := doJSON(h, cookie, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "path %s", path)
		assertErrorBody(t, rec, MsgValidationFailure, CodeValidationFailure)
	}
}

func TestHealth(t *testing.T) {
	_, h := newTestAPI(t)

	rec := doJSON(h, nil, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestSecurityHeaders(t *testing.T) {
	_, h := newTestAPI(t)

	rec := doJSON(h, nil, http.MethodGet, "/health", nil)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestAdminPageServed(t *testing.T) {
	_, h := newTestAPI(t)
	cookie := login(t, h, "admin", "secret")

	rec := doJSON(h, cookie, http.MethodGet, "/ng-admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Offers")

	rec = doJSON(h, cookie, http.MethodGet, "/ng-admin/ng-admin.js", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "javascript")
}
