// Route registration for the offer API.

package admin

import (
	"net/http"
)

// registerRoutes sets up all API routes.
func (a *API) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", a.handleHealth)

	// Session management
	mux.HandleFunc("GET /login", a.handleLoginPage)
	mux.HandleFunc("POST /login", a.handleLogin)
	mux.HandleFunc("POST /logout", a.handleLogout)

	// Offer CRUD. Update is a POST to its own path with the target id in
	// the body.
	mux.HandleFunc("POST /offer", a.handleCreateOffer)
	mux.HandleFunc("POST /offerUpdate", a.handleUpdateOffer)
	mux.HandleFunc("GET /offers", a.handleListOffers)
	mux.HandleFunc("GET /offers/{limit}", a.handleListOffers)
	mux.HandleFunc("DELETE /offer/{id}", a.handleDeleteOffer)

	// A delete with no id is a malformed request, not a routing miss.
	mux.HandleFunc("DELETE /offer", a.handleDeleteWithoutID)
	mux.HandleFunc("DELETE /offer/{$}", a.handleDeleteWithoutID)

	// Admin page
	mux.HandleFunc("GET /ng-admin", a.handleAdminPage)
	mux.HandleFunc("GET /ng-admin/{asset}", a.handleAdminAsset)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ng-admin", http.StatusSeeOther)
	})
}
