// HTTP handlers for the offer CRUD endpoints.

package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/offerdesk/offerd/pkg/httputil"
	"github.com/offerdesk/offerd/pkg/offer"
	"github.com/offerdesk/offerd/pkg/store"
)

// offerRequest is the body of POST /offer and POST /offerUpdate.
// Amount and MaximumRides distinguish absent from present-but-garbage;
// garbage values pass validation and coerce to zero.
type offerRequest struct {
	ID           string       `json:"_id"`
	Name         string       `json:"name"`
	Amount       offer.Number `json:"amount"`
	MaximumRides offer.Number `json:"maximumRides"`
}

// validate enforces presence of name, amount and maximumRides. The name
// is trimmed first, so whitespace alone does not pass.
func (r offerRequest) validate() bool {
	return strings.TrimSpace(r.Name) != "" && r.Amount.Set && r.MaximumRides.Set
}

func (r offerRequest) toOffer() *offer.Offer {
	return &offer.Offer{
		ID:           r.ID,
		Name:         strings.TrimSpace(r.Name),
		Amount:       r.Amount.Value,
		MaximumRides: r.MaximumRides.Value,
	}
}

// handleCreateOffer handles POST /offer. A successful create
// responds 200 with an empty body; the new id is not echoed back.
func (a *API) handleCreateOffer(w http.ResponseWriter, r *http.Request) {
	var req offerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, MsgValidationFailure, CodeValidationFailure)
		return
	}
	if !req.validate() {
		writeError(w, MsgValidationFailure, CodeValidationFailure)
		return
	}

	o := req.toOffer()
	o.ID = ""
	if err := a.offers.Create(r.Context(), o); err != nil {
		a.log.Error("failed to save offer", "name", req.Name, "error", err)
		writeError(w, MsgPersistenceFailure, CodePersistenceFailure)
		return
	}

	a.log.Info("created offer", "id", o.ID, "name", o.Name)
	httputil.WriteEmpty(w, http.StatusOK)
}

// handleUpdateOffer handles POST /offerUpdate. The target id comes from
// the body; an unknown id inserts a new offer under that id.
func (a *API) handleUpdateOffer(w http.ResponseWriter, r *http.Request) {
	var req offerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, MsgValidationFailure, CodeValidationFailure)
		return
	}
	if req.ID == "" || !req.validate() {
		writeError(w, MsgValidationFailure, CodeValidationFailure)
		return
	}

	o := req.toOffer()
	if err := a.offers.Upsert(r.Context(), o); err != nil {
		a.log.Error("failed to update offer", "id", req.ID, "error", err)
		writeError(w, MsgUpdateFailure, CodeUpdateFailure)
		return
	}

	a.log.Info("updated offer", "id", o.ID, "name", o.Name)
	httputil.WriteEmpty(w, http.StatusOK)
}

// handleListOffers handles GET /offers and GET /offers/{limit}. A limit
// of zero or less means no limit.
func (a *API) handleListOffers(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.PathValue("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, MsgValidationFailure, CodeValidationFailure)
			return
		}
		limit = n
	}

	offers, err := a.offers.List(r.Context(), limit)
	if err != nil {
		a.log.Error("failed to list offers", "error", err)
		writeError(w, "", 0)
		return
	}
	if offers == nil {
		offers = []*offer.Offer{}
	}

	httputil.WriteOK(w, offers)
}

// handleDeleteOffer handles DELETE /offer/{id}. Deleting an id that does
// not exist is a successful no-op.
func (a *API) handleDeleteOffer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, MsgValidationFailure, CodeValidationFailure)
		return
	}

	err := a.offers.Delete(r.Context(), id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		a.log.Error("failed to delete offer", "id", id, "error", err)
		writeError(w, MsgDeletionFailure, CodeDeletionFailure)
		return
	}

	a.log.Info("deleted offer", "id", id, "found", err == nil)
	httputil.WriteEmpty(w, http.StatusOK)
}

// handleDeleteWithoutID rejects a delete request that names no offer.
func (a *API) handleDeleteWithoutID(w http.ResponseWriter, r *http.Request) {
	writeError(w, MsgValidationFailure, CodeValidationFailure)
}

// handleHealth handles GET /health.
func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := a.offers.Count(r.Context())
	status := "ok"
	if err != nil {
		status = "degraded"
	}
	httputil.WriteOK(w, map[string]any{
		"status":  status,
		"version": a.version,
		"uptime":  a.Uptime().Round(time.Second).String(),
		"offers":  count,
	})
}
