// Error vocabulary for the offer API.

package admin

import (
	"net/http"

	"github.com/offerdesk/offerd/pkg/httputil"
)

// Failure codes. The 53x codes double as HTTP status codes, a quirk of the
// wire contract that the admin clients rely on.
const (
	CodeValidationFailure  = 400
	CodePersistenceFailure = 530
	CodeUpdateFailure      = 531
	CodeDeletionFailure    = 532
)

// Client-facing error messages.
const (
	MsgValidationFailure  = "Validation failure"
	MsgPersistenceFailure = "Error saving to database"
	MsgUpdateFailure      = "Error updating"
	MsgDeletionFailure    = "Error deleting the offer"
)

// Defaults applied when an error is raised without an explicit message or
// code.
const (
	defaultErrorMessage = "UnKnown Error"
	defaultErrorCode    = 520
)

// ErrorMessage is the body of every error response.
type ErrorMessage struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// NewErrorMessage builds an ErrorMessage, applying the defaults for an
// empty message or zero code.
func NewErrorMessage(message string, code int) ErrorMessage {
	if message == "" {
		message = defaultErrorMessage
	}
	if code == 0 {
		code = defaultErrorCode
	}
	return ErrorMessage{Message: message, Code: code}
}

// writeError writes an error response. The HTTP status mirrors the error
// code.
func writeError(w http.ResponseWriter, message string, code int) {
	em := NewErrorMessage(message, code)
	httputil.WriteJSON(w, em.Code, em)
}

// writeForbidden writes the 403 response for authenticated users without
// the administrator role.
func writeForbidden(w http.ResponseWriter) {
	writeError(w, "Administrator role required", http.StatusForbidden)
}
