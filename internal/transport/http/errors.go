package http

import (
	"encoding/json"
	"net/http"

	"github.com/cimillas/concert-tickets/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeInvalidStartsAt      = "invalid_starts_at"
	codeInvalidID            = "invalid_id"
	codeEventNameRequired    = "event_name_required"
	codeInvalidTicketPrice   = "invalid_ticket_price"
	codeInvalidQuantity      = "invalid_quantity"
	codeInvalidEmail         = "invalid_email"
	codePaymentTokenRequired = "payment_token_required"
	codeInsufficientTickets  = "insufficient_tickets"
	codePaymentFailed        = "payment_failed"
	codeEventNotFound        = "event_not_found"
	codeOrderNotFound        = "order_not_found"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps the service error taxonomy onto HTTP statuses.
// Unpublished events 404 like unknown ones so drafts stay invisible.
func writeDomainError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrEventNotFound, domain.ErrEventNotPublished:
		writeError(w, http.StatusNotFound, codeEventNotFound, domain.ErrEventNotFound.Error())
	case domain.ErrOrderNotFound:
		writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrEventNameRequired:
		writeError(w, http.StatusBadRequest, codeEventNameRequired, err.Error())
	case domain.ErrInvalidTicketPrice:
		writeError(w, http.StatusBadRequest, codeInvalidTicketPrice, err.Error())
	case domain.ErrInvalidQuantity:
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case domain.ErrInvalidEmail:
		writeError(w, http.StatusBadRequest, codeInvalidEmail, err.Error())
	case domain.ErrPaymentTokenRequired:
		writeError(w, http.StatusBadRequest, codePaymentTokenRequired, err.Error())
	case domain.ErrInsufficientTickets:
		writeError(w, http.StatusConflict, codeInsufficientTickets, err.Error())
	case domain.ErrPaymentFailed:
		writeError(w, http.StatusPaymentRequired, codePaymentFailed, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
