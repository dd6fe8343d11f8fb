package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cimillas/concert-tickets/internal/app"
	"github.com/cimillas/concert-tickets/internal/domain"
)

// AdminEventService is the minimal interface needed for admin event endpoints.
type AdminEventService interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	PublishEvent(ctx context.Context, eventID string) (domain.Event, error)
	AddTickets(ctx context.Context, eventID string, quantity int) error
	TicketsRemaining(ctx context.Context, eventID string) (int, error)
}

// AdminOrderService is the minimal interface needed for admin order lookups.
type AdminOrderService interface {
	OrdersForEmail(ctx context.Context, eventID, email string) ([]domain.Order, error)
}

// HandleAdminCreateEvent returns an HTTP handler for creating events.
func HandleAdminCreateEvent(svc AdminEventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEventRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, codeEventNameRequired, domain.ErrEventNameRequired.Error())
			return
		}

		var startsAt *time.Time
		if req.StartsAt != "" {
			parsed, err := time.Parse(time.RFC3339, req.StartsAt)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidStartsAt, "invalid starts_at format")
				return
			}
			startsAt = &parsed
		}

		event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
			Name:             req.Name,
			Venue:            req.Venue,
			StartsAt:         startsAt,
			TicketPriceCents: req.TicketPriceCents,
			Publish:          req.Publish,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(newAdminEventResponse(event, 0))
	}
}

// HandleAdminListEvents returns an HTTP handler listing all events,
// drafts included.
func HandleAdminListEvents(svc AdminEventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := svc.ListEvents(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := make([]adminEventResponse, 0, len(events))
		for _, event := range events {
			remaining, err := svc.TicketsRemaining(r.Context(), event.ID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp = append(resp, newAdminEventResponse(event, remaining))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleAdminGetEvent returns an HTTP handler for fetching one event,
// published or not.
func HandleAdminGetEvent(svc AdminEventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := chi.URLParam(r, "eventID")

		event, err := svc.GetEvent(r.Context(), eventID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		remaining, err := svc.TicketsRemaining(r.Context(), eventID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(newAdminEventResponse(event, remaining))
	}
}

// HandleAdminPublishEvent returns an HTTP handler that makes an event
// purchasable. Republishing is a no-op.
func HandleAdminPublishEvent(svc AdminEventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := svc.PublishEvent(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(newAdminEventResponse(event, -1))
	}
}

// HandleAdminAddTickets returns an HTTP handler for adding ticket inventory
// to an event.
func HandleAdminAddTickets(svc AdminEventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := chi.URLParam(r, "eventID")

		var req addTicketsRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidQuantity, domain.ErrInvalidQuantity.Error())
			return
		}

		if err := svc.AddTickets(r.Context(), eventID, req.Quantity); err != nil {
			writeDomainError(w, err)
			return
		}
		remaining, err := svc.TicketsRemaining(r.Context(), eventID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := addTicketsResponse{
			EventID:          eventID,
			Added:            req.Quantity,
			TicketsRemaining: remaining,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleAdminListOrders returns an HTTP handler listing an event's orders
// for a customer email.
func HandleAdminListOrders(svc AdminOrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := chi.URLParam(r, "eventID")
		email := r.URL.Query().Get("email")

		orders, err := svc.OrdersForEmail(r.Context(), eventID, email)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]orderResponse, 0, len(orders))
		for _, order := range orders {
			resp = append(resp, newOrderResponse(order))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type createEventRequest struct {
	Name             string `json:"name"`
	Venue            string `json:"venue,omitempty"`
	StartsAt         string `json:"starts_at,omitempty"`
	TicketPriceCents int64  `json:"ticket_price_cents"`
	Publish          bool   `json:"publish,omitempty"`
}

type adminEventResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Venue            string     `json:"venue"`
	StartsAt         time.Time  `json:"starts_at"`
	TicketPriceCents int64      `json:"ticket_price_cents"`
	TicketsRemaining *int       `json:"tickets_remaining,omitempty"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// newAdminEventResponse renders an event for admin endpoints. A negative
// remaining count omits the field for endpoints that do not look it up.
func newAdminEventResponse(event domain.Event, remaining int) adminEventResponse {
	resp := adminEventResponse{
		ID:               event.ID,
		Name:             event.Name,
		Venue:            event.Venue,
		StartsAt:         event.StartsAt,
		TicketPriceCents: event.TicketPriceCents,
		PublishedAt:      event.PublishedAt,
		CreatedAt:        event.CreatedAt,
	}
	if remaining >= 0 {
		resp.TicketsRemaining = &remaining
	}
	return resp
}

type addTicketsRequest struct {
	Quantity int `json:"quantity"`
}

type addTicketsResponse struct {
	EventID          string `json:"event_id"`
	Added            int    `json:"added"`
	TicketsRemaining int    `json:"tickets_remaining"`
}
