package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cimillas/concert-tickets/internal/domain"
)

// EventCatalog is the minimal interface needed for the storefront listings.
type EventCatalog interface {
	ListPublishedEvents(ctx context.Context) ([]domain.Event, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	TicketsRemaining(ctx context.Context, eventID string) (int, error)
}

// HandleListEvents returns an HTTP handler listing published events with
// their remaining ticket counts.
func HandleListEvents(svc EventCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := svc.ListPublishedEvents(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := make([]eventResponse, 0, len(events))
		for _, event := range events {
			remaining, err := svc.TicketsRemaining(r.Context(), event.ID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp = append(resp, newEventResponse(event, remaining))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleGetEvent returns an HTTP handler for a single published event.
// Unpublished events are not distinguishable from missing ones.
func HandleGetEvent(svc EventCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := chi.URLParam(r, "eventID")

		event, err := svc.GetEvent(r.Context(), eventID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if !event.Published() {
			writeDomainError(w, domain.ErrEventNotFound)
			return
		}

		remaining, err := svc.TicketsRemaining(r.Context(), eventID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(newEventResponse(event, remaining))
	}
}

type eventResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Venue            string     `json:"venue"`
	StartsAt         time.Time  `json:"starts_at"`
	TicketPriceCents int64      `json:"ticket_price_cents"`
	TicketsRemaining int        `json:"tickets_remaining"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
}

func newEventResponse(event domain.Event, remaining int) eventResponse {
	return eventResponse{
		ID:               event.ID,
		Name:             event.Name,
		Venue:            event.Venue,
		StartsAt:         event.StartsAt,
		TicketPriceCents: event.TicketPriceCents,
		TicketsRemaining: remaining,
		PublishedAt:      event.PublishedAt,
	}
}
