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

// OrderPlacer is the minimal interface needed to place an order.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, in app.PlaceOrderInput) (domain.Order, error)
}

// OrderReader is the minimal interface needed to fetch a single order.
type OrderReader interface {
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
}

// HandleCreateOrder returns an HTTP handler for placing an order against a
// published event.
func HandleCreateOrder(svc OrderPlacer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := chi.URLParam(r, "eventID")

		var req createOrderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if err := req.validate(); err != nil {
			writeDomainError(w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), app.PlaceOrderInput{
			EventID:      eventID,
			Quantity:     req.Quantity,
			Email:        req.Email,
			PaymentToken: req.PaymentToken,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(newOrderResponse(order))
	}
}

// HandleGetOrder returns an HTTP handler for fetching an order by id.
func HandleGetOrder(svc OrderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(newOrderResponse(order))
	}
}

type createOrderRequest struct {
	Quantity     int    `json:"quantity"`
	Email        string `json:"email"`
	PaymentToken string `json:"payment_token"`
}

func (r createOrderRequest) validate() error {
	if r.Quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	if r.Email == "" {
		return domain.ErrInvalidEmail
	}
	if r.PaymentToken == "" {
		return domain.ErrPaymentTokenRequired
	}
	return nil
}

type orderResponse struct {
	ID             string    `json:"id"`
	EventID        string    `json:"event_id"`
	Email          string    `json:"email"`
	TicketQuantity int       `json:"ticket_quantity"`
	AmountCents    int64     `json:"amount_cents"`
	TicketIDs      []int64   `json:"ticket_ids"`
	CreatedAt      time.Time `json:"created_at"`
}

func newOrderResponse(order domain.Order) orderResponse {
	ids := order.TicketIDs
	if ids == nil {
		ids = []int64{}
	}
	return orderResponse{
		ID:             order.ID,
		EventID:        order.EventID,
		Email:          order.Email,
		TicketQuantity: order.TicketQuantity,
		AmountCents:    order.AmountCents,
		TicketIDs:      ids,
		CreatedAt:      order.CreatedAt,
	}
}
