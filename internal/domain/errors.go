package domain

import "errors"

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrEventNotPublished    = errors.New("event not published")
	ErrEventNameRequired    = errors.New("event name required")
	ErrInvalidTicketPrice   = errors.New("invalid ticket price")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInvalidEmail         = errors.New("invalid email")
	ErrPaymentTokenRequired = errors.New("payment token required")
	ErrInsufficientTickets  = errors.New("insufficient tickets")
	ErrPaymentFailed        = errors.New("payment failed")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidID            = errors.New("invalid id")
)
