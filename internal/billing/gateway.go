package billing

import "context"

// Charge is the gateway's receipt for a successful payment.
type Charge struct {
	ID          string
	AmountCents int64
}

// Gateway is the payment collaborator: an opaque charge/refund capability.
// Both operations may fail with domain.ErrPaymentFailed; the workflow never
// inspects gateway internals beyond that.
type Gateway interface {
	Charge(ctx context.Context, amountCents int64, token string) (Charge, error)
	Refund(ctx context.Context, chargeID string) error
}
