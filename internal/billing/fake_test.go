package billing

import (
	"context"
	"testing"

	"github.com/cimillas/concert-tickets/internal/domain"
)

func TestFakeGateway_ChargesWithValidToken(t *testing.T) {
	t.Parallel()

	gateway := NewFakeGateway()

	charge, err := gateway.Charge(context.Background(), 2500, gateway.ValidTestToken())
	if err != nil {
		t.Fatalf("expected charge to succeed, got %v", err)
	}
	if charge.ID == "" {
		t.Fatalf("expected charge id to be set")
	}
	if gateway.TotalCharges() != 2500 {
		t.Fatalf("expected total charges 2500, got %d", gateway.TotalCharges())
	}
}

func TestFakeGateway_RejectsInvalidToken(t *testing.T) {
	t.Parallel()

	gateway := NewFakeGateway()

	if _, err := gateway.Charge(context.Background(), 2500, "bogus"); err != domain.ErrPaymentFailed {
		t.Fatalf("expected ErrPaymentFailed, got %v", err)
	}
	if gateway.TotalCharges() != 0 {
		t.Fatalf("expected no charges, got %d", gateway.TotalCharges())
	}
}

func TestFakeGateway_Refund(t *testing.T) {
	t.Parallel()

	gateway := NewFakeGateway()

	charge, err := gateway.Charge(context.Background(), 1000, gateway.ValidTestToken())
	if err != nil {
		t.Fatalf("charge: %v", err)
	}

	if err := gateway.Refund(context.Background(), charge.ID); err != nil {
		t.Fatalf("refund: %v", err)
	}
	if gateway.TotalCharges() != 0 {
		t.Fatalf("expected refund to zero total charges, got %d", gateway.TotalCharges())
	}
	if refunds := gateway.Refunds(); len(refunds) != 1 || refunds[0] != charge.ID {
		t.Fatalf("expected refund recorded for %s, got %v", charge.ID, refunds)
	}

	if err := gateway.Refund(context.Background(), "unknown-charge"); err != domain.ErrPaymentFailed {
		t.Fatalf("expected ErrPaymentFailed for unknown charge, got %v", err)
	}
}
