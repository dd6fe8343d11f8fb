package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cimillas/concert-tickets/internal/domain"
)

func TestHTTPGateway_Charge(t *testing.T) {
	t.Parallel()

	t.Run("successful charge", func(t *testing.T) {
		var gotAuth string
		var gotReq chargeRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/charges" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&gotReq)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(chargeResponse{ID: "ch_123"})
		}))
		defer srv.Close()

		gateway := NewHTTPGateway(srv.URL, "sk-test")
		charge, err := gateway.Charge(context.Background(), 6500, "tok_abc")
		if err != nil {
			t.Fatalf("expected charge to succeed, got %v", err)
		}
		if charge.ID != "ch_123" {
			t.Fatalf("expected charge id ch_123, got %s", charge.ID)
		}
		if charge.AmountCents != 6500 {
			t.Fatalf("expected amount 6500, got %d", charge.AmountCents)
		}
		if gotReq.AmountCents != 6500 || gotReq.Token != "tok_abc" {
			t.Fatalf("unexpected request payload: %+v", gotReq)
		}
		if gotAuth != "Bearer sk-test" {
			t.Fatalf("expected bearer auth, got %q", gotAuth)
		}
	})

	t.Run("decline maps to payment failed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
		}))
		defer srv.Close()

		gateway := NewHTTPGateway(srv.URL, "sk-test")
		if _, err := gateway.Charge(context.Background(), 100, "tok_bad"); err != domain.ErrPaymentFailed {
			t.Fatalf("expected ErrPaymentFailed, got %v", err)
		}
	})

	t.Run("timeout maps to payment failed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		gateway := NewHTTPGateway(srv.URL, "sk-test",
			WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}))
		if _, err := gateway.Charge(context.Background(), 100, "tok_slow"); err != domain.ErrPaymentFailed {
			t.Fatalf("expected ErrPaymentFailed on timeout, got %v", err)
		}
	})

	t.Run("server error is not a payment failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		gateway := NewHTTPGateway(srv.URL, "sk-test")
		_, err := gateway.Charge(context.Background(), 100, "tok_abc")
		if err == nil || err == domain.ErrPaymentFailed {
			t.Fatalf("expected distinct gateway error, got %v", err)
		}
	})
}

func TestHTTPGateway_Refund(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gateway := NewHTTPGateway(srv.URL, "sk-test")
	if err := gateway.Refund(context.Background(), "ch_123"); err != nil {
		t.Fatalf("expected refund to succeed, got %v", err)
	}
	if gotPath != "/charges/ch_123/refund" {
		t.Fatalf("unexpected refund path %s", gotPath)
	}
}
