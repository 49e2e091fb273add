package payment_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/keepsake/pkg/payment"
)

func newGateway(t *testing.T, handler http.HandlerFunc) payment.Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := payment.Config{SecretKey: "sk_test_keepsake", BackendURL: srv.URL}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	return payment.New(&cfg)
}

func TestCreatePreference(t *testing.T) {
	var form url.Values
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		r.ParseForm()
		form = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cs_test_123",
			"object": "checkout.session",
			"url": "https://checkout.stripe.com/c/pay/cs_test_123",
			"status": "open",
			"client_reference_id": "order-42",
			"expires_at": 1767225600
		}`))
	})

	res, err := gw.CreatePreference(context.Background(), payment.Preference{
		Items:             []payment.Item{{Title: "Graduation album", Quantity: 2, UnitPrice: 4500}},
		PayerEmail:        "ana@example.com",
		ExternalReference: "order-42",
	})
	if err != nil {
		t.Fatalf("CreatePreference() error = %v", err)
	}

	if res.ID != "cs_test_123" || res.CheckoutURL == "" || res.Status != "open" {
		t.Errorf("unexpected result: %+v", res)
	}
	if !res.ExpiresAt.Equal(time.Unix(1767225600, 0)) {
		t.Errorf("ExpiresAt = %v", res.ExpiresAt)
	}

	checks := map[string]string{
		"mode":                                   "payment",
		"customer_email":                         "ana@example.com",
		"client_reference_id":                    "order-42",
		"line_items[0][quantity]":                "2",
		"line_items[0][price_data][currency]":    "usd",
		"line_items[0][price_data][unit_amount]": "4500",
		"line_items[0][price_data][product_data][name]": "Graduation album",
	}
	for key, want := range checks {
		if got := form.Get(key); got != want {
			t.Errorf("form[%s] = %q, want %q", key, got, want)
		}
	}
}

func TestCreatePreferenceErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rejected", http.StatusBadRequest, payment.ErrRejected},
		{"unavailable", http.StatusServiceUnavailable, payment.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "nope"}}`))
			})

			_, err := gw.CreatePreference(context.Background(), payment.Preference{
				Items: []payment.Item{{Title: "Print", Quantity: 1, UnitPrice: 100}},
			})
			if !errors.Is(err, tt.want) {
				t.Errorf("CreatePreference() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreatePreferenceNotConfigured(t *testing.T) {
	cfg := payment.Config{}
	cfg.Finalize(nil)

	_, err := payment.New(&cfg).CreatePreference(context.Background(), payment.Preference{})
	if !errors.Is(err, payment.ErrNotConfigured) {
		t.Errorf("CreatePreference() = %v, want ErrNotConfigured", err)
	}
}

func TestConfigCurrency(t *testing.T) {
	cfg := payment.Config{Currency: "BRL"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.Currency != "brl" {
		t.Errorf("currency = %s, want brl", cfg.Currency)
	}

	bad := payment.Config{Currency: "euro"}
	if err := bad.Finalize(nil); err == nil || !strings.Contains(err.Error(), "three-letter") {
		t.Errorf("Finalize() = %v, want currency error", err)
	}
}
