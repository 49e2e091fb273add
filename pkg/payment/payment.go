// Package payment creates hosted checkout preferences with Stripe.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// Item is a single purchasable line. UnitPrice is in the currency's minor unit.
type Item struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title" validate:"required,max=250"`
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
	UnitPrice int64  `json:"unit_price" validate:"required,min=1"`
	Currency  string `json:"currency,omitempty" validate:"omitempty,len=3"`
}

// BackURLs are the pages the payer returns to after checkout.
type BackURLs struct {
	Success string `json:"success,omitempty" validate:"omitempty,url"`
	Failure string `json:"failure,omitempty" validate:"omitempty,url"`
}

// Preference describes a checkout to create.
type Preference struct {
	Items             []Item            `json:"items" validate:"required,min=1,dive"`
	PayerEmail        string            `json:"payer_email,omitempty" validate:"omitempty,email"`
	ExternalReference string            `json:"external_reference,omitempty" validate:"omitempty,max=200"`
	BackURLs          BackURLs          `json:"back_urls"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// Result is the provider's answer to a created preference.
type Result struct {
	ID                string    `json:"id"`
	CheckoutURL       string    `json:"checkout_url"`
	Status            string    `json:"status"`
	ExternalReference string    `json:"external_reference,omitempty"`
	ExpiresAt         time.Time `json:"expires_at"`
}

// Gateway creates payment preferences.
type Gateway interface {
	CreatePreference(ctx context.Context, pref Preference) (*Result, error)
}

type stripeGateway struct {
	client     *client.API
	configured bool
	currency   string
	successURL string
	cancelURL  string
}

// New creates a Stripe-backed Gateway. When BackendURL is set the API backend
// points at it instead of api.stripe.com.
func New(cfg *Config) Gateway {
	var backends *stripe.Backends
	if cfg.BackendURL != "" {
		backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL:               stripe.String(cfg.BackendURL),
			MaxNetworkRetries: stripe.Int64(0),
			LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
		})
		backends = &stripe.Backends{API: backend, Connect: backend, Uploads: backend}
	}

	sc := &client.API{}
	sc.Init(cfg.SecretKey, backends)

	return &stripeGateway{
		client:     sc,
		configured: cfg.SecretKey != "",
		currency:   cfg.Currency,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}
}

func (g *stripeGateway) CreatePreference(ctx context.Context, pref Preference) (*Result, error) {
	if !g.configured {
		return nil, ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(fallback(pref.BackURLs.Success, g.successURL)),
		CancelURL:  stripe.String(fallback(pref.BackURLs.Failure, g.cancelURL)),
	}
	params.Context = ctx

	if pref.PayerEmail != "" {
		params.CustomerEmail = stripe.String(pref.PayerEmail)
	}
	if pref.ExternalReference != "" {
		params.ClientReferenceID = stripe.String(pref.ExternalReference)
		params.IdempotencyKey = stripe.String(pref.ExternalReference)
	}
	for k, v := range pref.Metadata {
		params.AddMetadata(k, v)
	}

	for _, item := range pref.Items {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Title),
		}
		if item.ID != "" {
			product.Metadata = map[string]string{"item_id": item.ID}
		}

		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(item.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(fallback(item.Currency, g.currency)),
				UnitAmount:  stripe.Int64(item.UnitPrice),
				ProductData: product,
			},
		})
	}

	session, err := g.client.CheckoutSessions.New(params)
	if err != nil {
		return nil, mapStripeError(err)
	}

	result := &Result{
		ID:                session.ID,
		CheckoutURL:       session.URL,
		Status:            string(session.Status),
		ExternalReference: session.ClientReferenceID,
	}
	if session.ExpiresAt > 0 {
		result.ExpiresAt = time.Unix(session.ExpiresAt, 0).UTC()
	}
	return result, nil
}

func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.HTTPStatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%w: %s", ErrUnavailable, stripeErr.Msg)
		}
		return fmt.Errorf("%w: %s", ErrRejected, stripeErr.Msg)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
