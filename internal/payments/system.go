// Package payments exposes hosted checkout preference creation.
package payments

import (
	"context"
	"errors"
	"log/slog"

	"github.com/JaimeStill/keepsake/pkg/apperror"
	"github.com/JaimeStill/keepsake/pkg/payment"
)

// System defines the payment use cases.
type System interface {
	Handler() *Handler
	CreatePreference(ctx context.Context, pref payment.Preference) (*payment.Result, error)
}

type system struct {
	gateway payment.Gateway
	logger  *slog.Logger
}

func New(gateway payment.Gateway, logger *slog.Logger) System {
	return &system{
		gateway: gateway,
		logger:  logger.With("system", "payments"),
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *system) CreatePreference(ctx context.Context, pref payment.Preference) (*payment.Result, error) {
	result, err := s.gateway.CreatePreference(ctx, pref)
	if err != nil {
		s.logger.Error("create preference failed", "external_reference", pref.ExternalReference, "error", err)
		return nil, apperror.Wrap(apperror.Upstream, message(err), err)
	}

	s.logger.Info("preference created", "id", result.ID, "external_reference", result.ExternalReference)
	return result, nil
}

func message(err error) string {
	switch {
	case errors.Is(err, payment.ErrNotConfigured):
		return payment.ErrNotConfigured.Error()
	case errors.Is(err, payment.ErrRejected):
		return payment.ErrRejected.Error()
	default:
		return payment.ErrUnavailable.Error()
	}
}
