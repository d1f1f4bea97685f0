package service

import (
	"context"

	"github.com/rs/zerolog"

	"draftdesk/internal/upi"
)

// PaymentService builds payment links for repaired documents.
type PaymentService interface {
	BuildUPILink(ctx context.Context, req upi.Request) (*upi.Link, error)
}

type paymentService struct {
	log zerolog.Logger
}

// NewPaymentService creates a new PaymentService implementation.
func NewPaymentService(log zerolog.Logger) PaymentService {
	return &paymentService{log: log.With().Str("component", "payment_service").Logger()}
}

func (s *paymentService) BuildUPILink(_ context.Context, req upi.Request) (*upi.Link, error) {
	link, err := upi.BuildLink(req)
	if err != nil {
		s.log.Debug().Err(err).Msg("rejected UPI request")
		return nil, err
	}
	return link, nil
}
