package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"draftdesk/internal/upi"
)

// MockPaymentService is a mock implementation of service.PaymentService.
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) BuildUPILink(ctx context.Context, req upi.Request) (*upi.Link, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upi.Link), args.Error(1)
}
