package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"draftdesk/internal/domain"
	"draftdesk/internal/service"
)

// MockDocumentService is a mock implementation of service.DocumentService.
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Validate(ctx context.Context, candidate any) (*service.ValidationResult, error) {
	args := m.Called(ctx, candidate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ValidationResult), args.Error(1)
}

func (m *MockDocumentService) Repair(ctx context.Context, candidate any) (*domain.DocumentBundle, error) {
	args := m.Called(ctx, candidate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentBundle), args.Error(1)
}

func (m *MockDocumentService) RepairText(ctx context.Context, text string) (*domain.DocumentBundle, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentBundle), args.Error(1)
}

func (m *MockDocumentService) ComputeTotals(ctx context.Context, draft any) (*domain.DocDraft, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocDraft), args.Error(1)
}

func (m *MockDocumentService) Schema(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}
