package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"draftdesk/internal/domain"
	"draftdesk/internal/service"
)

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, candidate any, format domain.ExportFormat) (*service.ExportResult, error) {
	args := m.Called(ctx, candidate, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}
