package service

import (
	"context"

	"pe-collective-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockSheetRepo
type MockSheetRepo struct {
	mock.Mock
}

func (m *MockSheetRepo) SheetExists(ctx context.Context, sheet string) (bool, error) {
	args := m.Called(ctx, sheet)
	return args.Bool(0), args.Error(1)
}
func (m *MockSheetRepo) AppendRow(ctx context.Context, sheet string, row []string) error {
	args := m.Called(ctx, sheet, row)
	return args.Error(0)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyRegistration(ctx context.Context, sub *domain.Submission, row []string) error {
	args := m.Called(ctx, sub, row)
	return args.Error(0)
}
