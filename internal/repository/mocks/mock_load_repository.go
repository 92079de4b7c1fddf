package mocks

import (
	"context"
	"time"

	"fileview/internal/model"
	"fileview/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockLoadRepository struct {
	mock.Mock
}

func (m *MockLoadRepository) Create(ctx context.Context, load *model.Load) (*model.Load, error) {
	args := m.Called(ctx, load)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Load), args.Error(1)
}

func (m *MockLoadRepository) Complete(ctx context.Context, id string, enriched, failed int, completedAt time.Time) error {
	args := m.Called(ctx, id, enriched, failed, completedAt)
	return args.Error(0)
}

func (m *MockLoadRepository) FindByID(ctx context.Context, id string) (*model.Load, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Load), args.Error(1)
}

func (m *MockLoadRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Load], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Load]), args.Error(1)
}
