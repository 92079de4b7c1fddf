package mocks

import (
	"context"
	"io"

	"fileview/internal/datastore"
	"fileview/internal/filelist"
	"fileview/internal/model"
	"fileview/internal/service"
	"fileview/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockFileViewService struct {
	mock.Mock
}

func (m *MockFileViewService) Load(ctx context.Context, query string, route filelist.RouteProvider) (*filelist.View, error) {
	args := m.Called(ctx, query, route)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filelist.View), args.Error(1)
}

func (m *MockFileViewService) Current(ctx context.Context) (*datastore.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*datastore.Snapshot), args.Error(1)
}

func (m *MockFileViewService) Find(ctx context.Context, id string) (*model.FileRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileRecord), args.Error(1)
}

func (m *MockFileViewService) Export(ctx context.Context) (*service.ExportResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}

func (m *MockFileViewService) OpenExport(ctx context.Context, name string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, storage.ObjectInfo{}, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockFileViewService) DeleteExport(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockFileViewService) ListLoads(ctx context.Context, limit, offset int) (*service.LoadListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoadListResult), args.Error(1)
}

func (m *MockFileViewService) GetLoad(ctx context.Context, id string) (*model.Load, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Load), args.Error(1)
}

func (m *MockFileViewService) Wait() {
	m.Called()
}
