package mocks

import (
	"context"

	"fileview/internal/apiclient"

	"github.com/stretchr/testify/mock"
)

type MockGetter struct {
	mock.Mock
}

func (m *MockGetter) Get(ctx context.Context, path string) (*apiclient.Response, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apiclient.Response), args.Error(1)
}

// JSON builds a 200 response carrying body.
func JSON(body string) *apiclient.Response {
	return &apiclient.Response{StatusCode: 200, Body: []byte(body)}
}
