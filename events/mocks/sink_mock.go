package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/zlnvch/reviewclient/events"
)

type MockSink struct {
	mock.Mock
}

func (m *MockSink) PublishBatch(ctx context.Context, batch []events.MutationEvent) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}
