package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"creator-os/domain/model"
)

// Mock implementations
type MockScraper struct {
	mock.Mock
}

func (m *MockScraper) LatestRun(ctx context.Context, actorID, status string) (*model.ScraperRun, error) {
	args := m.Called(ctx, actorID, status)
	run, _ := args.Get(0).(*model.ScraperRun)
	return run, args.Error(1)
}

func (m *MockScraper) CallActor(ctx context.Context, actorID string, input interface{}) (*model.ScraperRun, error) {
	args := m.Called(ctx, actorID, input)
	run, _ := args.Get(0).(*model.ScraperRun)
	return run, args.Error(1)
}

func (m *MockScraper) DatasetItems(ctx context.Context, datasetID string) ([]model.DatasetItem, error) {
	args := m.Called(ctx, datasetID)
	items, _ := args.Get(0).([]model.DatasetItem)
	return items, args.Error(1)
}

type MockRunCache struct {
	mock.Mock
}

func (m *MockRunCache) GetRun(ctx context.Context, actorID string) (*model.ScraperRun, error) {
	args := m.Called(ctx, actorID)
	run, _ := args.Get(0).(*model.ScraperRun)
	return run, args.Error(1)
}

func (m *MockRunCache) SetRun(ctx context.Context, actorID string, run *model.ScraperRun, ttl time.Duration) error {
	args := m.Called(ctx, actorID, run, ttl)
	return args.Error(0)
}

type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) InviteUserByEmail(ctx context.Context, email, redirectTo string) (*model.InvitedUser, error) {
	args := m.Called(ctx, email, redirectTo)
	user, _ := args.Get(0).(*model.InvitedUser)
	return user, args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishSyncEvent(ctx context.Context, event *model.SyncEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
