package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"creator-os/domain/dto"
	"creator-os/domain/model"
)

type MockCompetitorUsecase struct {
	mock.Mock
}

func (m *MockCompetitorUsecase) Register(ctx context.Context, userID string, req *dto.RegisterCompetitorRequest) (*model.Competitor, error) {
	args := m.Called(ctx, userID, req)
	c, _ := args.Get(0).(*model.Competitor)
	return c, args.Error(1)
}

func (m *MockCompetitorUsecase) WarmUp(ctx context.Context, userID, competitorID string) dto.WarmUpResult {
	args := m.Called(ctx, userID, competitorID)
	return args.Get(0).(dto.WarmUpResult)
}

func (m *MockCompetitorUsecase) List(ctx context.Context, userID string, includeDeleted bool) ([]*model.Competitor, error) {
	args := m.Called(ctx, userID, includeDeleted)
	list, _ := args.Get(0).([]*model.Competitor)
	return list, args.Error(1)
}

func (m *MockCompetitorUsecase) Get(ctx context.Context, userID, competitorID string) (*model.Competitor, []*model.CompetitorPost, error) {
	args := m.Called(ctx, userID, competitorID)
	c, _ := args.Get(0).(*model.Competitor)
	posts, _ := args.Get(1).([]*model.CompetitorPost)
	return c, posts, args.Error(2)
}

func (m *MockCompetitorUsecase) SoftDelete(ctx context.Context, userID, competitorID string) error {
	return m.Called(ctx, userID, competitorID).Error(0)
}

func (m *MockCompetitorUsecase) Restore(ctx context.Context, userID, competitorID string) error {
	return m.Called(ctx, userID, competitorID).Error(0)
}

func (m *MockCompetitorUsecase) Purge(ctx context.Context, userID, competitorID string) error {
	return m.Called(ctx, userID, competitorID).Error(0)
}

func (m *MockCompetitorUsecase) SyncProfile(ctx context.Context, userID, competitorID, rawURL string) (*model.InstagramProfile, error) {
	args := m.Called(ctx, userID, competitorID, rawURL)
	p, _ := args.Get(0).(*model.InstagramProfile)
	return p, args.Error(1)
}

func (m *MockCompetitorUsecase) SyncPosts(ctx context.Context, userID, competitorID, rawURL string) ([]model.InstagramPost, error) {
	args := m.Called(ctx, userID, competitorID, rawURL)
	posts, _ := args.Get(0).([]model.InstagramPost)
	return posts, args.Error(1)
}

func (m *MockCompetitorUsecase) Analyze(ctx context.Context, userID string, req *dto.AnalyzeCompetitorRequest) (*dto.SyncResult, error) {
	args := m.Called(ctx, userID, req)
	res, _ := args.Get(0).(*dto.SyncResult)
	return res, args.Error(1)
}

func (m *MockCompetitorUsecase) RefreshActive(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockInviteUsecase struct {
	mock.Mock
}

func (m *MockInviteUsecase) Invite(ctx context.Context, req *dto.InviteRequest) (*model.InvitedUser, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*model.InvitedUser)
	return user, args.Error(1)
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }
