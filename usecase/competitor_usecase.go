package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"creator-os/domain/dto"
	"creator-os/domain/handle"
	"creator-os/domain/model"
	"creator-os/domain/repository"
	"creator-os/infrastructure/logger"
)

var (
	// ErrValidation marks caller errors (missing or malformed parameters).
	ErrValidation = errors.New("validation failed")
	// ErrInvalidHandle is returned when no account handle can be extracted from the input.
	ErrInvalidHandle = fmt.Errorf("%w: could not extract an account handle", ErrValidation)
)

// ScraperSettings names the scraping tasks used for each sync kind.
type ScraperSettings struct {
	ProfileActorID string
	PostsActorID   string
	PostsLimit     int
}

type ICompetitorUsecase interface {
	Register(ctx context.Context, userID string, req *dto.RegisterCompetitorRequest) (*model.Competitor, error)
	// WarmUp runs the optional eager sync after registration. Its failure never affects the registration.
	WarmUp(ctx context.Context, userID, competitorID string) dto.WarmUpResult
	List(ctx context.Context, userID string, includeDeleted bool) ([]*model.Competitor, error)
	Get(ctx context.Context, userID, competitorID string) (*model.Competitor, []*model.CompetitorPost, error)
	SoftDelete(ctx context.Context, userID, competitorID string) error
	Restore(ctx context.Context, userID, competitorID string) error
	Purge(ctx context.Context, userID, competitorID string) error

	SyncProfile(ctx context.Context, userID, competitorID, rawURL string) (*model.InstagramProfile, error)
	SyncPosts(ctx context.Context, userID, competitorID, rawURL string) ([]model.InstagramPost, error)
	Analyze(ctx context.Context, userID string, req *dto.AnalyzeCompetitorRequest) (*dto.SyncResult, error)
	// RefreshActive re-syncs every active competitor and returns how many fully succeeded.
	RefreshActive(ctx context.Context) (int, error)
}

type CompetitorUsecase struct {
	competitorRepo repository.ICompetitor
	postRepo       repository.ICompetitorPost
	scraper        repository.IScraper
	runs           *RunAcquirer
	settings       ScraperSettings

	archive     repository.IDatasetArchive // optional
	publishers  []repository.ISyncPublisher
	broadcaster func(*model.SyncEvent)
	now         func() time.Time
}

func NewCompetitorUsecase(
	competitorRepo repository.ICompetitor,
	postRepo repository.ICompetitorPost,
	scraper repository.IScraper,
	runs *RunAcquirer,
	settings ScraperSettings,
) *CompetitorUsecase {
	if settings.PostsLimit <= 0 || settings.PostsLimit > MaxPostsPerSync {
		settings.PostsLimit = MaxPostsPerSync
	}
	return &CompetitorUsecase{
		competitorRepo: competitorRepo,
		postRepo:       postRepo,
		scraper:        scraper,
		runs:           runs,
		settings:       settings,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// WithArchive keeps raw dataset items after every fetch (fluent).
func (u *CompetitorUsecase) WithArchive(archive repository.IDatasetArchive) *CompetitorUsecase {
	u.archive = archive
	return u
}

// WithPublishers forwards sync events to async consumers (fluent). Nil entries are ignored.
func (u *CompetitorUsecase) WithPublishers(publishers ...repository.ISyncPublisher) *CompetitorUsecase {
	for _, p := range publishers {
		if p != nil {
			u.publishers = append(u.publishers, p)
		}
	}
	return u
}

// WithBroadcaster pushes sync events to connected clients (fluent).
func (u *CompetitorUsecase) WithBroadcaster(fn func(*model.SyncEvent)) *CompetitorUsecase {
	u.broadcaster = fn
	return u
}

func (u *CompetitorUsecase) Register(ctx context.Context, userID string, req *dto.RegisterCompetitorRequest) (*model.Competitor, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	id := handle.Resolve(req.URL)
	if id.Empty() {
		return nil, ErrInvalidHandle
	}

	now := u.now()
	c := &model.Competitor{
		ID:         uuid.NewString(),
		UserID:     userID,
		Handle:     id.Handle,
		ProfileURL: id.ProfileURL,
		Status:     model.CompetitorStatusManual,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.DisplayName != "" {
		name := req.DisplayName
		c.DisplayName = &name
	}
	if req.Sync {
		c.Status = model.CompetitorStatusPending
	}
	if err := u.competitorRepo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrCompetitorExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create competitor: %w", err)
	}
	logger.GetLogger().WithField("competitor_id", c.ID).WithField("handle", c.Handle).Info("competitor registered")
	return c, nil
}

func (u *CompetitorUsecase) WarmUp(ctx context.Context, userID, competitorID string) dto.WarmUpResult {
	res := dto.WarmUpResult{Requested: true}
	if _, err := u.SyncProfile(ctx, userID, competitorID, ""); err != nil {
		res.Error = err.Error()
		return res
	}
	res.Profile = true
	posts, err := u.SyncPosts(ctx, userID, competitorID, "")
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Posts = len(posts)
	return res
}

func (u *CompetitorUsecase) List(ctx context.Context, userID string, includeDeleted bool) ([]*model.Competitor, error) {
	list, err := u.competitorRepo.List(ctx, userID, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitors: %w", err)
	}
	return list, nil
}

func (u *CompetitorUsecase) Get(ctx context.Context, userID, competitorID string) (*model.Competitor, []*model.CompetitorPost, error) {
	c, err := u.competitorRepo.GetByID(ctx, userID, competitorID)
	if err != nil {
		return nil, nil, err
	}
	posts, err := u.postRepo.ListByCompetitor(ctx, c.ID, MaxPostsPerSync)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list competitor posts: %w", err)
	}
	return c, posts, nil
}

func (u *CompetitorUsecase) SoftDelete(ctx context.Context, userID, competitorID string) error {
	return u.competitorRepo.SoftDelete(ctx, userID, competitorID, u.now())
}

func (u *CompetitorUsecase) Restore(ctx context.Context, userID, competitorID string) error {
	return u.competitorRepo.Restore(ctx, userID, competitorID)
}

func (u *CompetitorUsecase) Purge(ctx context.Context, userID, competitorID string) error {
	return u.competitorRepo.Purge(ctx, userID, competitorID)
}

func (u *CompetitorUsecase) Analyze(ctx context.Context, userID string, req *dto.AnalyzeCompetitorRequest) (*dto.SyncResult, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	switch req.Action {
	case dto.ActionProfile:
		profile, err := u.SyncProfile(ctx, userID, req.CompetitorID, req.URL)
		if err != nil {
			return nil, err
		}
		return &dto.SyncResult{Action: req.Action, Handle: profile.Username, Count: 1, Data: profile}, nil
	default:
		posts, err := u.SyncPosts(ctx, userID, req.CompetitorID, req.URL)
		if err != nil {
			return nil, err
		}
		res := &dto.SyncResult{Action: req.Action, Handle: handle.Resolve(req.URL).Handle, Count: len(posts), Data: posts}
		if len(posts) == 0 {
			res.Warning = "no posts found for this account"
		}
		return res, nil
	}
}

func (u *CompetitorUsecase) SyncProfile(ctx context.Context, userID, competitorID, rawURL string) (*model.InstagramProfile, error) {
	c, h, err := u.target(ctx, userID, competitorID, rawURL)
	if err != nil {
		return nil, err
	}
	u.emit(ctx, c, h, dto.ActionProfile, model.SyncStatusStarted, 0, nil)

	profile, err := u.syncProfile(ctx, c, h)
	if err != nil {
		u.emit(ctx, c, h, dto.ActionProfile, model.SyncStatusFailed, 0, err)
		logger.GetLogger().WithField("competitor_id", c.ID).WithField("handle", h).WithField("error", err).Error("profile sync failed")
		return nil, err
	}
	u.emit(ctx, c, h, dto.ActionProfile, model.SyncStatusSucceeded, 1, nil)
	return profile, nil
}

func (u *CompetitorUsecase) syncProfile(ctx context.Context, c *model.Competitor, h string) (*model.InstagramProfile, error) {
	items, err := u.fetch(ctx, u.settings.ProfileActorID, map[string]interface{}{"usernames": []string{h}}, h)
	if err != nil {
		return nil, err
	}
	item, err := SelectProfile(items, h)
	if err != nil {
		return nil, err
	}
	profile := NormalizeProfile(item, h)
	if err := u.competitorRepo.UpdateProfile(ctx, c.ID, profile, u.now()); err != nil {
		return nil, fmt.Errorf("failed to store profile: %w", err)
	}
	return profile, nil
}

func (u *CompetitorUsecase) SyncPosts(ctx context.Context, userID, competitorID, rawURL string) ([]model.InstagramPost, error) {
	c, h, err := u.target(ctx, userID, competitorID, rawURL)
	if err != nil {
		return nil, err
	}
	u.emit(ctx, c, h, dto.ActionContent, model.SyncStatusStarted, 0, nil)

	posts, err := u.syncPosts(ctx, c, h)
	if err != nil {
		u.emit(ctx, c, h, dto.ActionContent, model.SyncStatusFailed, 0, err)
		logger.GetLogger().WithField("competitor_id", c.ID).WithField("handle", h).WithField("error", err).Error("posts sync failed")
		return nil, err
	}
	u.emit(ctx, c, h, dto.ActionContent, model.SyncStatusSucceeded, len(posts), nil)
	return posts, nil
}

func (u *CompetitorUsecase) syncPosts(ctx context.Context, c *model.Competitor, h string) ([]model.InstagramPost, error) {
	input := map[string]interface{}{"username": []string{h}, "resultsLimit": u.settings.PostsLimit}
	items, err := u.fetch(ctx, u.settings.PostsActorID, input, h)
	if err != nil {
		return nil, err
	}
	posts := NormalizePosts(items, h, u.settings.PostsLimit)
	if len(posts) == 0 {
		// Nothing matched; stored posts stay as they are.
		return posts, nil
	}
	if _, err := u.postRepo.UpsertPosts(ctx, c.ID, posts); err != nil {
		return nil, fmt.Errorf("failed to store posts: %w", err)
	}
	if err := u.competitorRepo.UpdatePosts(ctx, c.ID, posts, u.now()); err != nil {
		return nil, fmt.Errorf("failed to store posts summary: %w", err)
	}
	return posts, nil
}

func (u *CompetitorUsecase) RefreshActive(ctx context.Context) (int, error) {
	list, err := u.competitorRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active competitors: %w", err)
	}
	ok := 0
	for _, c := range list {
		if ctx.Err() != nil {
			return ok, ctx.Err()
		}
		lg := logger.GetLogger().WithField("competitor_id", c.ID).WithField("handle", c.Handle)
		if _, err := u.SyncProfile(ctx, c.UserID, c.ID, ""); err != nil {
			lg.WithField("error", err).Warn("scheduled profile refresh failed")
			continue
		}
		if _, err := u.SyncPosts(ctx, c.UserID, c.ID, ""); err != nil {
			lg.WithField("error", err).Warn("scheduled posts refresh failed")
			continue
		}
		ok++
	}
	return ok, nil
}

// target loads the competitor and decides which handle to scrape.
func (u *CompetitorUsecase) target(ctx context.Context, userID, competitorID, rawURL string) (*model.Competitor, string, error) {
	if competitorID == "" {
		return nil, "", fmt.Errorf("%w: competitor id is required", ErrValidation)
	}
	c, err := u.competitorRepo.GetByID(ctx, userID, competitorID)
	if err != nil {
		return nil, "", err
	}
	if c.DeletedAt != nil {
		return nil, "", repository.ErrCompetitorNotFound
	}
	h := c.Handle
	if rawURL != "" {
		h = handle.Resolve(rawURL).Handle
		if h != "" && h != c.Handle {
			logger.GetLogger().WithField("competitor_id", c.ID).WithField("stored", c.Handle).WithField("requested", h).Warn("sync handle differs from stored handle")
		}
	}
	if h == "" {
		return nil, "", ErrInvalidHandle
	}
	return c, h, nil
}

func (u *CompetitorUsecase) fetch(ctx context.Context, actorID string, input interface{}, h string) ([]model.DatasetItem, error) {
	run, err := u.runs.Acquire(ctx, actorID, input)
	if err != nil {
		return nil, err
	}
	items, err := u.scraper.DatasetItems(ctx, run.DefaultDatasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset items: %w", err)
	}
	if u.archive != nil {
		if err := u.archive.Save(ctx, run, h, items); err != nil {
			logger.GetLogger().WithField("run_id", run.ID).WithField("error", err).Warn("dataset archive failed")
		}
	}
	return items, nil
}

func (u *CompetitorUsecase) emit(ctx context.Context, c *model.Competitor, h, action, status string, count int, cause error) {
	evt := &model.SyncEvent{
		Type:         "competitor_sync",
		UserID:       c.UserID,
		CompetitorID: c.ID,
		Handle:       h,
		Action:       action,
		Status:       status,
		Count:        count,
		OccurredAt:   u.now(),
	}
	if cause != nil {
		msg := cause.Error()
		evt.Error = &msg
	}
	if u.broadcaster != nil {
		u.broadcaster(evt)
	}
	if status == model.SyncStatusStarted {
		return
	}
	for _, p := range u.publishers {
		if err := p.PublishSyncEvent(ctx, evt); err != nil {
			logger.GetLogger().WithField("competitor_id", c.ID).WithField("error", err).Warn("sync event publish failed")
		}
	}
}
