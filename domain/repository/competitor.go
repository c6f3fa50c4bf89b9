package repository

import (
	"context"
	"errors"
	"time"

	"creator-os/domain/model"
)

var (
	// ErrCompetitorExists is returned when (user, handle) is already registered.
	ErrCompetitorExists = errors.New("competitor already exists")
	// ErrCompetitorNotFound is returned when no competitor row matches for the user.
	ErrCompetitorNotFound = errors.New("competitor not found")
)

// ICompetitor persists tracked targets.
type ICompetitor interface {
	Create(ctx context.Context, c *model.Competitor) error
	GetByID(ctx context.Context, userID, id string) (*model.Competitor, error)
	List(ctx context.Context, userID string, includeDeleted bool) ([]*model.Competitor, error)
	// ListActive returns every non-deleted competitor in the active state, across users.
	ListActive(ctx context.Context) ([]*model.Competitor, error)
	// UpdateProfile replaces only the profile part of the data document and the flat profile columns.
	UpdateProfile(ctx context.Context, id string, profile *model.InstagramProfile, fetchedAt time.Time) error
	// UpdatePosts replaces only the posts part of the data document.
	UpdatePosts(ctx context.Context, id string, posts []model.InstagramPost, fetchedAt time.Time) error
	SoftDelete(ctx context.Context, userID, id string, at time.Time) error
	Restore(ctx context.Context, userID, id string) error
	Purge(ctx context.Context, userID, id string) error
}

// ICompetitorPost persists content records keyed by (competitor id, external id).
type ICompetitorPost interface {
	// UpsertPosts writes all posts in one transaction and returns the number written.
	UpsertPosts(ctx context.Context, competitorID string, posts []model.InstagramPost) (int, error)
	ListByCompetitor(ctx context.Context, competitorID string, limit int) ([]*model.CompetitorPost, error)
}
