package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"creator-os/domain/model"
	"creator-os/domain/repository"
)

// fakeCompetitors mimics the Postgres repository including the partial data updates.
type fakeCompetitors struct {
	mu   sync.Mutex
	rows map[string]*model.Competitor
}

func newFakeCompetitors() *fakeCompetitors {
	return &fakeCompetitors{rows: make(map[string]*model.Competitor)}
}

func (f *fakeCompetitors) Create(_ context.Context, c *model.Competitor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.UserID == c.UserID && r.Handle == c.Handle {
			return repository.ErrCompetitorExists
		}
	}
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCompetitors) GetByID(_ context.Context, userID, id string) (*model.Competitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || r.UserID != userID {
		return nil, repository.ErrCompetitorNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeCompetitors) List(_ context.Context, userID string, includeDeleted bool) ([]*model.Competitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Competitor{}
	for _, r := range f.rows {
		if r.UserID == userID && (includeDeleted || r.DeletedAt == nil) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCompetitors) ListActive(_ context.Context) ([]*model.Competitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Competitor{}
	for _, r := range f.rows {
		if r.Status == model.CompetitorStatusActive && r.DeletedAt == nil {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCompetitors) UpdateProfile(_ context.Context, id string, profile *model.InstagramProfile, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return repository.ErrCompetitorNotFound
	}
	r.Data.Profile = profile
	r.FollowersCount = profile.FollowersCount
	r.Status = model.CompetitorStatusActive
	r.LastFetchedAt = &at
	return nil
}

func (f *fakeCompetitors) UpdatePosts(_ context.Context, id string, posts []model.InstagramPost, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return repository.ErrCompetitorNotFound
	}
	r.Data.Posts = posts
	r.LastPostsFetchedAt = &at
	return nil
}

func (f *fakeCompetitors) SoftDelete(_ context.Context, userID, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || r.UserID != userID || r.DeletedAt != nil {
		return repository.ErrCompetitorNotFound
	}
	r.DeletedAt = &at
	return nil
}

func (f *fakeCompetitors) Restore(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || r.UserID != userID || r.DeletedAt == nil {
		return repository.ErrCompetitorNotFound
	}
	r.DeletedAt = nil
	return nil
}

func (f *fakeCompetitors) Purge(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || r.UserID != userID {
		return repository.ErrCompetitorNotFound
	}
	delete(f.rows, id)
	return nil
}

// fakePosts keys rows by (competitor id, external id) like the unique constraint.
type fakePosts struct {
	mu   sync.Mutex
	rows map[string]*model.CompetitorPost
	err  error
}

func newFakePosts() *fakePosts {
	return &fakePosts{rows: make(map[string]*model.CompetitorPost)}
}

func (f *fakePosts) UpsertPosts(_ context.Context, competitorID string, posts []model.InstagramPost) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	for _, p := range posts {
		key := competitorID + "/" + p.ExternalID
		row, ok := f.rows[key]
		if !ok {
			row = &model.CompetitorPost{ID: fmt.Sprintf("row-%d", len(f.rows)+1), CompetitorID: competitorID, ExternalID: p.ExternalID}
			f.rows[key] = row
		}
		row.Caption = p.Caption
		row.LikesCount = p.LikesCount
	}
	return len(posts), nil
}

func (f *fakePosts) ListByCompetitor(_ context.Context, competitorID string, limit int) ([]*model.CompetitorPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.CompetitorPost{}
	for _, r := range f.rows {
		if r.CompetitorID == competitorID && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakePosts) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

// fakeScraper always has a succeeded run per actor whose dataset is items[actor].
type fakeScraper struct {
	mu    sync.Mutex
	items map[string][]model.DatasetItem
	err   error
	calls int
}

func (f *fakeScraper) LatestRun(_ context.Context, actorID, _ string) (*model.ScraperRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &model.ScraperRun{ID: "run-" + actorID, Status: model.RunStatusSucceeded, DefaultDatasetID: actorID}, nil
}

func (f *fakeScraper) CallActor(_ context.Context, actorID string, _ interface{}) (*model.ScraperRun, error) {
	return &model.ScraperRun{ID: "run-" + actorID, Status: model.RunStatusSucceeded, DefaultDatasetID: actorID}, nil
}

func (f *fakeScraper) DatasetItems(_ context.Context, datasetID string) ([]model.DatasetItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[datasetID], nil
}

type recordingArchive struct {
	mu    sync.Mutex
	saved []string
}

func (a *recordingArchive) Save(_ context.Context, run *model.ScraperRun, handle string, _ []model.DatasetItem) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.saved = append(a.saved, run.ID+":"+handle)
	return nil
}
