package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"creator-os/domain/model"
	"creator-os/domain/repository"
)

// ErrNoDatabase is returned by repositories constructed without a connection.
var ErrNoDatabase = errors.New("database is not configured")

const uniqueViolation = "23505"

const competitorColumns = `id, user_id, handle, display_name, profile_url, followers_count, following_count, posts_count,
        is_verified, biography, data, last_fetched_at, last_posts_fetched_at, status, deleted_at, created_at, updated_at`

type CompetitorRepository struct{ db *sql.DB }

func NewCompetitorRepository(db *sql.DB) repository.ICompetitor {
	return &CompetitorRepository{db: db}
}

func (r *CompetitorRepository) Create(ctx context.Context, c *model.Competitor) error {
	if r.db == nil {
		return ErrNoDatabase
	}
	data, err := json.Marshal(c.Data)
	if err != nil {
		return err
	}
	q := `INSERT INTO competitors (id, user_id, handle, display_name, profile_url, data, status, created_at, updated_at)
          VALUES ($1,$2,$3,$4,$5,$6::jsonb,$7,$8,$9)`
	_, err = r.db.ExecContext(ctx, q, c.ID, c.UserID, c.Handle, c.DisplayName, c.ProfileURL, string(data), c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return repository.ErrCompetitorExists
		}
		return err
	}
	return nil
}

func (r *CompetitorRepository) GetByID(ctx context.Context, userID, id string) (*model.Competitor, error) {
	if r.db == nil {
		return nil, ErrNoDatabase
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+competitorColumns+` FROM competitors WHERE id=$1 AND user_id=$2`, id, userID)
	c, err := scanCompetitor(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrCompetitorNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CompetitorRepository) List(ctx context.Context, userID string, includeDeleted bool) ([]*model.Competitor, error) {
	if r.db == nil {
		return nil, ErrNoDatabase
	}
	q := `SELECT ` + competitorColumns + ` FROM competitors WHERE user_id=$1`
	if !includeDeleted {
		q += ` AND deleted_at IS NULL`
	}
	q += ` ORDER BY created_at DESC`
	return r.query(ctx, q, userID)
}

func (r *CompetitorRepository) ListActive(ctx context.Context) ([]*model.Competitor, error) {
	if r.db == nil {
		return nil, ErrNoDatabase
	}
	q := `SELECT ` + competitorColumns + ` FROM competitors WHERE status=$1 AND deleted_at IS NULL ORDER BY last_fetched_at ASC NULLS FIRST`
	return r.query(ctx, q, model.CompetitorStatusActive)
}

// UpdateProfile rewrites only data->'profile' in place, so a concurrent posts write is not lost.
func (r *CompetitorRepository) UpdateProfile(ctx context.Context, id string, profile *model.InstagramProfile, fetchedAt time.Time) error {
	if r.db == nil {
		return ErrNoDatabase
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	q := `UPDATE competitors SET data = jsonb_set(COALESCE(data, '{}'::jsonb), '{profile}', $2::jsonb, true),
          followers_count=$3, following_count=$4, posts_count=$5, is_verified=$6, biography=$7,
          display_name=COALESCE(display_name, $8), status=$9, last_fetched_at=$10, updated_at=$10
          WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, id, string(raw),
		profile.FollowersCount, profile.FollowingCount, profile.PostsCount, profile.IsVerified,
		nullString(profile.Biography), nullString(profile.FullName), model.CompetitorStatusActive, fetchedAt)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// UpdatePosts rewrites only data->'posts' in place.
func (r *CompetitorRepository) UpdatePosts(ctx context.Context, id string, posts []model.InstagramPost, fetchedAt time.Time) error {
	if r.db == nil {
		return ErrNoDatabase
	}
	if posts == nil {
		posts = []model.InstagramPost{}
	}
	raw, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	q := `UPDATE competitors SET data = jsonb_set(COALESCE(data, '{}'::jsonb), '{posts}', $2::jsonb, true),
          last_posts_fetched_at=$3, updated_at=$3
          WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, id, string(raw), fetchedAt)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *CompetitorRepository) SoftDelete(ctx context.Context, userID, id string, at time.Time) error {
	if r.db == nil {
		return ErrNoDatabase
	}
	res, err := r.db.ExecContext(ctx, `UPDATE competitors SET deleted_at=$3, updated_at=$3 WHERE id=$1 AND user_id=$2 AND deleted_at IS NULL`, id, userID, at)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *CompetitorRepository) Restore(ctx context.Context, userID, id string) error {
	if r.db == nil {
		return ErrNoDatabase
	}
	res, err := r.db.ExecContext(ctx, `UPDATE competitors SET deleted_at=NULL, updated_at=$3 WHERE id=$1 AND user_id=$2 AND deleted_at IS NOT NULL`, id, userID, time.Now().UTC())
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// Purge hard-deletes the competitor; its posts go with it through the foreign key.
func (r *CompetitorRepository) Purge(ctx context.Context, userID, id string) error {
	if r.db == nil {
		return ErrNoDatabase
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM competitors WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *CompetitorRepository) query(ctx context.Context, q string, args ...interface{}) ([]*model.Competitor, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Competitor, 0)
	for rows.Next() {
		c, err := scanCompetitor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCompetitor(s rowScanner) (*model.Competitor, error) {
	var c model.Competitor
	var data []byte
	if err := s.Scan(&c.ID, &c.UserID, &c.Handle, &c.DisplayName, &c.ProfileURL,
		&c.FollowersCount, &c.FollowingCount, &c.PostsCount, &c.IsVerified, &c.Biography, &data,
		&c.LastFetchedAt, &c.LastPostsFetchedAt, &c.Status, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &c.Data); err != nil {
			return nil, fmt.Errorf("decode competitor data: %w", err)
		}
	}
	return &c, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrCompetitorNotFound
	}
	return nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
