package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"creator-os/domain/model"
	"creator-os/domain/repository"
)

type CompetitorPostRepository struct{ db *sql.DB }

func NewCompetitorPostRepository(db *sql.DB) repository.ICompetitorPost {
	return &CompetitorPostRepository{db: db}
}

// UpsertPosts writes every post in a single transaction keyed by (competitor_id, external_id).
// Either all rows are written or none are.
func (r *CompetitorPostRepository) UpsertPosts(ctx context.Context, competitorID string, posts []model.InstagramPost) (n int, err error) {
	if r.db == nil {
		return 0, ErrNoDatabase
	}
	if len(posts) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	now := time.Now().UTC()
	q := `INSERT INTO competitor_posts(id, competitor_id, external_id, short_code, post_type, caption, url, display_url, video_url,
          likes_count, comments_count, views_count, child_items, posted_at, raw, created_at, updated_at)
          VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13::jsonb,$14,$15::jsonb,$16,$16)
          ON CONFLICT (competitor_id, external_id) DO UPDATE SET short_code=EXCLUDED.short_code, post_type=EXCLUDED.post_type,
          caption=EXCLUDED.caption, url=EXCLUDED.url, display_url=EXCLUDED.display_url, video_url=EXCLUDED.video_url,
          likes_count=EXCLUDED.likes_count, comments_count=EXCLUDED.comments_count, views_count=EXCLUDED.views_count,
          child_items=EXCLUDED.child_items, posted_at=EXCLUDED.posted_at, raw=EXCLUDED.raw, updated_at=EXCLUDED.updated_at`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for i := range posts {
		p := &posts[i]
		children, raw, mErr := encodePost(p)
		if mErr != nil {
			err = mErr
			return 0, err
		}
		if _, err = stmt.ExecContext(ctx, uuid.NewString(), competitorID, p.ExternalID, p.ShortCode, p.Type, p.Caption,
			p.URL, p.DisplayURL, p.VideoURL, p.LikesCount, p.CommentsCount, p.ViewsCount, children, p.PostedAt, raw, now); err != nil {
			return 0, err
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return len(posts), nil
}

func (r *CompetitorPostRepository) ListByCompetitor(ctx context.Context, competitorID string, limit int) ([]*model.CompetitorPost, error) {
	if r.db == nil {
		return nil, ErrNoDatabase
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, competitor_id, external_id, short_code, post_type, caption, url, display_url, video_url,
          likes_count, comments_count, views_count, child_items, posted_at, raw, created_at, updated_at
          FROM competitor_posts WHERE competitor_id=$1 ORDER BY posted_at DESC NULLS LAST, created_at DESC LIMIT $2`, competitorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.CompetitorPost, 0, limit)
	for rows.Next() {
		var p model.CompetitorPost
		var children, raw []byte
		if err := rows.Scan(&p.ID, &p.CompetitorID, &p.ExternalID, &p.ShortCode, &p.Type, &p.Caption, &p.URL, &p.DisplayURL,
			&p.VideoURL, &p.LikesCount, &p.CommentsCount, &p.ViewsCount, &children, &p.PostedAt, &raw, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if len(children) > 0 {
			if err := json.Unmarshal(children, &p.ChildItems); err != nil {
				return nil, err
			}
		}
		if len(raw) > 0 {
			p.Raw = json.RawMessage(raw)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func encodePost(p *model.InstagramPost) (children string, raw string, err error) {
	items := p.ChildItems
	if items == nil {
		items = []model.InstagramChildItem{}
	}
	c, err := json.Marshal(items)
	if err != nil {
		return "", "", err
	}
	src := p.Raw
	if src == nil {
		src = map[string]interface{}{}
	}
	r, err := json.Marshal(src)
	if err != nil {
		return "", "", err
	}
	return string(c), string(r), nil
}
