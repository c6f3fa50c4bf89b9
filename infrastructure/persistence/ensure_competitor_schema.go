package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"creator-os/infrastructure/logger"
)

// EnsureCompetitorSchema creates the competitor tables if missing and adds newer columns.
// Safe to call at startup.
func EnsureCompetitorSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tables := []string{
		`CREATE TABLE IF NOT EXISTS competitors (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        handle TEXT NOT NULL,
        display_name TEXT,
        profile_url TEXT NOT NULL DEFAULT '',
        followers_count BIGINT,
        following_count BIGINT,
        posts_count BIGINT,
        is_verified BOOLEAN NOT NULL DEFAULT FALSE,
        biography TEXT,
        data JSONB NOT NULL DEFAULT '{}'::jsonb,
        last_fetched_at TIMESTAMPTZ,
        status TEXT NOT NULL DEFAULT 'manual',
        deleted_at TIMESTAMPTZ,
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL,
        CONSTRAINT competitors_user_handle_key UNIQUE (user_id, handle)
    )`,
		`CREATE TABLE IF NOT EXISTS competitor_posts (
        id TEXT PRIMARY KEY,
        competitor_id TEXT NOT NULL REFERENCES competitors(id) ON DELETE CASCADE,
        external_id TEXT NOT NULL,
        short_code TEXT NOT NULL DEFAULT '',
        post_type TEXT NOT NULL,
        caption TEXT NOT NULL DEFAULT '',
        url TEXT NOT NULL DEFAULT '',
        display_url TEXT NOT NULL DEFAULT '',
        video_url TEXT NOT NULL DEFAULT '',
        likes_count BIGINT,
        comments_count BIGINT,
        views_count BIGINT,
        child_items JSONB NOT NULL DEFAULT '[]'::jsonb,
        posted_at TIMESTAMPTZ,
        raw JSONB NOT NULL DEFAULT '{}'::jsonb,
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL,
        CONSTRAINT competitor_posts_competitor_external_key UNIQUE (competitor_id, external_id)
    )`,
	}
	for _, ddl := range tables {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create competitor schema: %w", err)
		}
	}

	checks := []struct {
		table  string
		column string
		ddl    string
	}{
		{"competitors", "last_posts_fetched_at", "ALTER TABLE competitors ADD COLUMN last_posts_fetched_at TIMESTAMPTZ"},
	}
	for _, c := range checks {
		exists, err := columnExists(ctx, db, c.table, c.column)
		if err != nil {
			return err
		}
		if !exists {
			if _, err := db.ExecContext(ctx, c.ddl); err != nil {
				return fmt.Errorf("adding column %s.%s failed: %w", c.table, c.column, err)
			}
		}
	}

	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_competitors_status ON competitors(status) WHERE deleted_at IS NULL`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_competitors_status")
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_competitor_posts_posted_at ON competitor_posts(competitor_id, posted_at DESC)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_competitor_posts_posted_at")
	}
	return nil
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	row := db.QueryRowContext(ctx, `SELECT 1 FROM information_schema.columns WHERE table_name=$1 AND column_name=$2`, table, column)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
