package model

import (
	"encoding/json"
	"time"
)

const (
	CompetitorStatusManual  = "manual"
	CompetitorStatusActive  = "active"
	CompetitorStatusPending = "pending"
)

const (
	PostTypeImage    = "image"
	PostTypeVideo    = "video"
	PostTypeCarousel = "carousel"
)

// Competitor is an external account tracked by a user.
type Competitor struct {
	ID                 string         `json:"id"`
	UserID             string         `json:"user_id"`
	Handle             string         `json:"handle"`
	DisplayName        *string        `json:"display_name,omitempty"`
	ProfileURL         string         `json:"profile_url"`
	FollowersCount     *int64         `json:"followers_count,omitempty"`
	FollowingCount     *int64         `json:"following_count,omitempty"`
	PostsCount         *int64         `json:"posts_count,omitempty"`
	IsVerified         bool           `json:"is_verified"`
	Biography          *string        `json:"biography,omitempty"`
	Data               CompetitorData `json:"data"`
	LastFetchedAt      *time.Time     `json:"last_fetched_at,omitempty"`
	LastPostsFetchedAt *time.Time     `json:"last_posts_fetched_at,omitempty"`
	Status             string         `json:"status"`
	DeletedAt          *time.Time     `json:"deleted_at,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// CompetitorData is the JSONB document kept on the competitor row.
// Profile and Posts are written independently of each other.
type CompetitorData struct {
	Profile *InstagramProfile `json:"profile,omitempty"`
	Posts   []InstagramPost   `json:"posts,omitempty"`
}

// InstagramProfile is the normalized shape of a scraped profile item.
type InstagramProfile struct {
	ID             string `json:"id,omitempty"`
	Username       string `json:"username"`
	FullName       string `json:"full_name,omitempty"`
	Biography      string `json:"biography,omitempty"`
	FollowersCount *int64 `json:"followers_count,omitempty"`
	FollowingCount *int64 `json:"following_count,omitempty"`
	PostsCount     *int64 `json:"posts_count,omitempty"`
	IsVerified     bool   `json:"is_verified"`
	IsPrivate      bool   `json:"is_private"`
	IsBusiness     bool   `json:"is_business"`
	ProfilePicURL  string `json:"profile_pic_url,omitempty"`
	ExternalURL    string `json:"external_url,omitempty"`
	ProfileURL     string `json:"profile_url,omitempty"`
}

// InstagramPost is the normalized shape of a scraped content item.
type InstagramPost struct {
	ExternalID    string               `json:"external_id"`
	ShortCode     string               `json:"short_code,omitempty"`
	OwnerUsername string               `json:"owner_username,omitempty"`
	Type          string               `json:"type"`
	Caption       string               `json:"caption,omitempty"`
	URL           string               `json:"url,omitempty"`
	DisplayURL    string               `json:"display_url,omitempty"`
	VideoURL      string               `json:"video_url,omitempty"`
	LikesCount    *int64               `json:"likes_count,omitempty"`
	CommentsCount *int64               `json:"comments_count,omitempty"`
	ViewsCount    *int64               `json:"views_count,omitempty"`
	ChildItems    []InstagramChildItem `json:"child_items,omitempty"`
	PostedAt      *time.Time           `json:"posted_at,omitempty"`

	// Raw is the untouched source item, persisted only on the post row.
	Raw map[string]interface{} `json:"-"`
}

// InstagramChildItem is one slide of a carousel post.
type InstagramChildItem struct {
	ID         string `json:"id,omitempty"`
	Type       string `json:"type"`
	DisplayURL string `json:"display_url,omitempty"`
	VideoURL   string `json:"video_url,omitempty"`
}

// CompetitorPost is one stored content record, unique per (CompetitorID, ExternalID).
type CompetitorPost struct {
	ID            string               `json:"id"`
	CompetitorID  string               `json:"competitor_id"`
	ExternalID    string               `json:"external_id"`
	ShortCode     string               `json:"short_code,omitempty"`
	Type          string               `json:"type"`
	Caption       string               `json:"caption,omitempty"`
	URL           string               `json:"url,omitempty"`
	DisplayURL    string               `json:"display_url,omitempty"`
	VideoURL      string               `json:"video_url,omitempty"`
	LikesCount    *int64               `json:"likes_count,omitempty"`
	CommentsCount *int64               `json:"comments_count,omitempty"`
	ViewsCount    *int64               `json:"views_count,omitempty"`
	ChildItems    []InstagramChildItem `json:"child_items"`
	PostedAt      *time.Time           `json:"posted_at,omitempty"`
	Raw           json.RawMessage      `json:"raw,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}
