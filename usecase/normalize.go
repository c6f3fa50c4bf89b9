package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"creator-os/domain/handle"
	"creator-os/domain/model"
)

// MaxPostsPerSync bounds how many normalized posts a single sync keeps.
const MaxPostsPerSync = 20

// ErrNoProfileData is returned when a profile dataset holds no items at all.
var ErrNoProfileData = errors.New("no profile data found")

// Candidate source keys per normalized field, highest priority first.
// A key may be a dotted path into nested objects.
var profileFields = map[string][]string{
	"id":          {"id", "pk", "userId"},
	"username":    {"username", "ownerUsername", "handle"},
	"fullName":    {"fullName", "full_name", "name"},
	"biography":   {"biography", "bio"},
	"followers":   {"followersCount", "followers", "followedByCount", "edge_followed_by.count"},
	"following":   {"followsCount", "following", "followingCount", "edge_follow.count"},
	"postsCount":  {"postsCount", "mediaCount", "posts_count", "edge_owner_to_timeline_media.count"},
	"verified":    {"verified", "isVerified", "is_verified"},
	"private":     {"private", "isPrivate", "is_private"},
	"business":    {"isBusinessAccount", "is_business_account", "businessAccount"},
	"profilePic":  {"profilePicUrlHD", "profilePicUrl", "profile_pic_url_hd", "profile_pic_url"},
	"externalUrl": {"externalUrl", "external_url", "website"},
	"url":         {"url", "inputUrl"},
}

var postFields = map[string][]string{
	"id":        {"id", "pk", "shortCode", "shortcode", "code"},
	"shortCode": {"shortCode", "shortcode", "code"},
	"owner":     {"ownerUsername", "owner.username", "username"},
	"type":      {"type", "productType", "__typename", "media_type"},
	"caption":   {"caption", "text", "edge_media_to_caption.edges.0.node.text"},
	"url":       {"url", "postUrl", "permalink"},
	"display":   {"displayUrl", "display_url", "thumbnailUrl", "imageUrl", "thumbnail_src"},
	"video":     {"videoUrl", "video_url"},
	"likes":     {"likesCount", "likes", "likeCount", "edge_liked_by.count", "edge_media_preview_like.count"},
	"comments":  {"commentsCount", "comments", "commentCount", "edge_media_to_comment.count"},
	"views":     {"videoViewCount", "videoPlayCount", "viewsCount", "views", "playCount", "video_view_count"},
	"timestamp": {"timestamp", "takenAt", "taken_at_timestamp", "taken_at"},
	"children":  {"childPosts", "children", "sidecarChildren", "edge_sidecar_to_children.edges"},
}

var childFields = map[string][]string{
	"id":      {"id", "pk", "node.id"},
	"type":    {"type", "__typename", "node.__typename"},
	"display": {"displayUrl", "display_url", "imageUrl", "node.display_url"},
	"video":   {"videoUrl", "video_url", "node.video_url"},
}

// SelectProfile picks the dataset item belonging to h, falling back to the first item.
func SelectProfile(items []model.DatasetItem, h string) (model.DatasetItem, error) {
	if len(items) == 0 {
		return nil, ErrNoProfileData
	}
	for _, item := range items {
		for _, key := range []string{"username", "ownerUsername"} {
			if v, ok := lookupString(item, key); ok && handle.Equal(v, h) {
				return item, nil
			}
		}
	}
	return items[0], nil
}

// NormalizeProfile maps a raw profile item onto the normalized schema.
func NormalizeProfile(item model.DatasetItem, h string) *model.InstagramProfile {
	p := &model.InstagramProfile{
		ID:             stringField(item, profileFields["id"]),
		Username:       strings.ToLower(stringField(item, profileFields["username"])),
		FullName:       stringField(item, profileFields["fullName"]),
		Biography:      stringField(item, profileFields["biography"]),
		FollowersCount: intField(item, profileFields["followers"]),
		FollowingCount: intField(item, profileFields["following"]),
		PostsCount:     intField(item, profileFields["postsCount"]),
		IsVerified:     boolField(item, profileFields["verified"]),
		IsPrivate:      boolField(item, profileFields["private"]),
		IsBusiness:     boolField(item, profileFields["business"]),
		ProfilePicURL:  stringField(item, profileFields["profilePic"]),
		ExternalURL:    stringField(item, profileFields["externalUrl"]),
		ProfileURL:     stringField(item, profileFields["url"]),
	}
	if p.Username == "" {
		p.Username = h
	}
	if p.ProfileURL == "" {
		p.ProfileURL = handle.ProfileURL(p.Username)
	}
	return p
}

// NormalizePosts keeps items owned by h, maps them and truncates to limit.
// Items that carry no owner field are attributed to h; items without any id are dropped.
func NormalizePosts(items []model.DatasetItem, h string, limit int) []model.InstagramPost {
	if limit <= 0 || limit > MaxPostsPerSync {
		limit = MaxPostsPerSync
	}
	out := make([]model.InstagramPost, 0, limit)
	for _, item := range items {
		if len(out) == limit {
			break
		}
		if owner, ok := firstNonNull(item, postFields["owner"]); ok {
			if s, _ := owner.(string); !handle.Equal(s, h) {
				continue
			}
		}
		post := NormalizePost(item)
		if post.ExternalID == "" {
			continue
		}
		out = append(out, post)
	}
	return out
}

// NormalizePost maps one raw content item onto the normalized schema.
func NormalizePost(item model.DatasetItem) model.InstagramPost {
	p := model.InstagramPost{
		ExternalID:    stringField(item, postFields["id"]),
		ShortCode:     stringField(item, postFields["shortCode"]),
		OwnerUsername: strings.ToLower(stringField(item, postFields["owner"])),
		Caption:       stringField(item, postFields["caption"]),
		URL:           stringField(item, postFields["url"]),
		DisplayURL:    stringField(item, postFields["display"]),
		VideoURL:      stringField(item, postFields["video"]),
		LikesCount:    intField(item, postFields["likes"]),
		CommentsCount: intField(item, postFields["comments"]),
		ViewsCount:    intField(item, postFields["views"]),
		PostedAt:      timeField(item, postFields["timestamp"]),
		Raw:           item,
	}
	if children, ok := firstNonNull(item, postFields["children"]); ok {
		if list, ok := children.([]interface{}); ok {
			for _, c := range list {
				if m, ok := c.(map[string]interface{}); ok {
					p.ChildItems = append(p.ChildItems, normalizeChild(m))
				}
			}
		}
	}
	p.Type = postType(stringField(item, postFields["type"]), p)
	if p.URL == "" && p.ShortCode != "" {
		p.URL = "https://www.instagram.com/p/" + p.ShortCode + "/"
	}
	return p
}

func normalizeChild(item map[string]interface{}) model.InstagramChildItem {
	c := model.InstagramChildItem{
		ID:         stringField(item, childFields["id"]),
		DisplayURL: stringField(item, childFields["display"]),
		VideoURL:   stringField(item, childFields["video"]),
	}
	c.Type = mediaKind(stringField(item, childFields["type"]))
	if c.Type == "" {
		c.Type = model.PostTypeImage
		if c.VideoURL != "" {
			c.Type = model.PostTypeVideo
		}
	}
	return c
}

func postType(raw string, p model.InstagramPost) string {
	if kind := mediaKind(raw); kind != "" {
		return kind
	}
	switch {
	case len(p.ChildItems) > 0:
		return model.PostTypeCarousel
	case p.VideoURL != "":
		return model.PostTypeVideo
	}
	return model.PostTypeImage
}

func mediaKind(raw string) string {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(raw, "Graph"), "graph")) {
	case "sidecar", "carousel", "carousel_album", "8":
		return model.PostTypeCarousel
	case "video", "clips", "reel", "igtv", "2":
		return model.PostTypeVideo
	case "image", "photo", "1":
		return model.PostTypeImage
	}
	return ""
}

// firstNonNull returns the value of the first candidate key present with a non-null value.
func firstNonNull(item map[string]interface{}, keys []string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := lookup(item, k); ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func lookup(item map[string]interface{}, path string) (interface{}, bool) {
	var cur interface{} = item
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			v, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = v
		case []interface{}:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

func lookupString(item map[string]interface{}, key string) (string, bool) {
	v, ok := lookup(item, key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func stringField(item map[string]interface{}, keys []string) string {
	v, ok := firstNonNull(item, keys)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

func intField(item map[string]interface{}, keys []string) *int64 {
	v, ok := firstNonNull(item, keys)
	if !ok {
		return nil
	}
	var n int64
	switch t := v.(type) {
	case float64:
		n = int64(t)
	case int64:
		n = t
	case int:
		n = int64(t)
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			f, ferr := t.Float64()
			if ferr != nil {
				return nil
			}
			i = int64(f)
		}
		n = i
	case string:
		i, err := strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(t), ",", ""), 10, 64)
		if err != nil {
			return nil
		}
		n = i
	default:
		return nil
	}
	return &n
}

func boolField(item map[string]interface{}, keys []string) bool {
	v, ok := firstNonNull(item, keys)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(t)
		return b
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case float64:
		return t != 0
	}
	return false
}

func timeField(item map[string]interface{}, keys []string) *time.Time {
	v, ok := firstNonNull(item, keys)
	if !ok {
		return nil
	}
	var ts time.Time
	switch t := v.(type) {
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			f, perr := strconv.ParseFloat(strings.TrimSpace(t), 64)
			if perr != nil {
				return nil
			}
			parsed = epoch(f)
		}
		ts = parsed
	case float64:
		ts = epoch(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil
		}
		ts = epoch(f)
	default:
		return nil
	}
	ts = ts.UTC()
	return &ts
}

// epoch reads v as unix seconds, or as milliseconds when it is too large to be seconds.
func epoch(v float64) time.Time {
	if v >= 1e12 {
		return time.UnixMilli(int64(v))
	}
	sec := math.Floor(v)
	return time.Unix(int64(sec), int64((v-sec)*1e9))
}
