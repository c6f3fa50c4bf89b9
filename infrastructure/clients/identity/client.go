// Package identity talks to the hosted identity provider's admin API.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"

	"creator-os/domain/model"
)

type Client struct {
	http *resty.Client
}

type inviteBody struct {
	Email string `json:"email"`
}

type errorBody struct {
	Code    int    `json:"code"`
	Msg     string `json:"msg"`
	Message string `json:"message"`
	Error   string `json:"error_description"`
}

// NewClient authenticates every call with serviceKey, both as bearer token and apikey header.
func NewClient(baseURL, serviceKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: serviceKey, TokenType: "Bearer"})
	httpClient := oauth2.NewClient(context.Background(), ts)
	return &Client{
		http: resty.NewWithClient(httpClient).
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("apikey", serviceKey).
			SetHeader("Accept", "application/json"),
	}
}

// InviteUserByEmail sends an invitation mail. redirectTo is optional.
func (c *Client) InviteUserByEmail(ctx context.Context, email, redirectTo string) (*model.InvitedUser, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(inviteBody{Email: email})
	if redirectTo != "" {
		req.SetQueryParam("redirect_to", redirectTo)
	}
	resp, err := req.Post("/auth/v1/invite")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		var eb errorBody
		_ = json.Unmarshal(resp.Body(), &eb)
		msg := firstNonEmpty(eb.Msg, eb.Message, eb.Error, resp.Status())
		return nil, fmt.Errorf("identity provider returned %d: %s", resp.StatusCode(), msg)
	}
	var user model.InvitedUser
	if err := json.Unmarshal(resp.Body(), &user); err != nil {
		return nil, fmt.Errorf("decode invited user: %w", err)
	}
	return &user, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
