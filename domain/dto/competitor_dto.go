package dto

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	ActionProfile = "profile"
	ActionContent = "content"
	ActionAll     = "all"
)

// Res is the generic envelope used by middleware rejections.
type Res struct {
	ResponseCode    string      `json:"responseCode"`
	ResponseMessage string      `json:"responseMessage"`
	Data            interface{} `json:"data,omitempty"`
}

// AnalyzeCompetitorRequest is the body of POST /api/analyze-competitor.
type AnalyzeCompetitorRequest struct {
	CompetitorID string `json:"competitorId"`
	URL          string `json:"url"`
	Action       string `json:"action"`
}

func (r AnalyzeCompetitorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CompetitorID, validation.Required.Error("competitorId is required")),
		validation.Field(&r.URL, validation.Required.Error("url is required")),
		validation.Field(&r.Action,
			validation.Required.Error("action is required"),
			validation.In(ActionProfile, ActionContent).Error("action must be profile or content"),
		),
	)
}

// RegisterCompetitorRequest is the body of POST /api/competitors.
type RegisterCompetitorRequest struct {
	URL         string `json:"url"`
	DisplayName string `json:"displayName,omitempty"`
	// Sync requests an eager profile and posts fetch right after creation.
	Sync bool `json:"sync"`
}

func (r RegisterCompetitorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL, validation.Required.Error("url is required"), validation.Length(1, 512)),
		validation.Field(&r.DisplayName, validation.Length(0, 256)),
	)
}

// InviteRequest is the body of POST /api/invite.
type InviteRequest struct {
	Email      string `json:"email"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

func (r InviteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("email is required"), is.EmailFormat),
		validation.Field(&r.RedirectTo, is.URL),
	)
}

// SyncResult summarizes one sync call.
type SyncResult struct {
	Action  string      `json:"action"`
	Handle  string      `json:"handle"`
	Count   int         `json:"count"`
	Data    interface{} `json:"data"`
	Warning string      `json:"warning,omitempty"`
}

// WarmUpResult reports the optional post-registration sync separately from the registration outcome.
type WarmUpResult struct {
	Requested bool   `json:"requested"`
	Profile   bool   `json:"profile"`
	Posts     int    `json:"posts"`
	Error     string `json:"error,omitempty"`
}
