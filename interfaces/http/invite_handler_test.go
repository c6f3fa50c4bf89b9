package http_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"creator-os/domain/dto"
	"creator-os/domain/model"
	httpHandler "creator-os/interfaces/http"
	"creator-os/usecase"
)

func inviteRouter(uc usecase.IInviteUsecase) *gin.Engine {
	r := gin.New()
	r.POST("/api/invite", httpHandler.NewInviteHandler(uc).Invite)
	return r
}

func TestInvite_Success(t *testing.T) {
	uc := new(MockInviteUsecase)
	uc.On("Invite", mock.Anything, &dto.InviteRequest{Email: "a@example.com"}).Return(&model.InvitedUser{ID: "u1", Email: "a@example.com"}, nil)

	w, body := do(inviteRouter(uc), http.MethodPost, "/api/invite", `{"email":"a@example.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	uc.AssertExpectations(t)
}

func TestInvite_Errors(t *testing.T) {
	cases := map[error]int{
		fmt.Errorf("%w: must be a valid email address", usecase.ErrValidation): http.StatusBadRequest,
		errors.New("failed to invite user: identity provider returned 500"):     http.StatusBadGateway,
	}
	for err, want := range cases {
		uc := new(MockInviteUsecase)
		uc.On("Invite", mock.Anything, mock.Anything).Return(nil, err)

		w, body := do(inviteRouter(uc), http.MethodPost, "/api/invite", `{"email":"x"}`)
		assert.Equal(t, want, w.Code)
		if want == http.StatusBadRequest {
			assert.Equal(t, err.Error(), body["message"])
		} else {
			assert.NotContains(t, body["message"], "identity provider returned 500")
		}
	}
}

func TestHealthz(t *testing.T) {
	for _, tc := range []struct {
		db   httpHandler.Pinger
		want int
	}{
		{nil, http.StatusOK},
		{stubPinger{}, http.StatusOK},
		{stubPinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable},
	} {
		r := gin.New()
		r.GET("/healthz", httpHandler.NewHealthHandler(tc.db).Healthz)
		w, _ := do(r, http.MethodGet, "/healthz", "")
		assert.Equal(t, tc.want, w.Code)
	}
}
