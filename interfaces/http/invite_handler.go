package http

import (
	"errors"
	"net/http"

	"creator-os/domain/dto"
	"creator-os/infrastructure/logger"
	"creator-os/usecase"

	"github.com/gin-gonic/gin"
)

type IInviteHandler interface {
	Invite(ctx *gin.Context)
}

type InviteHandler struct {
	inviteUsecase usecase.IInviteUsecase
}

func NewInviteHandler(uc usecase.IInviteUsecase) IInviteHandler {
	return &InviteHandler{inviteUsecase: uc}
}

func (h *InviteHandler) Invite(ctx *gin.Context) {
	var req dto.InviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "message": err.Error()})
		return
	}
	user, err := h.inviteUsecase.Invite(ctx.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrValidation) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
			return
		}
		logger.GetLogger().WithField("error", err.Error()).Error("invite failed")
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "upstream failure", "message": failureMessage(http.StatusBadGateway)})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}
