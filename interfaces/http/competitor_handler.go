package http

import (
	"errors"
	"net/http"
	"strconv"

	"creator-os/domain/dto"
	"creator-os/domain/repository"
	"creator-os/infrastructure/logger"
	"creator-os/usecase"

	"github.com/gin-gonic/gin"
)

type ICompetitorHandler interface {
	Analyze(ctx *gin.Context)
	List(ctx *gin.Context)
	Register(ctx *gin.Context)
	Get(ctx *gin.Context)
	Delete(ctx *gin.Context)
	Restore(ctx *gin.Context)
	Purge(ctx *gin.Context)
	Sync(ctx *gin.Context)
}

type CompetitorHandler struct {
	competitorUsecase usecase.ICompetitorUsecase
}

func NewCompetitorHandler(uc usecase.ICompetitorUsecase) ICompetitorHandler {
	return &CompetitorHandler{competitorUsecase: uc}
}

// Analyze runs a single profile or content sync for one competitor.
func (h *CompetitorHandler) Analyze(ctx *gin.Context) {
	var req dto.AnalyzeCompetitorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "message": err.Error()})
		return
	}
	res, err := h.competitorUsecase.Analyze(ctx.Request.Context(), ctx.GetString("user_id"), &req)
	if err != nil {
		writeError(ctx, err, http.StatusBadGateway)
		return
	}
	body := gin.H{"success": true, "action": res.Action, "data": res.Data, "count": res.Count}
	if res.Warning != "" {
		body["warning"] = res.Warning
	}
	ctx.JSON(http.StatusOK, body)
}

func (h *CompetitorHandler) List(ctx *gin.Context) {
	includeDeleted, _ := strconv.ParseBool(ctx.Query("include_deleted"))
	list, err := h.competitorUsecase.List(ctx.Request.Context(), ctx.GetString("user_id"), includeDeleted)
	if err != nil {
		writeError(ctx, err, http.StatusInternalServerError)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": list, "count": len(list)})
}

// Register creates the competitor, then runs the warm-up sync when asked to.
// A failed warm-up is reported next to the created row and never turns into an error status.
func (h *CompetitorHandler) Register(ctx *gin.Context) {
	var req dto.RegisterCompetitorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "message": err.Error()})
		return
	}
	userID := ctx.GetString("user_id")
	c, err := h.competitorUsecase.Register(ctx.Request.Context(), userID, &req)
	if err != nil {
		writeError(ctx, err, http.StatusInternalServerError)
		return
	}
	body := gin.H{"data": c}
	if req.Sync {
		warm := h.competitorUsecase.WarmUp(ctx.Request.Context(), userID, c.ID)
		if warm.Error != "" {
			logger.GetLogger().WithField("competitor_id", c.ID).WithField("error", warm.Error).Warn("warm-up sync failed")
		}
		body["warmup"] = warm
	}
	ctx.JSON(http.StatusCreated, body)
}

func (h *CompetitorHandler) Get(ctx *gin.Context) {
	c, posts, err := h.competitorUsecase.Get(ctx.Request.Context(), ctx.GetString("user_id"), ctx.Param("id"))
	if err != nil {
		writeError(ctx, err, http.StatusInternalServerError)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": c, "posts": posts})
}

func (h *CompetitorHandler) Delete(ctx *gin.Context) {
	if err := h.competitorUsecase.SoftDelete(ctx.Request.Context(), ctx.GetString("user_id"), ctx.Param("id")); err != nil {
		writeError(ctx, err, http.StatusInternalServerError)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *CompetitorHandler) Restore(ctx *gin.Context) {
	if err := h.competitorUsecase.Restore(ctx.Request.Context(), ctx.GetString("user_id"), ctx.Param("id")); err != nil {
		writeError(ctx, err, http.StatusInternalServerError)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *CompetitorHandler) Purge(ctx *gin.Context) {
	if err := h.competitorUsecase.Purge(ctx.Request.Context(), ctx.GetString("user_id"), ctx.Param("id")); err != nil {
		writeError(ctx, err, http.StatusInternalServerError)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// Sync refreshes a stored competitor: ?action=profile|content|all (default all).
func (h *CompetitorHandler) Sync(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	id := ctx.Param("id")
	action := ctx.DefaultQuery("action", dto.ActionAll)

	body := gin.H{"success": true, "action": action}
	switch action {
	case dto.ActionProfile, dto.ActionAll:
		profile, err := h.competitorUsecase.SyncProfile(ctx.Request.Context(), userID, id, "")
		if err != nil {
			writeError(ctx, err, http.StatusBadGateway)
			return
		}
		body["profile"] = profile
		if action == dto.ActionProfile {
			break
		}
		fallthrough
	case dto.ActionContent:
		posts, err := h.competitorUsecase.SyncPosts(ctx.Request.Context(), userID, id, "")
		if err != nil {
			writeError(ctx, err, http.StatusBadGateway)
			return
		}
		body["posts"] = posts
		body["count"] = len(posts)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid action", "message": "action must be profile, content or all"})
		return
	}
	ctx.JSON(http.StatusOK, body)
}

// writeError maps domain errors onto status codes; anything unknown gets fallback.
func writeError(ctx *gin.Context, err error, fallback int) {
	status := fallback
	label := "upstream failure"
	switch {
	case errors.Is(err, usecase.ErrValidation):
		status, label = http.StatusBadRequest, "invalid request"
	case errors.Is(err, repository.ErrCompetitorNotFound):
		status, label = http.StatusNotFound, "not found"
	case errors.Is(err, repository.ErrCompetitorExists):
		status, label = http.StatusConflict, "already exists"
	case errors.Is(err, usecase.ErrNoProfileData):
		status, label = http.StatusUnprocessableEntity, "no data"
	case fallback == http.StatusInternalServerError:
		label = "internal error"
	}
	message := err.Error()
	if status >= http.StatusInternalServerError {
		// Upstream and storage detail stays in the log.
		logger.GetLogger().WithField("path", ctx.FullPath()).WithField("error", message).Error("request failed")
		message = failureMessage(status)
	}
	ctx.JSON(status, gin.H{"error": label, "message": message})
}

func failureMessage(status int) string {
	if status == http.StatusBadGateway {
		return "the data provider could not complete the request, try again later"
	}
	return "the request could not be completed, try again later"
}
