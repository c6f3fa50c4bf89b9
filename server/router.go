package server

import (
	"time"

	httpHandler "creator-os/interfaces/http"
	"creator-os/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	AllowOrigins []string
	SecretKey    string
	InviteSecret string
}

func InitiateRouter(
	cfg RouterConfig,
	healthHandler httpHandler.IHealthHandler,
	competitorHandler httpHandler.ICompetitorHandler,
	inviteHandler httpHandler.IInviteHandler,
	stream gin.HandlerFunc,
) *gin.Engine {
	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.InviteSecretHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler.Healthz)

	api := router.Group("api")
	if inviteHandler != nil {
		api.POST("/invite", middleware.InviteSecret(cfg.InviteSecret), inviteHandler.Invite)
	}

	authed := api.Group("", middleware.Auth(cfg.SecretKey))
	if competitorHandler != nil {
		authed.POST("/analyze-competitor", competitorHandler.Analyze)

		competitors := authed.Group("/competitors")
		{
			competitors.GET("", competitorHandler.List)
			competitors.POST("", competitorHandler.Register)
			if stream != nil {
				competitors.GET("/stream", stream)
			}
			competitors.GET("/:id", competitorHandler.Get)
			competitors.DELETE("/:id", competitorHandler.Delete)
			competitors.POST("/:id/restore", competitorHandler.Restore)
			competitors.DELETE("/:id/purge", competitorHandler.Purge)
			competitors.POST("/:id/sync", competitorHandler.Sync)
		}
	}

	return router
}
