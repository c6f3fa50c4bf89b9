package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"creator-os/domain/dto"
)

const InviteSecretHeader = "X-Invite-Secret"

// InviteSecret gates an endpoint behind a shared secret header. An unset secret rejects every request.
func InviteSecret(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		got := ctx.GetHeader(InviteSecretHeader)
		if secret == "" || got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.Res{ResponseCode: "401", ResponseMessage: "Unauthorized"})
			return
		}
		ctx.Next()
	}
}
