package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const SessionHeader = "X-Session-ID"

// SessionMiddleware extracts the opaque buyer session key issued by the
// auth layer in front of this service. The core never authenticates, it
// only requires that some session identity is present.
func SessionMiddleware(ctx *gin.Context) {
	sessionID := ctx.Request.Header.Get(SessionHeader)
	if sessionID == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session id"})
		return
	}
	ctx.Set("session_id", sessionID)
}
