package handlers

import (
	"net/http"

	"petmily/middleware"
	"petmily/models"
	"petmily/services/walk"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusForError maps walk-engine error codes onto HTTP statuses. Opaque
// errors surface as 500 without leaking internals.
func statusForError(err error) int {
	switch walk.CodeOf(err) {
	case walk.CodeInvalidState:
		return http.StatusConflict
	case walk.CodeForbidden:
		return http.StatusForbidden
	case walk.CodePreconditionFailed:
		return http.StatusPreconditionFailed
	case walk.CodeImplausibleMovement:
		return http.StatusUnprocessableEntity
	case walk.CodeNotFound:
		return http.StatusNotFound
	case walk.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError is the single error exit for all walk/booking handlers.
func writeError(c *gin.Context, err error) {
	status := statusForError(err)
	code := walk.CodeOf(err)
	if status == http.StatusInternalServerError {
		getLogger(c).Error("request failed", zap.Error(err))
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

// requireActor pulls the authenticated actor from the context, aborting
// with 401 when the auth middleware did not run.
func requireActor(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return models.Actor{}, false
	}
	return actor, true
}
