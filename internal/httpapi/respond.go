package httpapi

import (
	"pizzeria-backend/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperr.KindOf(err).Status(), gin.H{"message": apperr.PublicMessage(err)})
}

// fail writes the error envelope; server-side failures are logged with their cause.
func fail(c *gin.Context, logger *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	if kind.Status() >= 500 {
		logger.Error("request failed",
			zap.String("kind", kind.String()),
			zap.String("request_id", c.GetString(ctxRequestID)),
			zap.Error(err),
		)
	}
	abort(c, err)
}

func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}
