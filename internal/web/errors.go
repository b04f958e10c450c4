package web

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type errorResponse struct {
	Message string `json:"message"`
}

// HandleError aborts the request with a JSON message and logs err when present.
func HandleError(c *gin.Context, code int, message string, err error) {
	if err != nil {
		if logger, ok := c.Get("logger"); ok {
			logger.(*zerolog.Logger).
				Error().
				Err(err).
				Int("code", code).
				Msg(message)
		}
	}

	c.AbortWithStatusJSON(code, errorResponse{Message: message})
}
