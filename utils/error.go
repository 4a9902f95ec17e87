package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the JSON error body for every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler recovers from handler panics and converts them into a 500
// response, so a bug in one booking or payment request never takes the
// process down.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				GetLogger().Error("Unhandled panic",
					zap.Any("error", r),
					zap.String("path", c.FullPath()),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError writes a standardized error response and logs it with the
// status code so failed requests are traceable without the client payload.
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message,
		zap.Int("status", status),
		zap.String("details", details),
	)
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}
