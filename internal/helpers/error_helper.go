package helpers

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON error shape for every failed request. Details
// carries internal error text and is only populated outside release mode.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func RespondWithError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: message})
}

// RespondWithInternalError hides the underlying error behind a generic
// message, exposing it via Details only in debug/test mode.
func RespondWithInternalError(c *gin.Context, statusCode int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if gin.Mode() != gin.ReleaseMode && err != nil {
		resp.Details = err.Error()
	}
	c.AbortWithStatusJSON(statusCode, resp)
}
