package helpers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: customMessage,
	})
}

// RespondSoftFail is the HTTP-200-with-false-status outcome many endpoints
// use for business-rule misses (not found, already registered, already
// marked). Clients key off the flag, not the status code.
func RespondSoftFail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": false,
		"message": message,
	})
}
