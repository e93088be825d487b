package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jsjcard/eventhub/internal/helpers"
	"github.com/jsjcard/eventhub/internal/models"
)

// TempUserAuthMiddleware authenticates booth/volunteer bearer tokens by row
// lookup. userType restricts the route to one role; expired tokens are
// rejected.
func TempUserAuthMiddleware(userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Authorization token required.")
			c.Abort()
			return
		}

		db, exists := c.Get("db")
		if !exists {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
			c.Abort()
			return
		}
		gormDB := db.(*gorm.DB)

		var tempUser models.TempUser
		if err := gormDB.Where("token = ?", tokenString).First(&tempUser).Error; err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid token.")
			c.Abort()
			return
		}

		if tempUser.Expired(time.Now()) {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Token expired.")
			c.Abort()
			return
		}

		if tempUser.UserType != userType {
			helpers.RespondWithError(c, http.StatusForbidden, "This action requires a "+userType+" account.")
			c.Abort()
			return
		}

		c.Set("temp_user", tempUser)
		c.Next()
	}
}

func GetTempUser(c *gin.Context) (models.TempUser, bool) {
	value, exists := c.Get("temp_user")
	if !exists {
		return models.TempUser{}, false
	}
	tempUser, ok := value.(models.TempUser)
	return tempUser, ok
}
