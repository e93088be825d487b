package handlers

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jsjcard/eventhub/internal/helpers"
	"github.com/jsjcard/eventhub/internal/middleware"
	"github.com/jsjcard/eventhub/internal/models"
)

type TempUserRequest struct {
	Event        string `json:"event" binding:"required"`
	FullName     string `json:"full_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	MobileNumber string `json:"mobile_number"`
	UserType     string `json:"user_type" binding:"required,oneof=booth volunteer"`
}

// CreateTempUser mints a one-hour booth/volunteer token for one event. An
// unexpired row for the same (event, email, type) blocks reissue with a 400;
// an expired one is purged and replaced.
func CreateTempUser(c *gin.Context) {
	var req TempUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	eventID, err := uuid.Parse(req.Event)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event id.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found")
		return
	}

	var existing models.TempUser
	err = gormDB.Where("event_id = ? AND email = ? AND user_type = ?", eventID, req.Email, req.UserType).First(&existing).Error
	if err == nil {
		if !existing.Expired(time.Now()) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Temp user with this email and type '" + req.UserType + "' already exists.",
			})
			return
		}
		gormDB.Delete(&existing)
	}

	token, err := helpers.GenerateTempToken()
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	tempUser := models.TempUser{
		EventID:      eventID,
		FullName:     req.FullName,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		UserType:     req.UserType,
		Token:        token,
		ExpiresAt:    time.Now().Add(time.Hour),
	}

	if err := gormDB.Create(&tempUser).Error; err != nil {
		// The unique index is the authoritative duplicate check; a losing
		// concurrent create lands here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Temp user with this email and type '" + req.UserType + "' already exists.",
			})
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create temp user.")
		return
	}

	loginURL := helpers.TempLoginURL(os.Getenv("SITE_URL"), tempUser.UserType, tempUser.Token, eventID.String())

	if m := middleware.GetMailer(c); m != nil {
		go m.SendTempUserEmail(tempUser.Email, tempUser.FullName, tempUser.UserType, loginURL, tempUser.ExpiresAt)
	}

	c.JSON(http.StatusCreated, gin.H{
		"login_url": loginURL,
		"user_type": tempUser.UserType,
	})
}

// GetTempUserLogin is the validity probe behind the mailed login link.
func GetTempUserLogin(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var tempUser models.TempUser
	if err := gormDB.Where("token = ?", c.Param("token")).First(&tempUser).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
		return
	}

	if tempUser.Expired(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token expired"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"full_name":   tempUser.FullName,
		"email":       tempUser.Email,
		"user_type":   tempUser.UserType,
		"token_valid": true,
	})
}

type TempUserLoginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// TempUserLogin redeems the token. The presented email must match the
// issuing email, case-insensitively; the same bearer token is returned for
// subsequent booth/volunteer calls (it never rotates).
func TempUserLogin(c *gin.Context) {
	var req TempUserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"email": "A valid email is required."})
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var tempUser models.TempUser
	if err := gormDB.Where("token = ?", c.Param("token")).First(&tempUser).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
		return
	}

	if tempUser.Expired(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token expired"})
		return
	}

	if !strings.EqualFold(tempUser.Email, req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email does not match"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"full_name":     tempUser.FullName,
			"email":         tempUser.Email,
			"mobile_number": tempUser.MobileNumber,
			"user_type":     tempUser.UserType,
		},
		"token":      tempUser.Token,
		"expires_at": tempUser.ExpiresAt,
	})
}
