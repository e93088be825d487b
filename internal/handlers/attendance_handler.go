package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jsjcard/eventhub/internal/helpers"
	"github.com/jsjcard/eventhub/internal/middleware"
	"github.com/jsjcard/eventhub/internal/models"
)

// Attendance is a one-way flag: once true, every writer gets the soft
// "already marked" outcome and state never changes. That makes marking safe
// to retry from any of the three paths at any time.

type SelfAttendanceRequest struct {
	EventID string `json:"event_id"`
}

// MarkSelfAttendance lets a member mark their own attendance. Every outcome,
// success or failure, is an HTTP 200 with a status flag.
func MarkSelfAttendance(c *gin.Context) {
	cardNo := c.MustGet("mbrcardno").(int64)

	var req SelfAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.EventID == "" {
		c.JSON(http.StatusOK, gin.H{
			"status":  false,
			"message": "Both mbrcardno and event_id are required",
		})
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", req.EventID).First(&event).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"status": false, "message": "Event not found"})
		return
	}

	var registration models.Registration
	if err := gormDB.Where("event_id = ? AND member_card = ?", event.ID, cardNo).First(&registration).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"status": false, "message": "Member is not registered for this event"})
		return
	}

	if registration.Attended {
		c.JSON(http.StatusOK, gin.H{"status": false, "message": "Attendance already marked"})
		return
	}

	registration.Attended = true
	if err := gormDB.Save(&registration).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to mark attendance.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Attendance marked successfully"})
}

type AttendanceRequest struct {
	MemberCard int64 `json:"mbrcardno"`
}

// MarkAttendance is the organizer path: the business supplies a card number,
// which is resolved through the member directory before the registration
// lookup.
func MarkAttendance(c *gin.Context) {
	var req AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	dir := middleware.GetDirectoryClient(c)
	if dir == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Directory client not found.")
		return
	}

	member := dir.MemberByCard(req.MemberCard)
	if member == nil {
		helpers.RespondSoftFail(c, "Member not found")
		return
	}

	var registration models.Registration
	if err := gormDB.Where("event_id = ? AND member_card = ?", c.Param("event_id"), member.CardNo).First(&registration).Error; err != nil {
		helpers.RespondSoftFail(c, "User not registered for this event")
		return
	}

	if registration.Attended {
		helpers.RespondSoftFail(c, "User already marked as attended")
		return
	}

	registration.Attended = true
	if err := gormDB.Save(&registration).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to mark attendance.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Attendance marked successfully"})
}

// MarkVolunteerAttendance is the volunteer path. The volunteer must be scoped
// to this event, and their own attendance log rejects a duplicate card as a
// second idempotence layer on top of the registration's flag.
func MarkVolunteerAttendance(c *gin.Context) {
	tempUser, ok := middleware.GetTempUser(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Volunteer authentication required.")
		return
	}

	if tempUser.EventID.String() != c.Param("event_id") {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "You are not assigned to this event",
		})
		return
	}

	var req AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	dir := middleware.GetDirectoryClient(c)
	if dir == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Directory client not found.")
		return
	}

	member := dir.MemberByCard(req.MemberCard)
	if member == nil {
		helpers.RespondSoftFail(c, "Member not found")
		return
	}

	var registration models.Registration
	if err := gormDB.Where("event_id = ? AND member_card = ?", tempUser.EventID, member.CardNo).First(&registration).Error; err != nil {
		helpers.RespondSoftFail(c, "User not registered for this event")
		return
	}

	if registration.Attended {
		helpers.RespondSoftFail(c, "User already marked as attended")
		return
	}

	registration.Attended = true
	if err := gormDB.Save(&registration).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to mark attendance.")
		return
	}

	entry := models.AttendanceLog{
		TempUserID: tempUser.ID,
		EventID:    tempUser.EventID,
		CardNo:     member.CardNo,
		MarkedAt:   time.Now(),
	}
	if err := gormDB.Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			helpers.RespondSoftFail(c, "Member already recorded by volunteer")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to record attendance log.")
		return
	}

	var totalMarked int64
	gormDB.Model(&models.AttendanceLog{}).Where("temp_user_id = ?", tempUser.ID).Count(&totalMarked)

	c.JSON(http.StatusOK, gin.H{
		"success":                     true,
		"message":                     "Attendance marked successfully",
		"cardno":                      member.CardNo,
		"marked_at":                   entry.MarkedAt,
		"total_attended_by_volunteer": totalMarked,
	})
}
