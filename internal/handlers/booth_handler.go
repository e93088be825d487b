package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jsjcard/eventhub/internal/directory"
	"github.com/jsjcard/eventhub/internal/helpers"
	"github.com/jsjcard/eventhub/internal/middleware"
	"github.com/jsjcard/eventhub/internal/models"
)

type BoothLookupRequest struct {
	Value string `json:"value" binding:"required"`
}

// LookupBoothParticipant resolves a participant by 16-digit card number or
// 10-digit mobile number and returns their registration for the booth's
// event.
func LookupBoothParticipant(c *gin.Context) {
	tempUser, ok := middleware.GetTempUser(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Booth authentication required.")
		return
	}

	var req BoothLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	kind, ok := helpers.ClassifyLookupValue(req.Value)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Provide a 16-digit card number or a 10-digit mobile number",
		})
		return
	}

	dir := middleware.GetDirectoryClient(c)
	if dir == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Directory client not found.")
		return
	}

	var member *directory.Member
	if kind == helpers.LookupByCard {
		cardNo, err := strconv.ParseInt(req.Value, 10, 64)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid card number.")
			return
		}
		member = dir.MemberByCard(cardNo)
	} else {
		member = dir.MemberByMobile(req.Value)
	}
	if member == nil {
		helpers.RespondSoftFail(c, "Member not found")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var registration models.Registration
	if err := gormDB.Where("event_id = ? AND member_card = ?", tempUser.EventID, member.CardNo).First(&registration).Error; err != nil {
		helpers.RespondSoftFail(c, "No registrations found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"member": gin.H{
			"mbrcardno":     member.CardNo,
			"full_name":     member.FullName,
			"email":         member.Email,
			"mobile_number": member.MobileNumber,
		},
		"data": registration,
	})
}

type BoothDecisionRequest struct {
	MemberCard int64  `json:"mbrcardno" binding:"required"`
	Decision   string `json:"decision" binding:"required"`
	Comment    string `json:"comment"`
}

// RecordBoothDecision stores the booth's verdict on a participant with a
// snapshot of their answer sections. One row per participant; re-submitting
// overwrites the earlier decision.
func RecordBoothDecision(c *gin.Context) {
	tempUser, ok := middleware.GetTempUser(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Booth authentication required.")
		return
	}

	var req BoothDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if !models.ValidBoothDecision(req.Decision) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid decision. Use 'hired', 'shortlisted' or 'rejected'.",
		})
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var registration models.Registration
	if err := gormDB.Where("event_id = ? AND member_card = ?", tempUser.EventID, req.MemberCard).First(&registration).Error; err != nil {
		helpers.RespondSoftFail(c, "User not registered for this event")
		return
	}

	snapshot, err := json.Marshal(registration.Sections())
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to snapshot participant data.")
		return
	}

	decision := models.BoothDecision{
		TempUserID:      tempUser.ID,
		EventID:         tempUser.EventID,
		ParticipantCard: req.MemberCard,
		Decision:        req.Decision,
		Comment:         req.Comment,
		Snapshot:        datatypes.JSON(snapshot),
	}

	err = gormDB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "temp_user_id"}, {Name: "participant_card"}},
		DoUpdates: clause.AssignmentColumns([]string{"decision", "comment", "snapshot", "updated_at"}),
	}).Create(&decision).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to record decision.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          "Decision recorded",
		"participant_card": req.MemberCard,
		"decision":         req.Decision,
	})
}

// ListBoothDecisions returns the booth's own decision log, latest first.
func ListBoothDecisions(c *gin.Context) {
	tempUser, ok := middleware.GetTempUser(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Booth authentication required.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var decisions []models.BoothDecision
	if err := gormDB.Where("temp_user_id = ?", tempUser.ID).Order("updated_at DESC").Find(&decisions).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving decisions.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": decisions})
}
