package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jsjcard/eventhub/internal/forms"
	"github.com/jsjcard/eventhub/internal/helpers"
	"github.com/jsjcard/eventhub/internal/middleware"
	"github.com/jsjcard/eventhub/internal/models"
)

// RegistrationRequest carries the seven answer sections. Keys mirror the form
// the client was served; values are {field_id: {label, value, ...}} maps.
type RegistrationRequest struct {
	BasicInformation            map[string]interface{} `json:"basicInformation"`
	CareerObjectivesPreferences map[string]interface{} `json:"CareerObjectivesPreferences"`
	EducationDetails            map[string]interface{} `json:"EducationDetails"`
	WorkExperience              map[string]interface{} `json:"WorkExperience"`
	SkillsCompetencies          map[string]interface{} `json:"SkillsCompetencies"`
	AchievementsExtracurricular map[string]interface{} `json:"AchievementsExtracurricular"`
	OtherDetails                map[string]interface{} `json:"OtherDetails"`
}

func (req *RegistrationRequest) sections() map[string]map[string]interface{} {
	return map[string]map[string]interface{}{
		"basicInformation":            req.BasicInformation,
		"CareerObjectivesPreferences": req.CareerObjectivesPreferences,
		"EducationDetails":            req.EducationDetails,
		"WorkExperience":              req.WorkExperience,
		"SkillsCompetencies":          req.SkillsCompetencies,
		"AchievementsExtracurricular": req.AchievementsExtracurricular,
		"OtherDetails":                req.OtherDetails,
	}
}

func orEmpty(section map[string]interface{}) datatypes.JSONMap {
	if section == nil {
		return datatypes.JSONMap{}
	}
	return datatypes.JSONMap(section)
}

// stringValue digs {field: {"value": ...}} out of a section.
func stringValue(section map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		entry, ok := section[key].(map[string]interface{})
		if !ok {
			continue
		}
		if value, ok := entry["value"].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

// RegisterForEvent registers the calling member. Submitted field_ids are
// validated against the event's frozen form snapshot, and the composite
// unique index makes the duplicate check race-free: a second insert for the
// same (event, member) comes back as a duplicated-key error, answered with
// the soft "already registered" outcome.
func RegisterForEvent(c *gin.Context) {
	cardNo := c.MustGet("mbrcardno").(int64)

	var req RegistrationRequest
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

	var event models.Event
	if err := gormDB.Where("id = ?", c.Param("event_id")).First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Event not found"})
		return
	}

	if errs := forms.ValidateAnswers(event.RegistrationForm, req.sections()); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": errs})
		return
	}

	registration := models.Registration{
		EventID:      event.ID,
		MemberCard:   cardNo,
		BasicInfo:    orEmpty(req.BasicInformation),
		CareerObj:    orEmpty(req.CareerObjectivesPreferences),
		Education:    orEmpty(req.EducationDetails),
		WorkExp:      orEmpty(req.WorkExperience),
		Skills:       orEmpty(req.SkillsCompetencies),
		Achievements: orEmpty(req.AchievementsExtracurricular),
		OtherDetails: orEmpty(req.OtherDetails),
		Registered:   true,
	}
	registration.Data = datatypes.JSONMap{
		"BasicInformation":            map[string]interface{}(registration.BasicInfo),
		"CareerObjectivesPreferences": map[string]interface{}(registration.CareerObj),
		"EducationDetails":            map[string]interface{}(registration.Education),
		"WorkExperience":              map[string]interface{}(registration.WorkExp),
		"SkillsCompetencies":          map[string]interface{}(registration.Skills),
		"AchievementsExtracurricular": map[string]interface{}(registration.Achievements),
		"OtherDetails":                map[string]interface{}(registration.OtherDetails),
	}

	if err := gormDB.Create(&registration).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusOK, gin.H{
				"success":         false,
				"message":         "Member already registered for this event",
				"EventRegistered": true,
			})
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to register for event.")
		return
	}

	// Confirmation email is best-effort; the registration already succeeded.
	if m := middleware.GetMailer(c); m != nil {
		memberEmail := stringValue(req.BasicInformation, "email")
		memberName := stringValue(req.BasicInformation, "full_name", "name")
		if memberEmail == "" {
			if dir := middleware.GetDirectoryClient(c); dir != nil {
				if member := dir.MemberByCard(cardNo); member != nil {
					memberEmail = member.Email
					if memberName == "" {
						memberName = member.FullName
					}
				}
			}
		}
		if memberEmail != "" {
			go m.SendRegistrationEmail(memberEmail, memberName, event.Title, event.StartDate, event.Location)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"EventRegistered": true,
		"success":         true,
		"message":         "Registration successful",
		"data":            registration,
	})
}

// GetMyRegistration returns the caller's own answers, each section flattened
// to {field_id: {label, value}}. A missing registration is informational, not
// a 404.
func GetMyRegistration(c *gin.Context) {
	cardNo := c.MustGet("mbrcardno").(int64)

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", c.Param("event_id")).First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Event not found"})
		return
	}

	var registration models.Registration
	if err := gormDB.Where("event_id = ? AND member_card = ?", event.ID, cardNo).First(&registration).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "No registration found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Registration data fetched",
		"data": gin.H{
			"event":                       event.Title,
			"event_id":                    event.ID,
			"BasicInformation":            forms.FlattenSection(registration.BasicInfo),
			"CareerObjectivesPreferences": forms.FlattenSection(registration.CareerObj),
			"EducationDetails":            forms.FlattenSection(registration.Education),
			"WorkExperience":              forms.FlattenSection(registration.WorkExp),
			"SkillsCompetencies":          forms.FlattenSection(registration.Skills),
			"AchievementsExtracurricular": forms.FlattenSection(registration.Achievements),
			"OtherDetails":                forms.FlattenSection(registration.OtherDetails),
			"EventAttended":               registration.Attended,
			"registered_at":               registration.CreatedAt,
			"EventRegistered":             true,
		},
	})
}

func paginationParams(c *gin.Context, defaultLimit int) (int, int, bool) {
	pageNum, err := helpers.StringToInt(c.DefaultQuery("page", "1"))
	if err != nil || pageNum < 1 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return 0, 0, false
	}
	limitNum, err := helpers.StringToInt(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limitNum < 1 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return 0, 0, false
	}
	return pageNum, limitNum, true
}

func listEventRegistrations(c *gin.Context, attendedFilter *bool, message string) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	event, ok := findEvent(c, gormDB, c.Param("event_id"))
	if !ok {
		return
	}

	pageNum, limitNum, ok := paginationParams(c, 20)
	if !ok {
		return
	}

	var totalCount, attendedCount int64
	gormDB.Model(&models.Registration{}).Where("event_id = ?", event.ID).Count(&totalCount)
	gormDB.Model(&models.Registration{}).Where("event_id = ? AND attended = ?", event.ID, true).Count(&attendedCount)

	query := gormDB.Model(&models.Registration{}).Where("event_id = ?", event.ID)
	if attendedFilter != nil {
		query = query.Where("attended = ?", *attendedFilter)
	}

	var filteredCount int64
	query.Count(&filteredCount)

	if filteredCount == 0 {
		helpers.RespondSoftFail(c, "No registrations found for this event")
		return
	}

	var registrations []models.Registration
	offset := (pageNum - 1) * limitNum
	if err := query.Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&registrations).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving registrations.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"message":             message,
		"data":                registrations,
		"total_registrations": totalCount,
		"attended":            attendedCount,
		"pending_attendance":  totalCount - attendedCount,
		"pagination_meta_data": gin.H{
			"count":        filteredCount,
			"total_pages":  (filteredCount + int64(limitNum) - 1) / int64(limitNum),
			"current_page": pageNum,
		},
	})
}

// ListRegistrations returns every registration for one event with attendance
// counts.
func ListRegistrations(c *gin.Context) {
	listEventRegistrations(c, nil, "Registrations fetched successfully")
}

func ListAttendedRegistrations(c *gin.Context) {
	attended := true
	listEventRegistrations(c, &attended, "Event Attended fetched successfully")
}

func ListPendingRegistrations(c *gin.Context) {
	pending := false
	listEventRegistrations(c, &pending, "Event Pending Attended fetched successfully")
}

// ListAllRegistrations pages through registrations across every event.
func ListAllRegistrations(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	pageNum, limitNum, ok := paginationParams(c, 20)
	if !ok {
		return
	}

	var totalCount int64
	gormDB.Model(&models.Registration{}).Count(&totalCount)

	var registrations []models.Registration
	offset := (pageNum - 1) * limitNum
	if err := gormDB.Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&registrations).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving registrations.")
		return
	}

	totalPages := (totalCount + int64(limitNum) - 1) / int64(limitNum)
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "All event registrations fetched successfully",
		"count":        totalCount,
		"total_pages":  totalPages,
		"current_page": pageNum,
		"data":         registrations,
		"pagination_meta_data": gin.H{
			"count":        totalCount,
			"total_pages":  totalPages,
			"current_page": pageNum,
		},
	})
}

// GetRegistrationByCard is the staff detail view for one (event, card) pair.
func GetRegistrationByCard(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	cardNo, err := strconv.ParseInt(c.Param("cardno"), 10, 64)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid card number.")
		return
	}

	var registrations []models.Registration
	if err := gormDB.Where("event_id = ? AND member_card = ?", c.Param("event_id"), cardNo).Find(&registrations).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving registrations.")
		return
	}
	if len(registrations) == 0 {
		helpers.RespondSoftFail(c, "No registrations found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": registrations})
}
