package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jsjcard/eventhub/internal/forms"
	"github.com/jsjcard/eventhub/internal/helpers"
	"github.com/jsjcard/eventhub/internal/models"
)

type EventRequest struct {
	Title              *string            `json:"BizEventTitle"`
	StartDate          *time.Time         `json:"BizEventStartDate"`
	EndDate            *time.Time         `json:"BizEventEndDate"`
	Location           *string            `json:"BizEventLocation"`
	EventType          *string            `json:"BizEventType"`
	Mode               *string            `json:"BizEventMode"`
	PriceModel         *string            `json:"BizEventPriceModel"`
	Price              *float64           `json:"BizEventPrice"`
	PaymentType        *string            `json:"BizEventPaymentType"`
	RegistrationForm   *datatypes.JSONMap `json:"BizEventRegistrationForm"`
	RegistrationLink   *string            `json:"BizEventRegistrationLink"`
	SelfAttendanceLink *string            `json:"BizEventSelfAttendanceLink"`
}

func (req *EventRequest) apply(event *models.Event) {
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = *req.EndDate
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.EventType != nil {
		event.EventType = *req.EventType
	}
	if req.Mode != nil {
		event.Mode = *req.Mode
	}
	if req.PriceModel != nil {
		event.PriceModel = *req.PriceModel
	}
	if req.Price != nil {
		event.Price = req.Price
	}
	if req.PaymentType != nil {
		event.PaymentType = *req.PaymentType
	}
	if req.RegistrationForm != nil {
		event.RegistrationForm = *req.RegistrationForm
	}
	if req.RegistrationLink != nil {
		event.RegistrationLink = *req.RegistrationLink
	}
	if req.SelfAttendanceLink != nil {
		event.SelfAttendanceLink = *req.SelfAttendanceLink
	}
}

// CreateEvent creates an event for the caller's business. When the client
// does not send a registration-form snapshot, the current catalog skeleton is
// frozen in, so later catalog edits never alter this event's form.
func CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if req.Title == nil || *req.Title == "" || req.StartDate == nil || req.EndDate == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"BizEventTitle": "Title, start date and end date are required."},
		})
		return
	}

	businessID := c.MustGet("business_id").(int64)

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	event := models.Event{
		BusinessID: businessID,
		Status:     models.EventStatusActive,
	}
	req.apply(&event)

	if len(event.RegistrationForm) == 0 {
		var categories []models.FieldCategory
		gormDB.Preload("Fields").Order("created_at").Find(&categories)
		event.RegistrationForm = datatypes.JSONMap(forms.Skeleton(categories))
	}

	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Event created successfully",
		"data":    event,
	})
}

// ListBusinessEvents lists the caller's events, newest first. Events whose
// end date has passed are lazily flipped to Inactive here, on the list-read.
func ListBusinessEvents(c *gin.Context) {
	businessID := c.MustGet("business_id").(int64)
	statusFilter := c.Query("status")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	gormDB.Model(&models.Event{}).
		Where("business_id = ? AND status = ? AND end_date < ?", businessID, models.EventStatusActive, time.Now()).
		Update("status", models.EventStatusInactive)

	query := gormDB.Where("business_id = ?", businessID)
	if statusFilter != "" {
		query = query.Where("status = ?", statusFilter)
	}

	var events []models.Event
	if err := query.Order("created_at DESC").Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, events)
}

func findEvent(c *gin.Context, gormDB *gorm.DB, eventID string) (*models.Event, bool) {
	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found")
			return nil, false
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return nil, false
	}
	return &event, true
}

func GetEvent(c *gin.Context) {
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
	c.JSON(http.StatusOK, event)
}

func UpdateEvent(c *gin.Context) {
	var req EventRequest
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

	event, ok := findEvent(c, gormDB, c.Param("event_id"))
	if !ok {
		return
	}

	req.apply(event)
	if err := gormDB.Save(event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func DeleteEvent(c *gin.Context) {
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

	if err := gormDB.Select("Registrations", "TempUsers").Delete(event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}

	c.JSON(http.StatusNoContent, gin.H{"message": "Event deleted successfully"})
}

type EventStatusRequest struct {
	Status string `json:"BizEventStatus"`
}

func UpdateEventStatus(c *gin.Context) {
	var req EventStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if req.Status != models.EventStatusActive && req.Status != models.EventStatusInactive {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid status. Use 'Active' or 'Inactive'.",
		})
		return
	}

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

	event.Status = req.Status
	if err := gormDB.Save(event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event status.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Event status updated to %s", req.Status),
	})
}

// RegistrationFormSkeleton serves the live catalog as the keyed form template
// a client fills in and submits back as registration answers.
func RegistrationFormSkeleton(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var categories []models.FieldCategory
	if err := gormDB.Preload("Fields").Order("created_at").Find(&categories).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving fields.")
		return
	}

	c.JSON(http.StatusOK, forms.Skeleton(categories))
}

// ListMemberEvents lists every event annotated with whether the calling
// member is already registered.
func ListMemberEvents(c *gin.Context) {
	cardNo := c.MustGet("mbrcardno").(int64)

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var registeredIDs []string
	gormDB.Model(&models.Registration{}).Where("member_card = ?", cardNo).Pluck("event_id", &registeredIDs)
	registered := map[string]bool{}
	for _, id := range registeredIDs {
		registered[id] = true
	}

	var events []models.Event
	if err := gormDB.Order("created_at DESC").Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	response := make([]gin.H, 0, len(events))
	for _, event := range events {
		response = append(response, gin.H{
			"id":                         event.ID,
			"BizEventBizId":              event.BusinessID,
			"BizEventTitle":              event.Title,
			"BizEventStartDate":          event.StartDate,
			"BizEventEndDate":            event.EndDate,
			"BizEventLocation":           event.Location,
			"BizEventType":               event.EventType,
			"BizEventMode":               event.Mode,
			"BizEventPriceModel":         event.PriceModel,
			"BizEventPrice":              event.Price,
			"BizEventPaymentType":        event.PaymentType,
			"BizEventStatus":             event.Status,
			"BizEventRegistrationLink":   event.RegistrationLink,
			"BizEventSelfAttendanceLink": event.SelfAttendanceLink,
			"created_at":                 event.CreatedAt,
			"EventRegistered":            registered[event.ID.String()],
		})
	}

	c.JSON(http.StatusOK, response)
}

func GetMemberEvent(c *gin.Context) {
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
	c.JSON(http.StatusOK, event)
}

// GetEventRegistrationForm returns the event's frozen form snapshot.
func GetEventRegistrationForm(c *gin.Context) {
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

	if len(event.RegistrationForm) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "No registration form data found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":                   "success",
		"event_id":                 event.ID,
		"BizEventTitle":            event.Title,
		"BizEventRegistrationForm": event.RegistrationForm,
	})
}

// EventEntryPass renders the event's self-attendance link as a PNG QR code.
func EventEntryPass(c *gin.Context) {
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

	link := event.SelfAttendanceLink
	if link == "" {
		link = fmt.Sprintf("%s/member/event/self-attendance?event_id=%s", os.Getenv("SITE_URL"), event.ID)
	}

	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate entry pass.")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
