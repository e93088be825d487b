package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jsjcard/eventhub/internal/helpers"
	"github.com/jsjcard/eventhub/internal/models"
)

// GetDashboard aggregates the caller's business: total events, total
// registrations, total attendance, and a 7-day series ending today. Days with
// no activity appear as explicit zeros; the series always has 7 entries.
func GetDashboard(c *gin.Context) {
	businessID := c.MustGet("business_id").(int64)

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var totalEvents int64
	gormDB.Model(&models.Event{}).Where("business_id = ?", businessID).Count(&totalEvents)

	businessRegistrations := func() *gorm.DB {
		return gormDB.Model(&models.Registration{}).
			Joins("JOIN events ON events.id = registrations.event_id").
			Where("events.business_id = ?", businessID)
	}

	var totalRegistrations, totalAttendance int64
	businessRegistrations().Count(&totalRegistrations)
	businessRegistrations().Where("registrations.attended = ?", true).Count(&totalAttendance)

	today := time.Now()
	startOfToday := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	timeSeries := make([]gin.H, 0, 7)
	for i := 0; i < 7; i++ {
		dayStart := startOfToday.AddDate(0, 0, i-6)
		dayEnd := dayStart.AddDate(0, 0, 1)

		var registrations, attendances int64
		businessRegistrations().
			Where("registrations.created_at >= ? AND registrations.created_at < ?", dayStart, dayEnd).
			Count(&registrations)
		businessRegistrations().
			Where("registrations.attended = ?", true).
			Where("registrations.created_at >= ? AND registrations.created_at < ?", dayStart, dayEnd).
			Count(&attendances)

		timeSeries = append(timeSeries, gin.H{
			"x":             dayStart.Format("2006-01-02"),
			"registrations": registrations,
			"attendances":   attendances,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"total_events":        totalEvents,
		"total_registrations": totalRegistrations,
		"total_attendance":    totalAttendance,
		"time_series":         timeSeries,
	})
}
