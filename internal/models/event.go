package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EventStatusActive   = "Active"
	EventStatusInactive = "Inactive"
)

var EventTypes = []string{
	"Career & Professional",
	"Entertainment & Cultural",
	"Educational & Training",
	"Health & Wellness",
	"Art & Lifestyle",
	"Sports & Recreational",
	"Business & Marketing",
	"Community & Social",
}

// Event is owned by an external business (BusinessID comes from the business
// directory, not a local table). RegistrationForm is the form skeleton frozen
// at creation time; later catalog edits do not alter a live event's form.
type Event struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID         int64             `gorm:"not null;index" json:"BizEventBizId"`
	Title              string            `gorm:"not null" json:"BizEventTitle"`
	StartDate          time.Time         `gorm:"not null" json:"BizEventStartDate"`
	EndDate            time.Time         `gorm:"not null" json:"BizEventEndDate"`
	Location           string            `json:"BizEventLocation"`
	EventType          string            `json:"BizEventType"`
	Mode               string            `json:"BizEventMode"`
	PriceModel         string            `json:"BizEventPriceModel"`
	Price              *float64          `json:"BizEventPrice"`
	PaymentType        string            `json:"BizEventPaymentType"`
	RegistrationForm   datatypes.JSONMap `json:"BizEventRegistrationForm"`
	Attendance         datatypes.JSONMap `json:"BizEventAttendance"`
	RegistrationLink   string            `json:"BizEventRegistrationLink"`
	SelfAttendanceLink string            `json:"BizEventSelfAttendanceLink"`
	Status             string            `gorm:"not null;default:'Active'" json:"BizEventStatus"`
	Registrations      []Registration    `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	TempUsers          []TempUser        `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}
