package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TempUserTypeBooth     = "booth"
	TempUserTypeVolunteer = "volunteer"
)

// TempUser is an ephemeral staff identity scoped to one event and role,
// authenticated by its opaque bearer token. The composite unique index keeps
// at most one row per (event, email, type); expired rows are purged on
// reissue so they cannot block a new token.
type TempUser struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EventID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_email_type" json:"event"`
	Event        *Event    `gorm:"foreignKey:EventID" json:"-"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Email        string    `gorm:"not null;uniqueIndex:idx_event_email_type" json:"email"`
	MobileNumber string    `json:"mobile_number"`
	UserType     string    `gorm:"not null;uniqueIndex:idx_event_email_type" json:"user_type"`
	Token        string    `gorm:"not null;unique" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
}

func (tempUser *TempUser) BeforeCreate(tx *gorm.DB) (err error) {
	if tempUser.ID == uuid.Nil {
		tempUser.ID = uuid.New()
	}
	return
}

func (tempUser *TempUser) Expired(at time.Time) bool {
	return tempUser.ExpiresAt.Before(at)
}
