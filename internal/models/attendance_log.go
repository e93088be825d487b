package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttendanceLog records one volunteer-marked attendance. It replaces the old
// per-volunteer JSON scratch map: the unique index on (temp_user, card)
// carries the duplicate check that used to be a read-modify-write on a blob.
type AttendanceLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TempUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tempuser_card" json:"temp_user"`
	TempUser   *TempUser `gorm:"foreignKey:TempUserID;constraint:OnDelete:CASCADE" json:"-"`
	EventID    uuid.UUID `gorm:"type:uuid;not null;index" json:"event"`
	CardNo     int64     `gorm:"not null;uniqueIndex:idx_tempuser_card" json:"cardno"`
	MarkedAt   time.Time `gorm:"not null" json:"timestamp"`
}

func (entry *AttendanceLog) BeforeCreate(tx *gorm.DB) (err error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return
}
