package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	BoothDecisionHired       = "hired"
	BoothDecisionShortlisted = "shortlisted"
	BoothDecisionRejected    = "rejected"
)

func ValidBoothDecision(d string) bool {
	return d == BoothDecisionHired || d == BoothDecisionShortlisted || d == BoothDecisionRejected
}

// BoothDecision is a booth staffer's verdict on one participant, with a full
// snapshot of the participant's answer sections at decision time. One row per
// (booth, participant); re-submitting overwrites the prior decision.
type BoothDecision struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TempUserID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_booth_participant" json:"temp_user"`
	TempUser        *TempUser      `gorm:"foreignKey:TempUserID;constraint:OnDelete:CASCADE" json:"-"`
	EventID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"event"`
	ParticipantCard int64          `gorm:"not null;uniqueIndex:idx_booth_participant" json:"participant_card"`
	Decision        string         `gorm:"not null" json:"decision"`
	Comment         string         `json:"comment"`
	Snapshot        datatypes.JSON `json:"snapshot"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (decision *BoothDecision) BeforeCreate(tx *gorm.DB) (err error) {
	if decision.ID == uuid.Nil {
		decision.ID = uuid.New()
	}
	return
}
