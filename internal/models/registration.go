package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Registration holds one member's answers for one event. MemberCard is the
// external directory card number, not a local foreign key. The composite
// unique index is the sole duplicate-registration check: a concurrent second
// insert fails with a duplicated-key error instead of creating a second row.
type Registration struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	EventID       uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_event_member" json:"Event"`
	Event         *Event            `gorm:"foreignKey:EventID" json:"-"`
	MemberCard    int64             `gorm:"not null;uniqueIndex:idx_event_member" json:"EventMbrCard"`
	BasicInfo     datatypes.JSONMap `json:"BasicInformation"`
	CareerObj     datatypes.JSONMap `json:"CareerObjectivesPreferences"`
	Education     datatypes.JSONMap `json:"EducationDetails"`
	WorkExp       datatypes.JSONMap `json:"WorkExperience"`
	Skills        datatypes.JSONMap `json:"SkillsCompetencies"`
	Achievements  datatypes.JSONMap `json:"AchievementsExtracurricular"`
	OtherDetails  datatypes.JSONMap `json:"OtherDetails"`
	Data          datatypes.JSONMap `json:"EventRegistrationData"`
	Attended      bool              `gorm:"not null;default:false" json:"EventAttended"`
	Registered    bool              `gorm:"not null;default:false" json:"EventRegistered"`
	CreatedAt     time.Time         `json:"created_at"`
}

func (registration *Registration) BeforeCreate(tx *gorm.DB) (err error) {
	if registration.ID == uuid.Nil {
		registration.ID = uuid.New()
	}
	return
}

// Sections returns the seven answer sections keyed by their stored names.
func (registration *Registration) Sections() map[string]datatypes.JSONMap {
	return map[string]datatypes.JSONMap{
		"BasicInformation":            registration.BasicInfo,
		"CareerObjectivesPreferences": registration.CareerObj,
		"EducationDetails":            registration.Education,
		"WorkExperience":              registration.WorkExp,
		"SkillsCompetencies":          registration.Skills,
		"AchievementsExtracurricular": registration.Achievements,
		"OtherDetails":                registration.OtherDetails,
	}
}
