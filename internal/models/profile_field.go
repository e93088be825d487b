package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	FieldTypeText     = "text"
	FieldTypeNumber   = "number"
	FieldTypeEmail    = "email"
	FieldTypeDate     = "date"
	FieldTypeSelect   = "select"
	FieldTypeCheckbox = "checkbox"
	FieldTypeURL      = "url"
)

var FieldTypes = []string{
	FieldTypeText,
	FieldTypeNumber,
	FieldTypeEmail,
	FieldTypeDate,
	FieldTypeSelect,
	FieldTypeCheckbox,
	FieldTypeURL,
}

func ValidFieldType(t string) bool {
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// ProfileField is one reusable form-field definition. FieldID is the stable
// string key every registration payload references; renaming it orphans
// historical answers.
type ProfileField struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID  *uuid.UUID     `gorm:"type:uuid;index" json:"category"`
	Category    *FieldCategory `gorm:"foreignKey:CategoryID" json:"-"`
	Label       string         `gorm:"not null" json:"label"`
	FieldID     string         `gorm:"not null;unique" json:"field_id"`
	FieldType   string         `gorm:"not null" json:"field_type"`
	IsRequired  bool           `gorm:"not null;default:false" json:"is_required"`
	Placeholder string         `json:"placeholder"`
	Value       string         `json:"value"`
	Option      datatypes.JSON `json:"-"`
	CreatedAt   time.Time      `json:"-"`
	UpdatedAt   time.Time      `json:"-"`
}

func (field *ProfileField) BeforeCreate(tx *gorm.DB) (err error) {
	if field.ID == uuid.Nil {
		field.ID = uuid.New()
	}
	return
}
