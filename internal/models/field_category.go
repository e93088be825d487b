package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FieldCategory struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"unique;not null" json:"name"`
	Description string         `json:"description"`
	Fields      []ProfileField `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (category *FieldCategory) BeforeCreate(tx *gorm.DB) (err error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	return
}
