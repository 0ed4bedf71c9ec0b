package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dataset represents a labeled training dataset registered by an uploader.
// Its labels feed the training-context hint sent with classifier prompts.
type Dataset struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string   `gorm:"not null;size:255" json:"name"`
	Description string   `gorm:"type:text" json:"description"`
	Labels      []string `gorm:"serializer:json" json:"labels"`
	UploadedBy  string   `gorm:"index;size:255" json:"uploaded_by"`
}

// TableName returns the table name for the Dataset model
func (Dataset) TableName() string {
	return "datasets"
}

// BeforeCreate hook to generate ID
func (d *Dataset) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = "ds-" + uuid.New().String()[:8]
	}
	return nil
}
