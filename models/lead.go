package models

import "gorm.io/gorm"

// Lead is a contact request against a listing. Leads are written once
// and never updated or deleted by the normal workflow.
type Lead struct {
	gorm.Model
	PropertyID uint  `gorm:"not null;index" json:"property_id"`
	UserID     *uint `gorm:"index" json:"user_id,omitempty"` // set when the requester is logged in

	Name    string `gorm:"not null" json:"name"`
	Phone   string `gorm:"not null" json:"phone"`
	Email   string `json:"email"`
	Message string `gorm:"type:text" json:"message"`

	// Relations
	Property Property `json:"property,omitempty"`
}
