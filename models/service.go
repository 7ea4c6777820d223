package models

import "gorm.io/gorm"

// ServiceOrderStatus is the state of a purchased service.
type ServiceOrderStatus string

const (
	ServiceOrderPending   ServiceOrderStatus = "pending"
	ServiceOrderCompleted ServiceOrderStatus = "completed"
	ServiceOrderCancelled ServiceOrderStatus = "cancelled"
)

// Service is an add-on offered to owners (photo session, video tour,
// legal assistance).
type Service struct {
	gorm.Model
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`

	PhotosIncluded  bool `gorm:"default:false" json:"photos_included"`
	VideoIncluded   bool `gorm:"default:false" json:"video_included"`
	LegalAssistance bool `gorm:"default:false" json:"legal_assistance"`
}

// ServiceOrder is a request for a service against a listing.
type ServiceOrder struct {
	gorm.Model
	PropertyID uint `gorm:"not null;index" json:"property_id"`
	ServiceID  uint `gorm:"not null;index" json:"service_id"`
	UserID     uint `gorm:"not null;index" json:"user_id"`

	Status ServiceOrderStatus `gorm:"not null;default:'pending'" json:"status"`

	// Relations
	Service  Service  `json:"service,omitempty"`
	Property Property `json:"-"`
}
