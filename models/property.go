package models

import (
	"time"

	"gorm.io/gorm"
)

// PropertyStatus is the lifecycle state of a listing.
type PropertyStatus string

const (
	PropertyStatusActive  PropertyStatus = "active"
	PropertyStatusPending PropertyStatus = "pending"
	PropertyStatusExpired PropertyStatus = "expired"
	PropertyStatusPaused  PropertyStatus = "paused"
)

// Finalidade is the listing purpose: sale or rental.
type Finalidade string

const (
	FinalidadeBuy  Finalidade = "buy"
	FinalidadeRent Finalidade = "rent"
)

// FeaturedLimit caps how many listings can be featured at once.
const FeaturedLimit = 6

// TrialDuration is how long an owner-direct listing stays visible
// before it needs a plan or a renewal.
const TrialDuration = 30 * 24 * time.Hour

// City groups listings by municipality.
type City struct {
	gorm.Model
	Name        string `gorm:"not null;index:idx_city_name_state,unique" json:"name"`
	State       string `gorm:"not null;index:idx_city_name_state,unique" json:"state"`
	Slug        string `gorm:"not null;index" json:"slug"`
	Description string `json:"description"`

	Properties []Property `gorm:"foreignKey:CityID" json:"properties,omitempty"`
}

// PropertyType is an admin-managed listing category (casa, apartamento,
// terreno, comercial, rural). CodePrefix seeds generated property codes.
type PropertyType struct {
	gorm.Model
	Name         string `gorm:"not null" json:"name"`
	Slug         string `gorm:"not null;uniqueIndex" json:"slug"`
	CodePrefix   string `gorm:"not null;default:'IMV'" json:"code_prefix"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	DisplayOrder int    `gorm:"default:0" json:"display_order"`
	Active       bool   `gorm:"default:true" json:"active"`
}

// Property is a listing.
//
// Lifecycle: pending -> active (admin approval, or immediately for
// admin-created listings) -> expired (sweep on expires_at) with paused
// reachable from active by admin action. Renewal moves an expired
// owner-direct listing back to pending.
type Property struct {
	gorm.Model
	OwnerID uint  `gorm:"not null;index" json:"owner_id"`
	CityID  uint  `gorm:"not null;index" json:"city_id"`
	TypeID  *uint `gorm:"index" json:"type_id,omitempty"`

	Finalidade   Finalidade     `gorm:"not null" json:"finalidade"` // buy, rent
	Status       PropertyStatus `gorm:"not null;default:'pending';index" json:"status"`
	Address      string         `gorm:"not null" json:"address"`
	Neighborhood string         `json:"neighborhood"`
	Description  string         `gorm:"type:text" json:"description"`

	Price         float64  `gorm:"not null" json:"price"`
	Bedrooms      *int     `json:"bedrooms,omitempty"`
	Bathrooms     *int     `json:"bathrooms,omitempty"`
	ParkingSpaces *int     `json:"parking_spaces,omitempty"`
	Area          *float64 `json:"area,omitempty"`

	Verified       bool `gorm:"default:false" json:"verified"`
	IsOwnerDirect  bool `gorm:"default:false" json:"is_owner_direct"`
	Featured       bool `gorm:"default:false;index" json:"featured"`
	ShowInCarousel bool `gorm:"default:false" json:"show_in_carousel"`

	ExpiresAt    *time.Time `gorm:"index" json:"expires_at,omitempty"`
	PropertyCode string     `gorm:"uniqueIndex" json:"property_code"`

	// Relations
	City   City            `json:"city,omitempty"`
	Type   *PropertyType   `gorm:"foreignKey:TypeID" json:"type,omitempty"`
	Photos []PropertyPhoto `gorm:"foreignKey:PropertyID" json:"photos,omitempty"`
	Leads  []Lead          `gorm:"foreignKey:PropertyID" json:"leads,omitempty"`
	Plans  []PropertyPlan  `gorm:"foreignKey:PropertyID" json:"plans,omitempty"`
}

// PropertyPhoto stores a photo URL for a listing; the binary lives in
// object storage.
type PropertyPhoto struct {
	gorm.Model
	PropertyID uint   `gorm:"not null;index" json:"property_id"`
	URL        string `gorm:"not null" json:"url"`
	IsMain     bool   `gorm:"default:false" json:"is_main"`
}
