package models

import (
	"time"

	"gorm.io/gorm"
)

// PlanStatus is the state of a property/plan association.
type PlanStatus string

const (
	PlanStatusActive  PlanStatus = "active"
	PlanStatusExpired PlanStatus = "expired"
)

// Plan is a paid visibility tier for listings.
type Plan struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"not null;uniqueIndex" json:"slug"`
	Description string `json:"description"`

	Price         int    `gorm:"not null" json:"price"` // in cents
	DurationDays  int    `gorm:"not null" json:"duration_days"`
	MaxProperties int    `gorm:"default:1" json:"max_properties"`
	Features      string `gorm:"type:text" json:"features"` // JSON array of feature strings

	Featured     bool `gorm:"default:false" json:"featured"`
	Active       bool `gorm:"default:true" json:"active"`
	DisplayOrder int  `gorm:"default:0" json:"display_order"`

	StripePriceID string `json:"stripe_price_id"`
}

// PropertyPlan links a property to a purchased plan. Its expiration is
// tracked independently of the property's own expires_at; a property is
// expected to carry at most one active association at a time, though
// the schema does not enforce that.
type PropertyPlan struct {
	gorm.Model
	PropertyID uint `gorm:"not null;index" json:"property_id"`
	PlanID     uint `gorm:"not null;index" json:"plan_id"`
	UserID     uint `gorm:"not null;index" json:"user_id"`

	StartedAt time.Time  `gorm:"not null" json:"started_at"`
	ExpiresAt time.Time  `gorm:"not null;index" json:"expires_at"`
	Status    PlanStatus `gorm:"not null;default:'active'" json:"status"`
	AutoRenew bool       `gorm:"default:false" json:"auto_renew"`

	// Relations
	Plan     Plan     `json:"plan,omitempty"`
	Property Property `json:"-"`
}

// PlanTransaction records a Stripe checkout for a plan.
type PlanTransaction struct {
	gorm.Model
	UserID     uint  `gorm:"not null;index" json:"user_id"`
	PlanID     uint  `gorm:"not null;index" json:"plan_id"`
	PropertyID *uint `gorm:"index" json:"property_id,omitempty"`

	Amount        int    `json:"amount"` // in cents
	Currency      string `gorm:"default:'brl'" json:"currency"`
	PaymentStatus string `gorm:"default:'pending'" json:"payment_status"` // pending, succeeded, failed
	PaymentMethod string `json:"payment_method"`
	Description   string `json:"description"`

	StripePaymentIntentID string `gorm:"index" json:"stripe_payment_intent_id"`
	StripeChargeID        string `json:"stripe_charge_id"`
	ReceiptURL            string `json:"receipt_url,omitempty"`

	// Relations
	User User `json:"-"`
	Plan Plan `json:"plan,omitempty"`
}
