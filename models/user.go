package models

import (
	"time"

	"gorm.io/gorm"
)

// AppRole is the closed set of roles a user can hold.
type AppRole string

const (
	RoleAdmin AppRole = "admin"
	RoleOwner AppRole = "owner"
	RoleBuyer AppRole = "buyer"
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch AppRole(s) {
	case RoleAdmin, RoleOwner, RoleBuyer:
		return true
	}
	return false
}

// User represents a user account in the system
type User struct {
	gorm.Model

	// Authentication fields
	Email         string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string `gorm:"not null" json:"-"`
	EmailVerified bool   `gorm:"default:false" json:"email_verified"`

	// Google OAuth fields
	GoogleID       *string `gorm:"uniqueIndex" json:"google_id,omitempty"`
	GoogleImageURL *string `json:"google_image_url,omitempty"`

	// Profile information
	Name      string  `gorm:"not null" json:"name"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`

	// Account status
	IsActive bool `gorm:"default:true" json:"is_active"`

	// Stripe integration
	StripeCustomerID *string `gorm:"index" json:"stripe_customer_id,omitempty"`
	DefaultCurrency  string  `gorm:"default:'brl'" json:"default_currency"`

	// Relations
	Roles        []UserRole        `gorm:"foreignKey:UserID" json:"roles,omitempty"`
	Properties   []Property        `gorm:"foreignKey:OwnerID" json:"properties,omitempty"`
	Transactions []PlanTransaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}

// UserRole maps a user to a role. A user may hold several roles; the
// union decides what they can do.
type UserRole struct {
	gorm.Model
	UserID uint    `gorm:"not null;index:idx_user_role,unique" json:"user_id"`
	Role   AppRole `gorm:"not null;index:idx_user_role,unique" json:"role"`
}

// HasRole reports whether the user holds the given role. Roles must be
// preloaded (the auth middleware does this).
func (u *User) HasRole(role AppRole) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// IsAdmin gates status overrides, city/type/plan management and
// featured-listing toggling.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// IsOwner gates property creation and editing. Admins are implicitly
// owners.
func (u *User) IsOwner() bool {
	return u.HasRole(RoleOwner) || u.HasRole(RoleAdmin)
}

// RoleNames returns the plain role strings for API responses.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, string(r.Role))
	}
	return names
}

// RefreshToken stores issued refresh tokens so they can be revoked on
// logout or password change.
type RefreshToken struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Token     string    `gorm:"not null;uniqueIndex" json:"-"`
	UserAgent string    `json:"user_agent"`
	IP        string    `json:"ip"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
}
