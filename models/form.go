package models

import (
	"time"

	"gorm.io/gorm"
)

// SubmissionStatus is the state of a signed intake record.
type SubmissionStatus string

const (
	SubmissionStatusPending   SubmissionStatus = "pending"
	SubmissionStatusSigned    SubmissionStatus = "signed"
	SubmissionStatusCompleted SubmissionStatus = "completed"
)

// Well-known template slugs used by the intake workflows.
const (
	TemplateCaptacao    = "captacao-imovel"
	TemplateAutorizacao = "autorizacao-comercializacao"
)

// FormTemplate defines an intake form (captação, commercialization
// authorization). FormFields holds the field definitions as JSON.
type FormTemplate struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"not null;uniqueIndex" json:"slug"`
	Description string `json:"description"`

	FormFields        string `gorm:"type:jsonb;not null" json:"form_fields"`
	RequiresSignature bool   `gorm:"default:true" json:"requires_signature"`
	IsActive          bool   `gorm:"default:true" json:"is_active"`
}

// FormSubmission is one signed intake record referencing a property and
// a template, with the full form payload and a signature image URL.
type FormSubmission struct {
	gorm.Model
	PropertyID   *uint  `gorm:"index" json:"property_id,omitempty"`
	PropertyCode string `gorm:"not null;index" json:"property_code"`
	TemplateID   *uint  `gorm:"index" json:"template_id,omitempty"`
	SubmittedBy  *uint  `gorm:"index" json:"submitted_by,omitempty"`

	FormData    string `gorm:"type:jsonb;not null" json:"form_data"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientCPF   string `json:"client_cpf"`

	SignatureURL    string     `json:"signature_url"`
	SignatureMethod string     `json:"signature_method"` // digital, uploaded
	SignedAt        *time.Time `json:"signed_at,omitempty"`

	Status SubmissionStatus `gorm:"default:'pending'" json:"status"`

	// Relations
	Property *Property     `json:"property,omitempty"`
	Template *FormTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
}
