package controller

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"imovelhub/models"
	"imovelhub/utils"
)

type FormController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewFormController(db *gorm.DB, logger *log.Logger) *FormController {
	return &FormController{DB: db, Logger: logger}
}

// CaptacaoInput is the full intake payload. The whole struct is also
// persisted as the submission's form_data.
type CaptacaoInput struct {
	// Owner of the property being acquired
	OwnerName  string `json:"owner_name" validate:"required,max=150"`
	OwnerEmail string `json:"owner_email" validate:"omitempty,email"`
	OwnerPhone string `json:"owner_phone" validate:"required,max=20"`
	OwnerCPF   string `json:"owner_cpf" validate:"omitempty,max=14"`

	// Property details
	Address      string  `json:"address" validate:"required,max=300"`
	Neighborhood string  `json:"neighborhood" validate:"omitempty,max=150"`
	CityName     string  `json:"city_name" validate:"required,max=150"`
	CityState    string  `json:"city_state" validate:"required,len=2"`
	TypeSlug     string  `json:"type_slug" validate:"required,max=50"`
	SalePrice    float64 `json:"sale_price" validate:"required,gt=0"`
	TotalArea    float64 `json:"total_area" validate:"omitempty,gt=0"`
	ForRent      bool    `json:"for_rent"`

	// Intake metadata
	Captador     string `json:"captador" validate:"omitempty,max=150"`
	CaptacaoDate string `json:"captacao_date" validate:"omitempty,max=10"`

	// Base64 PNG (optionally a data URL)
	Signature string `json:"signature" validate:"required"`
}

// SubmitCaptacao runs the property-acquisition intake: resolve or
// create the city, resolve the type, create the pending property,
// upload the signature, and record the signed submission. The steps
// run sequentially; a mid-flight failure leaves earlier writes in
// place and surfaces as a single error.
func (fc *FormController) SubmitCaptacao(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input CaptacaoInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	signaturePNG, err := utils.DecodeSignature(input.Signature)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid signature image", err)
	}

	// (1) City: exact name+state match, created when missing.
	city, err := fc.resolveOrCreateCity(input.CityName, input.CityState)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to resolve city", err)
	}

	// (2) Property type by slug.
	var propertyType models.PropertyType
	if err := fc.DB.Where("slug = ?", input.TypeSlug).First(&propertyType).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Property type not found", nil)
	}

	finalidade := models.FinalidadeBuy
	if input.ForRent {
		finalidade = models.FinalidadeRent
	}

	// (3) Property in pending status, awaiting approval. Captação
	// listings are curated by the platform, not owner-direct.
	property := models.Property{
		OwnerID:      user.ID,
		CityID:       city.ID,
		TypeID:       &propertyType.ID,
		Finalidade:   finalidade,
		Status:       models.PropertyStatusPending,
		Address:      input.Address,
		Neighborhood: input.Neighborhood,
		Price:        input.SalePrice,
	}
	if input.TotalArea > 0 {
		property.Area = &input.TotalArea
	}

	if err := utils.CreatePropertyWithCode(fc.DB, &property, &propertyType); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create property", err)
	}

	// (4) Signature image to object storage.
	signatureURL, err := utils.UploadSignature(property.PropertyCode, signaturePNG)
	if err != nil {
		utils.LogError("signature_upload", err, map[string]interface{}{
			"property_code": property.PropertyCode,
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to upload signature", err)
	}

	// (5) Template by slug.
	var template models.FormTemplate
	if err := fc.DB.Where("slug = ? AND is_active = ?", models.TemplateCaptacao, true).First(&template).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Form template not found", nil)
	}

	// (6) The signed submission with the full payload.
	input.Signature = "" // the image lives in storage, not in form_data
	formData, err := json.Marshal(input)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to encode form data", err)
	}

	now := time.Now()
	submission := models.FormSubmission{
		PropertyID:      &property.ID,
		PropertyCode:    property.PropertyCode,
		TemplateID:      &template.ID,
		SubmittedBy:     &user.ID,
		FormData:        string(formData),
		ClientName:      input.OwnerName,
		ClientEmail:     input.OwnerEmail,
		ClientCPF:       input.OwnerCPF,
		SignatureURL:    signatureURL,
		SignatureMethod: "digital",
		SignedAt:        &now,
		Status:          models.SubmissionStatusSigned,
	}

	if err := fc.DB.Create(&submission).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save form submission", err)
	}

	fc.Logger.Printf("Captação %s submitted by user %d", property.PropertyCode, user.ID)

	// (7) Report the generated code back.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":       true,
		"property_id":   property.ID,
		"property_code": property.PropertyCode,
		"submission_id": submission.ID,
	})
}

// AuthorizationInput is the commercialization-authorization payload
// for an existing listing.
type AuthorizationInput struct {
	PropertyCode string `json:"property_code" validate:"required,max=20"`
	ClientName   string `json:"client_name" validate:"required,max=150"`
	ClientEmail  string `json:"client_email" validate:"omitempty,email"`
	ClientCPF    string `json:"client_cpf" validate:"omitempty,max=14"`
	Terms        string `json:"terms" validate:"omitempty,max=5000"`
	Signature    string `json:"signature" validate:"required"`
}

// SubmitAuthorization records a signed commercialization authorization
// against an existing property.
func (fc *FormController) SubmitAuthorization(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input AuthorizationInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	signaturePNG, err := utils.DecodeSignature(input.Signature)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid signature image", err)
	}

	var property models.Property
	if err := fc.DB.Where("property_code = ?", input.PropertyCode).First(&property).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Property not found", nil)
	}

	if property.OwnerID != user.ID && !user.IsAdmin() {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Access denied", nil)
	}

	signatureURL, err := utils.UploadSignature(property.PropertyCode, signaturePNG)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to upload signature", err)
	}

	var template models.FormTemplate
	if err := fc.DB.Where("slug = ? AND is_active = ?", models.TemplateAutorizacao, true).First(&template).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Form template not found", nil)
	}

	input.Signature = ""
	formData, err := json.Marshal(input)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to encode form data", err)
	}

	now := time.Now()
	submission := models.FormSubmission{
		PropertyID:      &property.ID,
		PropertyCode:    property.PropertyCode,
		TemplateID:      &template.ID,
		SubmittedBy:     &user.ID,
		FormData:        string(formData),
		ClientName:      input.ClientName,
		ClientEmail:     input.ClientEmail,
		ClientCPF:       input.ClientCPF,
		SignatureURL:    signatureURL,
		SignatureMethod: "digital",
		SignedAt:        &now,
		Status:          models.SubmissionStatusSigned,
	}

	if err := fc.DB.Create(&submission).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save form submission", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":       true,
		"property_code": property.PropertyCode,
		"submission_id": submission.ID,
	})
}

// GetTemplates lists active form templates.
func (fc *FormController) GetTemplates(c *fiber.Ctx) error {
	var templates []models.FormTemplate
	if err := fc.DB.Where("is_active = ?", true).Order("name").Find(&templates).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch templates", err)
	}
	return c.JSON(utils.SuccessResponse(templates))
}

type templateInput struct {
	Name              string `json:"name" validate:"required,max=150"`
	Description       string `json:"description" validate:"omitempty,max=1000"`
	FormFields        string `json:"form_fields" validate:"required"`
	RequiresSignature *bool  `json:"requires_signature"`
	IsActive          *bool  `json:"is_active"`
}

// CreateTemplate adds a form template. Admin only.
func (fc *FormController) CreateTemplate(c *fiber.Ctx) error {
	var input templateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if !json.Valid([]byte(input.FormFields)) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "form_fields must be valid JSON", nil)
	}

	template := models.FormTemplate{
		Name:              input.Name,
		Slug:              utils.Slugify(input.Name),
		Description:       input.Description,
		FormFields:        input.FormFields,
		RequiresSignature: true,
		IsActive:          true,
	}
	if input.RequiresSignature != nil {
		template.RequiresSignature = *input.RequiresSignature
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := fc.DB.Create(&template).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Failed to create template", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(template))
}

// UpdateTemplate edits a form template. Admin only.
func (fc *FormController) UpdateTemplate(c *fiber.Ctx) error {
	var template models.FormTemplate
	if err := fc.DB.First(&template, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Template not found", nil)
	}

	var input templateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if !json.Valid([]byte(input.FormFields)) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "form_fields must be valid JSON", nil)
	}

	updates := map[string]interface{}{
		"name":        input.Name,
		"description": input.Description,
		"form_fields": input.FormFields,
	}
	if input.RequiresSignature != nil {
		updates["requires_signature"] = *input.RequiresSignature
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if err := fc.DB.Model(&template).Updates(updates).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update template", err)
	}

	return c.JSON(utils.SuccessResponse(template))
}

// GetPropertySubmissions lists signed forms for a listing. Owner or
// admin.
func (fc *FormController) GetPropertySubmissions(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var property models.Property
	if err := fc.DB.First(&property, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Property not found", nil)
	}

	if property.OwnerID != user.ID && !user.IsAdmin() {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Access denied", nil)
	}

	var submissions []models.FormSubmission
	if err := fc.DB.Preload("Template").
		Where("property_id = ?", property.ID).
		Order("created_at DESC").
		Find(&submissions).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch submissions", err)
	}

	return c.JSON(utils.SuccessResponse(submissions))
}

// resolveOrCreateCity finds the city by exact name+state or inserts it.
func (fc *FormController) resolveOrCreateCity(name, state string) (*models.City, error) {
	var city models.City
	err := fc.DB.Where("name = ? AND state = ?", name, state).First(&city).Error
	if err == nil {
		return &city, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	city = models.City{
		Name:  name,
		State: state,
		Slug:  utils.Slugify(name + "-" + state),
	}
	if err := fc.DB.Create(&city).Error; err != nil {
		return nil, err
	}
	return &city, nil
}
