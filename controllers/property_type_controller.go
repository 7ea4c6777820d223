package controller

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"imovelhub/models"
	"imovelhub/utils"
)

type PropertyTypeController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewPropertyTypeController(db *gorm.DB, logger *log.Logger) *PropertyTypeController {
	return &PropertyTypeController{DB: db, Logger: logger}
}

type propertyTypeInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	CodePrefix   string `json:"code_prefix" validate:"required,min=2,max=5"`
	Description  string `json:"description" validate:"omitempty,max=1000"`
	Icon         string `json:"icon" validate:"omitempty,max=100"`
	DisplayOrder int    `json:"display_order"`
	Active       *bool  `json:"active"`
}

// GetPropertyTypes lists active types in display order. Public.
func (tc *PropertyTypeController) GetPropertyTypes(c *fiber.Ctx) error {
	query := tc.DB.Order("display_order, name")
	if c.Query("include_inactive") != "true" {
		query = query.Where("active = ?", true)
	}

	var types []models.PropertyType
	if err := query.Find(&types).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch property types", err)
	}
	return c.JSON(utils.SuccessResponse(types))
}

// CreatePropertyType adds a listing category. Admin only.
func (tc *PropertyTypeController) CreatePropertyType(c *fiber.Ctx) error {
	var input propertyTypeInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	propertyType := models.PropertyType{
		Name:         input.Name,
		Slug:         utils.Slugify(input.Name),
		CodePrefix:   strings.ToUpper(input.CodePrefix),
		Description:  input.Description,
		Icon:         input.Icon,
		DisplayOrder: input.DisplayOrder,
		Active:       true,
	}
	if input.Active != nil {
		propertyType.Active = *input.Active
	}

	if err := tc.DB.Create(&propertyType).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Failed to create property type", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(propertyType))
}

// UpdatePropertyType edits a listing category. Admin only.
func (tc *PropertyTypeController) UpdatePropertyType(c *fiber.Ctx) error {
	var propertyType models.PropertyType
	if err := tc.DB.First(&propertyType, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Property type not found", nil)
	}

	var input propertyTypeInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	updates := map[string]interface{}{
		"name":          input.Name,
		"slug":          utils.Slugify(input.Name),
		"code_prefix":   strings.ToUpper(input.CodePrefix),
		"description":   input.Description,
		"icon":          input.Icon,
		"display_order": input.DisplayOrder,
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}

	if err := tc.DB.Model(&propertyType).Updates(updates).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update property type", err)
	}

	return c.JSON(utils.SuccessResponse(propertyType))
}

// DeletePropertyType deactivates a category still referenced by
// listings, deletes it otherwise. Admin only.
func (tc *PropertyTypeController) DeletePropertyType(c *fiber.Ctx) error {
	var propertyType models.PropertyType
	if err := tc.DB.First(&propertyType, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Property type not found", nil)
	}

	var count int64
	tc.DB.Model(&models.Property{}).Where("type_id = ?", propertyType.ID).Count(&count)
	if count > 0 {
		if err := tc.DB.Model(&propertyType).Update("active", false).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to deactivate property type", err)
		}
		return c.JSON(fiber.Map{"message": "Property type deactivated (still referenced by properties)"})
	}

	if err := tc.DB.Delete(&propertyType).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete property type", err)
	}

	return c.JSON(fiber.Map{"message": "Property type deleted"})
}
