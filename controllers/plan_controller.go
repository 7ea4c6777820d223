package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"imovelhub/models"
	"imovelhub/utils"
)

type PlanController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewPlanController(db *gorm.DB, logger *log.Logger) *PlanController {
	return &PlanController{DB: db, Logger: logger}
}

type planInput struct {
	Name          string `json:"name" validate:"required,max=100"`
	Description   string `json:"description" validate:"omitempty,max=1000"`
	Price         int    `json:"price" validate:"required,min=0"` // cents
	DurationDays  int    `json:"duration_days" validate:"required,min=1"`
	MaxProperties int    `json:"max_properties" validate:"omitempty,min=1"`
	Features      string `json:"features" validate:"omitempty"` // JSON array
	Featured      bool   `json:"featured"`
	Active        *bool  `json:"active"`
	DisplayOrder  int    `json:"display_order"`
	StripePriceID string `json:"stripe_price_id" validate:"omitempty,max=100"`
}

// GetPlans lists active plans in display order. Public.
func (plc *PlanController) GetPlans(c *fiber.Ctx) error {
	query := plc.DB.Order("display_order, price")
	if c.Query("include_inactive") != "true" {
		query = query.Where("active = ?", true)
	}

	var plans []models.Plan
	if err := query.Find(&plans).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch plans", err)
	}
	return c.JSON(utils.SuccessResponse(plans))
}

// GetPlan returns one plan. Public.
func (plc *PlanController) GetPlan(c *fiber.Ctx) error {
	var plan models.Plan
	if err := plc.DB.First(&plan, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Plan not found", nil)
	}
	return c.JSON(utils.SuccessResponse(plan))
}

// CreatePlan adds a subscription tier. Admin only.
func (plc *PlanController) CreatePlan(c *fiber.Ctx) error {
	var input planInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	plan := models.Plan{
		Name:          input.Name,
		Slug:          utils.Slugify(input.Name),
		Description:   input.Description,
		Price:         input.Price,
		DurationDays:  input.DurationDays,
		MaxProperties: input.MaxProperties,
		Features:      input.Features,
		Featured:      input.Featured,
		Active:        true,
		DisplayOrder:  input.DisplayOrder,
		StripePriceID: input.StripePriceID,
	}
	if input.Active != nil {
		plan.Active = *input.Active
	}
	if plan.MaxProperties == 0 {
		plan.MaxProperties = 1
	}

	if err := plc.DB.Create(&plan).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Failed to create plan", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(plan))
}

// UpdatePlan edits a subscription tier. Admin only.
func (plc *PlanController) UpdatePlan(c *fiber.Ctx) error {
	var plan models.Plan
	if err := plc.DB.First(&plan, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Plan not found", nil)
	}

	var input planInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	updates := map[string]interface{}{
		"name":            input.Name,
		"slug":            utils.Slugify(input.Name),
		"description":     input.Description,
		"price":           input.Price,
		"duration_days":   input.DurationDays,
		"features":        input.Features,
		"featured":        input.Featured,
		"display_order":   input.DisplayOrder,
		"stripe_price_id": input.StripePriceID,
	}
	if input.MaxProperties > 0 {
		updates["max_properties"] = input.MaxProperties
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}

	if err := plc.DB.Model(&plan).Updates(updates).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update plan", err)
	}

	return c.JSON(utils.SuccessResponse(plan))
}

// DeletePlan deactivates a plan; purchased associations keep pointing
// at the soft-deleted row.
func (plc *PlanController) DeletePlan(c *fiber.Ctx) error {
	var plan models.Plan
	if err := plc.DB.First(&plan, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Plan not found", nil)
	}

	if err := plc.DB.Model(&plan).Update("active", false).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to deactivate plan", err)
	}

	return c.JSON(fiber.Map{"message": "Plan deactivated"})
}
