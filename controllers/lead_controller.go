package controller

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"imovelhub/models"
	"imovelhub/utils"
)

type LeadController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewLeadController(db *gorm.DB, logger *log.Logger) *LeadController {
	return &LeadController{
		DB:     db,
		Logger: logger,
	}
}

// CreateLead records a contact request against a listing. The route is
// public; anonymous visitors submit these from the property page. Leads
// are immutable after creation.
func (lc *LeadController) CreateLead(c *fiber.Ctx) error {
	var input struct {
		Name    string `json:"name" validate:"required,max=150"`
		Phone   string `json:"phone" validate:"required,max=20"`
		Email   string `json:"email" validate:"omitempty,email"`
		Message string `json:"message" validate:"omitempty,max=2000"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var property models.Property
	if err := lc.DB.First(&property, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Property not found", nil)
	}

	lead := models.Lead{
		PropertyID: property.ID,
		Name:       input.Name,
		Phone:      input.Phone,
		Email:      input.Email,
		Message:    input.Message,
	}

	// Attach the requester when they happen to be logged in.
	if userID, ok := c.Locals("userID").(uint); ok {
		lead.UserID = &userID
	}

	if err := lc.DB.Create(&lead).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create lead", err)
	}

	lc.Logger.Printf("New lead %d for property %s", lead.ID, property.PropertyCode)

	// Notify the owner by email and push to the admin live feed. Both
	// are best-effort; the lead row is already committed.
	var owner models.User
	if err := lc.DB.First(&owner, property.OwnerID).Error; err == nil {
		go func() {
			if err := utils.SendLeadNotification(&owner, &property, &lead); err != nil {
				utils.LogError("lead_notification", err, map[string]interface{}{
					"lead_id":     lead.ID,
					"property_id": property.ID,
				})
			}
		}()
	}
	BroadcastLead(&lead, &property)

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(lead))
}

// GetPropertyLeads lists leads for one listing. Restricted to the
// listing's owner and admins.
func (lc *LeadController) GetPropertyLeads(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var property models.Property
	if err := lc.DB.First(&property, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Property not found", nil)
	}

	if property.OwnerID != user.ID && !user.IsAdmin() {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Access denied", nil)
	}

	var leads []models.Lead
	if err := lc.DB.Where("property_id = ?", property.ID).Order("created_at DESC").Find(&leads).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch leads", err)
	}

	return c.JSON(utils.SuccessResponse(leads))
}

// GetMyLeads lists leads across all of the caller's listings.
func (lc *LeadController) GetMyLeads(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var leads []models.Lead
	if err := lc.DB.
		Joins("JOIN properties ON properties.id = leads.property_id").
		Where("properties.owner_id = ?", user.ID).
		Order("leads.created_at DESC").
		Find(&leads).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch leads", err)
	}

	return c.JSON(utils.SuccessResponse(leads))
}

// GetAllLeads returns a paginated view of every lead. Admin only.
func (lc *LeadController) GetAllLeads(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	query := lc.DB.Model(&models.Lead{}).Preload("Property")
	if propertyID := c.Query("property_id"); propertyID != "" {
		query = query.Where("property_id = ?", utils.ParseUint(propertyID))
	}

	var total int64
	query.Count(&total)

	var leads []models.Lead
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&leads).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch leads", err)
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  leads,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
