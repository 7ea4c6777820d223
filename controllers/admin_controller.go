package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"imovelhub/models"
	"imovelhub/utils"
)

type AdminController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewAdminController(db *gorm.DB, logger *log.Logger) *AdminController {
	return &AdminController{
		DB:     db,
		Logger: logger,
	}
}

type AdminStats struct {
	Properties struct {
		Total   int64 `json:"total"`
		Active  int64 `json:"active"`
		Pending int64 `json:"pending"`
		Expired int64 `json:"expired"`
		Paused  int64 `json:"paused"`
	} `json:"properties"`
	Users       int64 `json:"users"`
	Owners      int64 `json:"owners"`
	Leads       int64 `json:"leads"`
	LeadsLast7d int64 `json:"leads_last_7d"`
	Cities      int64 `json:"cities"`
	Submissions int64 `json:"submissions"`
}

// GetAdminStats aggregates counts for the admin dashboard cards.
func (ac *AdminController) GetAdminStats(c *fiber.Ctx) error {
	var stats AdminStats

	ac.DB.Model(&models.Property{}).Count(&stats.Properties.Total)
	ac.DB.Model(&models.Property{}).Where("status = ?", models.PropertyStatusActive).Count(&stats.Properties.Active)
	ac.DB.Model(&models.Property{}).Where("status = ?", models.PropertyStatusPending).Count(&stats.Properties.Pending)
	ac.DB.Model(&models.Property{}).Where("status = ?", models.PropertyStatusExpired).Count(&stats.Properties.Expired)
	ac.DB.Model(&models.Property{}).Where("status = ?", models.PropertyStatusPaused).Count(&stats.Properties.Paused)

	ac.DB.Model(&models.User{}).Count(&stats.Users)
	ac.DB.Model(&models.UserRole{}).Where("role = ?", models.RoleOwner).Count(&stats.Owners)

	ac.DB.Model(&models.Lead{}).Count(&stats.Leads)
	weekAgo := time.Now().Add(-7 * 24 * time.Hour)
	ac.DB.Model(&models.Lead{}).Where("created_at >= ?", weekAgo).Count(&stats.LeadsLast7d)

	ac.DB.Model(&models.City{}).Count(&stats.Cities)
	ac.DB.Model(&models.FormSubmission{}).Count(&stats.Submissions)

	return c.JSON(utils.SuccessResponse(stats))
}

// GetUsers returns a paginated user list with roles. Admin only.
func (ac *AdminController) GetUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	query := ac.DB.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		query = query.Where("email LIKE ? OR name LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Preload("Roles").Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch users", err)
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  users,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetAllProperties returns a paginated listing view across every
// status. Admin only; the public feed never leaves active.
func (ac *AdminController) GetAllProperties(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	query := ac.DB.Model(&models.Property{}).Preload("City").Preload("Type")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if cityID := c.Query("city_id"); cityID != "" {
		query = query.Where("city_id = ?", utils.ParseUint(cityID))
	}

	var total int64
	query.Count(&total)

	var properties []models.Property
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&properties).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch properties", err)
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  properties,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetPendingProperties lists listings awaiting approval, oldest first.
func (ac *AdminController) GetPendingProperties(c *fiber.Ctx) error {
	var properties []models.Property
	if err := ac.DB.Preload("City").Preload("Type").Preload("Photos").
		Where("status = ?", models.PropertyStatusPending).
		Order("created_at ASC").
		Find(&properties).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch pending properties", err)
	}

	return c.JSON(utils.SuccessResponse(properties))
}
