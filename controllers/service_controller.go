package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"imovelhub/models"
	"imovelhub/utils"
)

type ServiceController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewServiceController(db *gorm.DB, logger *log.Logger) *ServiceController {
	return &ServiceController{DB: db, Logger: logger}
}

type serviceInput struct {
	Name            string  `json:"name" validate:"required,max=150"`
	Description     string  `json:"description" validate:"omitempty,max=1000"`
	Price           float64 `json:"price" validate:"required,gt=0"`
	PhotosIncluded  bool    `json:"photos_included"`
	VideoIncluded   bool    `json:"video_included"`
	LegalAssistance bool    `json:"legal_assistance"`
}

// GetServices lists the add-on services. Public.
func (sc *ServiceController) GetServices(c *fiber.Ctx) error {
	var services []models.Service
	if err := sc.DB.Order("price").Find(&services).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch services", err)
	}
	return c.JSON(utils.SuccessResponse(services))
}

// CreateService adds an add-on service. Admin only.
func (sc *ServiceController) CreateService(c *fiber.Ctx) error {
	var input serviceInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	service := models.Service{
		Name:            input.Name,
		Description:     input.Description,
		Price:           input.Price,
		PhotosIncluded:  input.PhotosIncluded,
		VideoIncluded:   input.VideoIncluded,
		LegalAssistance: input.LegalAssistance,
	}

	if err := sc.DB.Create(&service).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create service", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(service))
}

// UpdateService edits an add-on service. Admin only.
func (sc *ServiceController) UpdateService(c *fiber.Ctx) error {
	var service models.Service
	if err := sc.DB.First(&service, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Service not found", nil)
	}

	var input serviceInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	updates := map[string]interface{}{
		"name":             input.Name,
		"description":      input.Description,
		"price":            input.Price,
		"photos_included":  input.PhotosIncluded,
		"video_included":   input.VideoIncluded,
		"legal_assistance": input.LegalAssistance,
	}

	if err := sc.DB.Model(&service).Updates(updates).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update service", err)
	}

	return c.JSON(utils.SuccessResponse(service))
}

// DeleteService removes an add-on service. Admin only. Existing orders
// keep their soft-deleted reference.
func (sc *ServiceController) DeleteService(c *fiber.Ctx) error {
	var service models.Service
	if err := sc.DB.First(&service, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Service not found", nil)
	}

	if err := sc.DB.Delete(&service).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete service", err)
	}

	return c.JSON(fiber.Map{"message": "Service deleted"})
}

// CreateServiceOrder requests a service for one of the caller's
// listings.
func (sc *ServiceController) CreateServiceOrder(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		PropertyID uint `json:"property_id" validate:"required"`
		ServiceID  uint `json:"service_id" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var property models.Property
	if err := sc.DB.First(&property, input.PropertyID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Property not found", nil)
	}
	if property.OwnerID != user.ID && !user.IsAdmin() {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Access denied", nil)
	}

	var service models.Service
	if err := sc.DB.First(&service, input.ServiceID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Service not found", nil)
	}

	order := models.ServiceOrder{
		PropertyID: property.ID,
		ServiceID:  service.ID,
		UserID:     user.ID,
		Status:     models.ServiceOrderPending,
	}

	if err := sc.DB.Create(&order).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create service order", err)
	}

	sc.Logger.Printf("Service order %d created for property %s", order.ID, property.PropertyCode)
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(order))
}

// GetMyServiceOrders lists the caller's service orders.
func (sc *ServiceController) GetMyServiceOrders(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var orders []models.ServiceOrder
	if err := sc.DB.Preload("Service").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch service orders", err)
	}

	return c.JSON(utils.SuccessResponse(orders))
}

// GetAllServiceOrders returns a paginated view of every order. Admin
// only.
func (sc *ServiceController) GetAllServiceOrders(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	query := sc.DB.Model(&models.ServiceOrder{}).Preload("Service")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var orders []models.ServiceOrder
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch service orders", err)
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  orders,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// UpdateServiceOrderStatus moves an order through its lifecycle. Admin
// only.
func (sc *ServiceController) UpdateServiceOrderStatus(c *fiber.Ctx) error {
	var order models.ServiceOrder
	if err := sc.DB.First(&order, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Service order not found", nil)
	}

	var input struct {
		Status string `json:"status" validate:"required,oneof=pending completed cancelled"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if err := sc.DB.Model(&order).Update("status", models.ServiceOrderStatus(input.Status)).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update service order", err)
	}

	return c.JSON(utils.SuccessResponse(order))
}
