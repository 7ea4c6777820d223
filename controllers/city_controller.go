package controller

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"imovelhub/models"
	"imovelhub/utils"
)

type CityController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewCityController(db *gorm.DB, logger *log.Logger) *CityController {
	return &CityController{DB: db, Logger: logger}
}

type cityInput struct {
	Name        string `json:"name" validate:"required,max=150"`
	State       string `json:"state" validate:"required,len=2"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// GetCities lists all cities ordered by name. Public.
func (cc *CityController) GetCities(c *fiber.Ctx) error {
	var cities []models.City
	if err := cc.DB.Order("name").Find(&cities).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch cities", err)
	}
	return c.JSON(utils.SuccessResponse(cities))
}

// CreateCity adds a city. Admin only. Cities are unique by name+state.
func (cc *CityController) CreateCity(c *fiber.Ctx) error {
	var input cityInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	input.State = strings.ToUpper(input.State)

	var existing models.City
	if err := cc.DB.Where("name = ? AND state = ?", input.Name, input.State).First(&existing).Error; err == nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "City already exists", nil)
	}

	city := models.City{
		Name:        input.Name,
		State:       input.State,
		Slug:        utils.Slugify(input.Name + "-" + input.State),
		Description: input.Description,
	}

	if err := cc.DB.Create(&city).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create city", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(city))
}

// UpdateCity edits a city. Admin only.
func (cc *CityController) UpdateCity(c *fiber.Ctx) error {
	var city models.City
	if err := cc.DB.First(&city, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "City not found", nil)
	}

	var input cityInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	input.State = strings.ToUpper(input.State)

	if err := cc.DB.Model(&city).Updates(map[string]interface{}{
		"name":        input.Name,
		"state":       input.State,
		"slug":        utils.Slugify(input.Name + "-" + input.State),
		"description": input.Description,
	}).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update city", err)
	}

	return c.JSON(utils.SuccessResponse(city))
}

// DeleteCity removes a city without listings. Admin only.
func (cc *CityController) DeleteCity(c *fiber.Ctx) error {
	var city models.City
	if err := cc.DB.First(&city, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "City not found", nil)
	}

	var count int64
	cc.DB.Model(&models.Property{}).Where("city_id = ?", city.ID).Count(&count)
	if count > 0 {
		return utils.ErrorResponse(c, fiber.StatusConflict, "City has properties and cannot be deleted", nil)
	}

	if err := cc.DB.Delete(&city).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete city", err)
	}

	return c.JSON(fiber.Map{"message": "City deleted"})
}
