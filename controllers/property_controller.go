package controller

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"imovelhub/models"
	"imovelhub/utils"
)

type PropertyController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewPropertyController(db *gorm.DB, logger *log.Logger) *PropertyController {
	return &PropertyController{
		DB:     db,
		Logger: logger,
	}
}

type propertyInput struct {
	CityID        uint    `json:"city_id" validate:"required"`
	TypeID        uint    `json:"type_id" validate:"required"`
	Finalidade    string  `json:"finalidade" validate:"required,finalidade"`
	Address       string  `json:"address" validate:"required,max=300"`
	Neighborhood  string  `json:"neighborhood" validate:"omitempty,max=150"`
	Description   string  `json:"description" validate:"omitempty,max=5000"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	Bedrooms      *int    `json:"bedrooms" validate:"omitempty,min=0"`
	Bathrooms     *int    `json:"bathrooms" validate:"omitempty,min=0"`
	ParkingSpaces *int    `json:"parking_spaces" validate:"omitempty,min=0"`
	Area          *float64 `json:"area" validate:"omitempty,gt=0"`
	PhotoURLs     []string `json:"photo_urls" validate:"omitempty,max=20"`
}

// CreateProperty registers a new listing. Admin-created listings go
// live immediately as verified; everyone else starts a pending
// owner-direct trial that needs approval.
func (pc *PropertyController) CreateProperty(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	// The route group already requires the owner role; this check keeps
	// the gate in front of every write even if the route moves.
	if !user.IsOwner() {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Access denied", nil)
	}

	var input propertyInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var city models.City
	if err := pc.DB.First(&city, input.CityID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "City not found", nil)
	}

	var propertyType models.PropertyType
	if err := pc.DB.First(&propertyType, input.TypeID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Property type not found", nil)
	}

	property := models.Property{
		OwnerID:       user.ID,
		CityID:        city.ID,
		TypeID:        &propertyType.ID,
		Finalidade:    models.Finalidade(input.Finalidade),
		Address:       input.Address,
		Neighborhood:  input.Neighborhood,
		Description:   input.Description,
		Price:         input.Price,
		Bedrooms:      input.Bedrooms,
		Bathrooms:     input.Bathrooms,
		ParkingSpaces: input.ParkingSpaces,
		Area:          input.Area,
	}

	if user.IsAdmin() {
		// Curated listing: no separate approval step.
		property.Status = models.PropertyStatusActive
		property.Verified = true
		property.IsOwnerDirect = false
	} else {
		property.Status = models.PropertyStatusPending
		property.Verified = false
		property.IsOwnerDirect = true
		expiresAt := time.Now().Add(models.TrialDuration)
		property.ExpiresAt = &expiresAt
	}

	if err := utils.CreatePropertyWithCode(pc.DB, &property, &propertyType); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create property", err)
	}

	for i, url := range input.PhotoURLs {
		photo := models.PropertyPhoto{
			PropertyID: property.ID,
			URL:        url,
			IsMain:     i == 0,
		}
		if err := pc.DB.Create(&photo).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save photo", err)
		}
	}

	pc.Logger.Printf("Property %s created by user %d (status %s)", property.PropertyCode, user.ID, property.Status)

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(property))
}

// GetProperties returns the public listing feed with filters.
func (pc *PropertyController) GetProperties(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	query := pc.DB.Model(&models.Property{}).
		Preload("City").Preload("Type").Preload("Photos").
		Where("status = ?", models.PropertyStatusActive)

	if cityID := c.Query("city_id"); cityID != "" {
		query = query.Where("city_id = ?", utils.ParseUint(cityID))
	}
	if typeID := c.Query("type_id"); typeID != "" {
		query = query.Where("type_id = ?", utils.ParseUint(typeID))
	}
	if finalidade := c.Query("finalidade"); finalidade == "buy" || finalidade == "rent" {
		query = query.Where("finalidade = ?", finalidade)
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", v)
		}
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", v)
		}
	}
	if bedrooms := c.Query("bedrooms"); bedrooms != "" {
		query = query.Where("bedrooms >= ?", utils.ParseUint(bedrooms))
	}
	if c.Query("featured") == "true" {
		query = query.Where("featured = ?", true)
	}
	if c.Query("verified") == "true" {
		query = query.Where("verified = ?", true)
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

// GetFeatured serves the featured strip, cached in Redis.
func (pc *PropertyController) GetFeatured(c *fiber.Ctx) error {
	var properties []models.Property
	if err := utils.CacheGetJSON(c.Context(), utils.FeaturedCacheKey, &properties); err == nil {
		return c.JSON(utils.SuccessResponse(properties))
	}

	if err := pc.DB.Preload("City").Preload("Type").Preload("Photos").
		Where("featured = ? AND status = ?", true, models.PropertyStatusActive).
		Limit(models.FeaturedLimit).
		Find(&properties).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch featured properties", err)
	}

	if err := utils.CacheSetJSON(c.Context(), utils.FeaturedCacheKey, properties, utils.FeaturedCacheTTL); err != nil {
		utils.LogError("cache_set", err, map[string]interface{}{"key": utils.FeaturedCacheKey})
	}

	return c.JSON(utils.SuccessResponse(properties))
}

// GetCarousel serves the home carousel, cached in Redis.
func (pc *PropertyController) GetCarousel(c *fiber.Ctx) error {
	var properties []models.Property
	if err := utils.CacheGetJSON(c.Context(), utils.CarouselCacheKey, &properties); err == nil {
		return c.JSON(utils.SuccessResponse(properties))
	}

	if err := pc.DB.Preload("City").Preload("Photos").
		Where("show_in_carousel = ? AND status = ?", true, models.PropertyStatusActive).
		Find(&properties).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch carousel properties", err)
	}

	if err := utils.CacheSetJSON(c.Context(), utils.CarouselCacheKey, properties, utils.FeaturedCacheTTL); err != nil {
		utils.LogError("cache_set", err, map[string]interface{}{"key": utils.CarouselCacheKey})
	}

	return c.JSON(utils.SuccessResponse(properties))
}

// GetProperty returns one listing by numeric ID or property code.
func (pc *PropertyController) GetProperty(c *fiber.Ctx) error {
	id := c.Params("id")

	query := pc.DB.Preload("City").Preload("Type").Preload("Photos")
	var property models.Property
	var err error
	if _, convErr := strconv.Atoi(id); convErr == nil {
		err = query.First(&property, id).Error
	} else {
		err = query.Where("property_code = ?", id).First(&property).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Property not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch property", err)
	}

	return c.JSON(utils.SuccessResponse(property))
}

// GetMyProperties lists the caller's own listings, any status.
func (pc *PropertyController) GetMyProperties(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var properties []models.Property
	if err := pc.DB.Preload("City").Preload("Type").Preload("Photos").Preload("Plans", "status = ?", models.PlanStatusActive).
		Where("owner_id = ?", user.ID).
		Order("created_at DESC").
		Find(&properties).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch properties", err)
	}

	return c.JSON(utils.SuccessResponse(properties))
}

// UpdateProperty edits a listing. Owners may edit their own; admins any.
func (pc *PropertyController) UpdateProperty(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	property, errResp := pc.loadOwnedProperty(c, user)
	if property == nil {
		return errResp
	}

	var input struct {
		Address       *string  `json:"address" validate:"omitempty,max=300"`
		Neighborhood  *string  `json:"neighborhood" validate:"omitempty,max=150"`
		Description   *string  `json:"description" validate:"omitempty,max=5000"`
		Price         *float64 `json:"price" validate:"omitempty,gt=0"`
		Bedrooms      *int     `json:"bedrooms" validate:"omitempty,min=0"`
		Bathrooms     *int     `json:"bathrooms" validate:"omitempty,min=0"`
		ParkingSpaces *int     `json:"parking_spaces" validate:"omitempty,min=0"`
		Area          *float64 `json:"area" validate:"omitempty,gt=0"`
		Finalidade    *string  `json:"finalidade" validate:"omitempty,finalidade"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	updates := map[string]interface{}{}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Neighborhood != nil {
		updates["neighborhood"] = *input.Neighborhood
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.Bedrooms != nil {
		updates["bedrooms"] = *input.Bedrooms
	}
	if input.Bathrooms != nil {
		updates["bathrooms"] = *input.Bathrooms
	}
	if input.ParkingSpaces != nil {
		updates["parking_spaces"] = *input.ParkingSpaces
	}
	if input.Area != nil {
		updates["area"] = *input.Area
	}
	if input.Finalidade != nil {
		updates["finalidade"] = *input.Finalidade
	}

	if len(updates) > 0 {
		if err := pc.DB.Model(property).Updates(updates).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update property", err)
		}
	}

	utils.CacheInvalidate(c.Context(), utils.FeaturedCacheKey, utils.CarouselCacheKey)

	return c.JSON(utils.SuccessResponse(property))
}

// DeleteProperty removes a listing. Owners may delete their own; admins any.
func (pc *PropertyController) DeleteProperty(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	property, errResp := pc.loadOwnedProperty(c, user)
	if property == nil {
		return errResp
	}

	if err := pc.DB.Delete(property).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete property", err)
	}

	utils.CacheInvalidate(c.Context(), utils.FeaturedCacheKey, utils.CarouselCacheKey)
	pc.Logger.Printf("Property %s deleted by user %d", property.PropertyCode, user.ID)

	return c.JSON(fiber.Map{"message": "Property deleted"})
}

// ApproveProperty moves a pending listing to active, marking it
// verified. Admin only.
func (pc *PropertyController) ApproveProperty(c *fiber.Ctx) error {
	var property models.Property
	if err := pc.DB.First(&property, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Property not found", nil)
	}

	if property.Status != models.PropertyStatusPending {
		return utils.ErrorResponse(c, fiber.StatusConflict,
			fmt.Sprintf("Only pending properties can be approved (current status: %s)", property.Status), nil)
	}

	if err := pc.DB.Model(&property).Updates(map[string]interface{}{
		"status":   models.PropertyStatusActive,
		"verified": true,
	}).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to approve property", err)
	}

	utils.LogEvent("property_approved", map[string]interface{}{
		"property_id":   property.ID,
		"property_code": property.PropertyCode,
	})

	return c.JSON(utils.SuccessResponse(property))
}

// UpdatePropertyStatus lets an admin override the lifecycle state.
func (pc *PropertyController) UpdatePropertyStatus(c *fiber.Ctx) error {
	var input struct {
		Status string `json:"status" validate:"required,oneof=active pending expired paused"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var property models.Property
	if err := pc.DB.First(&property, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Property not found", nil)
	}

	if err := pc.DB.Model(&property).Update("status", models.PropertyStatus(input.Status)).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update status", err)
	}

	utils.CacheInvalidate(c.Context(), utils.FeaturedCacheKey, utils.CarouselCacheKey)

	return c.JSON(utils.SuccessResponse(property))
}

// ToggleFeatured flips the featured flag. At most FeaturedLimit
// listings may be featured at once; the cap is enforced inside the
// write transaction.
func (pc *PropertyController) ToggleFeatured(c *fiber.Ctx) error {
	var property models.Property
	if err := pc.DB.First(&property, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Property not found", nil)
	}

	enabling := !property.Featured

	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		if enabling {
			var count int64
			if err := tx.Model(&models.Property{}).Where("featured = ?", true).Count(&count).Error; err != nil {
				return err
			}
			if count >= models.FeaturedLimit {
				return fmt.Errorf("featured limit of %d properties reached", models.FeaturedLimit)
			}
		}
		return tx.Model(&property).Update("featured", enabling).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Failed to toggle featured", err)
	}

	utils.CacheInvalidate(c.Context(), utils.FeaturedCacheKey)
	property.Featured = enabling

	return c.JSON(utils.SuccessResponse(property))
}

// ToggleCarousel flips the home-carousel flag. Admin only.
func (pc *PropertyController) ToggleCarousel(c *fiber.Ctx) error {
	var property models.Property
	if err := pc.DB.First(&property, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Property not found", nil)
	}

	if err := pc.DB.Model(&property).Update("show_in_carousel", !property.ShowInCarousel).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to toggle carousel", err)
	}

	utils.CacheInvalidate(c.Context(), utils.CarouselCacheKey)
	property.ShowInCarousel = !property.ShowInCarousel

	return c.JSON(utils.SuccessResponse(property))
}

// RenewProperty restarts the trial of an expired owner-direct listing.
// The listing goes back to pending and needs approval again.
func (pc *PropertyController) RenewProperty(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var property models.Property
	if err := pc.DB.First(&property, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Property not found", nil)
	}

	if property.OwnerID != user.ID && !user.IsAdmin() {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Access denied", nil)
	}

	if property.Status != models.PropertyStatusExpired {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Only expired properties can be renewed", nil)
	}
	if !property.IsOwnerDirect {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Only owner-direct properties can be renewed", nil)
	}

	expiresAt := time.Now().Add(models.TrialDuration)
	if err := pc.DB.Model(&property).Updates(map[string]interface{}{
		"status":     models.PropertyStatusPending,
		"expires_at": expiresAt,
	}).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to renew property", err)
	}

	pc.Logger.Printf("Property %s renewed by user %d", property.PropertyCode, user.ID)

	property.Status = models.PropertyStatusPending
	property.ExpiresAt = &expiresAt

	return c.JSON(utils.SuccessResponse(property))
}

// loadOwnedProperty fetches the property in :id and checks ownership.
// Returns (nil, response) when the caller may not touch it.
func (pc *PropertyController) loadOwnedProperty(c *fiber.Ctx, user *models.User) (*models.Property, error) {
	var property models.Property
	if err := pc.DB.First(&property, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorResponse(c, fiber.StatusNotFound, "Property not found", nil)
		}
		return nil, utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch property", err)
	}

	if property.OwnerID != user.ID && !user.IsAdmin() {
		return nil, utils.ErrorResponse(c, fiber.StatusForbidden, "Access denied", nil)
	}

	return &property, nil
}
