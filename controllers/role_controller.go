package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"imovelhub/models"
	"imovelhub/utils"
)

type RoleController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewRoleController(db *gorm.DB, logger *log.Logger) *RoleController {
	return &RoleController{DB: db, Logger: logger}
}

// GetMyRoles returns the caller's roles.
func (rc *RoleController) GetMyRoles(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	return c.JSON(fiber.Map{
		"roles":    user.RoleNames(),
		"is_admin": user.IsAdmin(),
		"is_owner": user.IsOwner(),
	})
}

// BecomeOwner grants the caller the owner role. Self-service: any
// authenticated account can start listing properties, the admin gate is
// the per-listing approval step.
func (rc *RoleController) BecomeOwner(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	if user.HasRole(models.RoleOwner) {
		return c.JSON(fiber.Map{"message": "Already an owner"})
	}

	role := models.UserRole{UserID: user.ID, Role: models.RoleOwner}
	if err := rc.DB.Create(&role).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to assign role", err)
	}

	rc.Logger.Printf("User %d became an owner", user.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Owner role granted"})
}

// UpdateProfile edits the caller's name and phone.
func (rc *RoleController) UpdateProfile(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Name  string `json:"name" validate:"required,max=150"`
		Phone string `json:"phone" validate:"omitempty,max=20"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	updates := map[string]interface{}{"name": input.Name}
	if input.Phone != "" {
		updates["phone"] = input.Phone
	}

	if err := rc.DB.Model(user).Updates(updates).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update profile", err)
	}

	return c.JSON(fiber.Map{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"phone": user.Phone,
	})
}

// AssignRole grants an arbitrary role to a user. Admin only.
func (rc *RoleController) AssignRole(c *fiber.Ctx) error {
	var input struct {
		UserID uint   `json:"user_id" validate:"required"`
		Role   string `json:"role" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if !models.ValidRole(input.Role) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown role", nil)
	}
	role := models.AppRole(input.Role)

	var user models.User
	if err := rc.DB.Preload("Roles").First(&user, input.UserID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found", nil)
	}
	if user.HasRole(role) {
		return c.JSON(fiber.Map{"message": "Role already assigned"})
	}

	if err := rc.DB.Create(&models.UserRole{UserID: user.ID, Role: role}).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to assign role", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Role assigned"})
}

// RevokeRole removes a role from a user. Admin only.
func (rc *RoleController) RevokeRole(c *fiber.Ctx) error {
	var input struct {
		UserID uint   `json:"user_id" validate:"required"`
		Role   string `json:"role" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	result := rc.DB.Where("user_id = ? AND role = ?", input.UserID, input.Role).
		Delete(&models.UserRole{})
	if result.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to revoke role", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Role assignment not found", nil)
	}

	return c.JSON(fiber.Map{"message": "Role revoked"})
}
