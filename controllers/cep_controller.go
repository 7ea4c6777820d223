package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"imovelhub/utils"
)

type CEPController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewCEPController(db *gorm.DB, logger *log.Logger) *CEPController {
	return &CEPController{DB: db, Logger: logger}
}

// LookupCEP resolves a Brazilian postal code to an address via ViaCEP.
// Malformed codes are rejected before any network call.
func (cc *CEPController) LookupCEP(c *fiber.Ctx) error {
	address, err := utils.FetchAddressByCEP(c.Params("cep"))
	if err != nil {
		switch err {
		case utils.ErrInvalidCEP:
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "CEP must have exactly 8 digits", nil)
		case utils.ErrCEPNotFound:
			return utils.ErrorResponse(c, fiber.StatusNotFound, "CEP not found", nil)
		default:
			utils.LogError("viacep_lookup", err, map[string]interface{}{"cep": c.Params("cep")})
			return utils.ErrorResponse(c, fiber.StatusBadGateway, "CEP service unavailable", err)
		}
	}

	return c.JSON(utils.SuccessResponse(address))
}
