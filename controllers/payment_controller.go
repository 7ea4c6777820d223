package controller

import (
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/charge"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"gorm.io/gorm"

	"imovelhub/config"
	"imovelhub/models"
	"imovelhub/utils"
)

func InitStripe() {
	stripe.Key = config.AppConfig.StripeSecretKey
}

type PaymentController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewPaymentController(db *gorm.DB, logger *log.Logger) *PaymentController {
	return &PaymentController{DB: db, Logger: logger}
}

type CheckoutRequest struct {
	PlanID     uint `json:"plan_id" validate:"required"`
	PropertyID uint `json:"property_id" validate:"required"`
}

// CreateCheckoutIntent starts a Stripe payment for a plan on one of the
// caller's listings and records a pending transaction. The plan is only
// attached once the webhook confirms payment.
func (pc *PaymentController) CreateCheckoutIntent(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var plan models.Plan
	if err := pc.DB.Where("active = ?", true).First(&plan, req.PlanID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Plan not found", nil)
	}

	var property models.Property
	if err := pc.DB.First(&property, req.PropertyID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Property not found", nil)
	}
	if property.OwnerID != user.ID && !user.IsAdmin() {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Access denied", nil)
	}

	customerID, err := pc.getOrCreateStripeCustomer(user)
	if err != nil {
		utils.LogError("stripe_customer", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to process payment", err)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(plan.Price)),
		Currency: stripe.String(string(stripe.CurrencyBRL)),
		Customer: stripe.String(customerID),
		Metadata: map[string]string{
			"user_id":     strconv.Itoa(int(user.ID)),
			"plan_id":     strconv.Itoa(int(plan.ID)),
			"property_id": strconv.Itoa(int(property.ID)),
		},
		Description: stripe.String("Plano " + plan.Name + " para " + property.PropertyCode),
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		utils.LogError("stripe_payment_intent", err, map[string]interface{}{
			"user_id": user.ID,
			"plan_id": plan.ID,
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to process payment", err)
	}

	transaction := models.PlanTransaction{
		UserID:                user.ID,
		PlanID:                plan.ID,
		PropertyID:            &property.ID,
		Amount:                plan.Price,
		Currency:              "brl",
		PaymentStatus:         "pending",
		StripePaymentIntentID: pi.ID,
		Description:           "Plano " + plan.Name + " para " + property.PropertyCode,
	}

	if err := pc.DB.Create(&transaction).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to record transaction", err)
	}

	return c.JSON(fiber.Map{
		"clientSecret":   pi.ClientSecret,
		"transaction_id": transaction.ID,
		"amount":         plan.Price,
		"currency":       "brl",
	})
}

// HandleStripeWebhook processes Stripe webhook events. The endpoint is
// unauthenticated; the signature check in ConstructStripeEvent is the
// gate.
func (pc *PaymentController) HandleStripeWebhook(c *fiber.Ctx) error {
	event, err := utils.ConstructStripeEvent(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid webhook payload", err)
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Error parsing payment intent", err)
		}
		return pc.handlePaymentSucceeded(c, &pi)

	case "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Error parsing payment intent", err)
		}
		return pc.handlePaymentFailed(c, &pi)

	default:
		return c.SendStatus(fiber.StatusOK)
	}
}

// handlePaymentSucceeded marks the transaction paid, activates the plan
// association and pushes the listing's expiration out to cover it.
func (pc *PaymentController) handlePaymentSucceeded(c *fiber.Ctx, pi *stripe.PaymentIntent) error {
	var transaction models.PlanTransaction
	if err := pc.DB.Where("stripe_payment_intent_id = ?", pi.ID).First(&transaction).Error; err != nil {
		utils.LogError("stripe_webhook", err, map[string]interface{}{"payment_intent_id": pi.ID})
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Transaction not found", nil)
	}

	if transaction.PaymentStatus == "succeeded" {
		// Stripe retries webhooks; the plan is already attached.
		return c.SendStatus(fiber.StatusOK)
	}

	transaction.PaymentStatus = "succeeded"
	if pi.PaymentMethod != nil {
		transaction.PaymentMethod = string(pi.PaymentMethod.Type)
	}
	if pi.LatestCharge != nil {
		if ch, err := charge.Get(pi.LatestCharge.ID, nil); err == nil {
			transaction.StripeChargeID = ch.ID
			transaction.ReceiptURL = ch.ReceiptURL
		}
	}

	var plan models.Plan
	if err := pc.DB.First(&plan, transaction.PlanID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Plan not found", nil)
	}

	now := time.Now()
	expiresAt := now.AddDate(0, 0, plan.DurationDays)

	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&transaction).Error; err != nil {
			return err
		}

		if transaction.PropertyID != nil {
			propertyPlan := models.PropertyPlan{
				PropertyID: *transaction.PropertyID,
				PlanID:     plan.ID,
				UserID:     transaction.UserID,
				StartedAt:  now,
				ExpiresAt:  expiresAt,
				Status:     models.PlanStatusActive,
			}
			if err := tx.Create(&propertyPlan).Error; err != nil {
				return err
			}

			// A paid listing outlives the free trial window.
			if err := tx.Model(&models.Property{}).
				Where("id = ?", *transaction.PropertyID).
				Update("expires_at", expiresAt).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.LogError("plan_activation", err, map[string]interface{}{
			"transaction_id": transaction.ID,
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to activate plan", err)
	}

	utils.LogEvent("plan_activated", map[string]interface{}{
		"transaction_id": transaction.ID,
		"plan_id":        plan.ID,
		"user_id":        transaction.UserID,
	})

	return c.SendStatus(fiber.StatusOK)
}

// handlePaymentFailed marks the transaction failed.
func (pc *PaymentController) handlePaymentFailed(c *fiber.Ctx, pi *stripe.PaymentIntent) error {
	var transaction models.PlanTransaction
	if err := pc.DB.Where("stripe_payment_intent_id = ?", pi.ID).First(&transaction).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Transaction not found", nil)
	}

	transaction.PaymentStatus = "failed"
	if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
		transaction.Description = "Payment failed: " + pi.LastPaymentError.Msg
	}

	if err := pc.DB.Save(&transaction).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update transaction", err)
	}

	return c.SendStatus(fiber.StatusOK)
}

// GetMyTransactions lists the caller's plan purchases.
func (pc *PaymentController) GetMyTransactions(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var transactions []models.PlanTransaction
	if err := pc.DB.Preload("Plan").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch transactions", err)
	}

	return c.JSON(utils.SuccessResponse(transactions))
}

// GetPropertyPlans lists plan associations for a listing. Owner or
// admin.
func (pc *PaymentController) GetPropertyPlans(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var property models.Property
	if err := pc.DB.First(&property, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Property not found", nil)
	}
	if property.OwnerID != user.ID && !user.IsAdmin() {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Access denied", nil)
	}

	var plans []models.PropertyPlan
	if err := pc.DB.Preload("Plan").
		Where("property_id = ?", property.ID).
		Order("created_at DESC").
		Find(&plans).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch property plans", err)
	}

	return c.JSON(utils.SuccessResponse(plans))
}

// getOrCreateStripeCustomer resolves the user's Stripe customer,
// creating one on first checkout.
func (pc *PaymentController) getOrCreateStripeCustomer(user *models.User) (string, error) {
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Name:  stripe.String(user.Name),
		Metadata: map[string]string{
			"user_id": strconv.Itoa(int(user.ID)),
		},
	}

	cust, err := customer.New(params)
	if err != nil {
		return "", err
	}

	user.StripeCustomerID = &cust.ID
	if err := pc.DB.Model(user).Update("stripe_customer_id", cust.ID).Error; err != nil {
		return "", err
	}

	return cust.ID, nil
}
