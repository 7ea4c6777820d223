package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"imovelhub/config"
)

// ConstructStripeEvent securely constructs and verifies a Stripe webhook event
func ConstructStripeEvent(c *fiber.Ctx) (stripe.Event, error) {
	payload := c.Body()

	signature := c.Get("Stripe-Signature")
	if signature == "" {
		LogError("stripe_webhook", fiber.NewError(fiber.StatusBadRequest, "missing signature"), map[string]interface{}{
			"ip": c.IP(),
		})
		return stripe.Event{}, fiber.NewError(fiber.StatusBadRequest, "Missing Stripe-Signature header")
	}

	// Tolerance covers clock drift between Stripe and this host.
	event, err := webhook.ConstructEventWithTolerance(
		payload,
		signature,
		config.AppConfig.StripeWebhookSecret,
		5*time.Minute,
	)
	if err != nil {
		LogError("stripe_webhook", err, map[string]interface{}{
			"signature_prefix": signature[:min(10, len(signature))],
		})
		return stripe.Event{}, fiber.NewError(fiber.StatusBadRequest, "Invalid webhook signature")
	}

	LogEvent("stripe_webhook_verified", map[string]interface{}{
		"event_id":   event.ID,
		"event_type": event.Type,
	})

	return event, nil
}
