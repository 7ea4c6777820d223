package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"

	controller "imovelhub/controllers"
	"imovelhub/middleware"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)
	auth.Post("/refresh", controller.RefreshToken)

	// Google OAuth
	auth.Get("/google", controller.GoogleOAuth)
	auth.Get("/google/callback", controller.GoogleOAuthCallback)

	// Protected auth endpoints
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", controller.Logout)
	protectedAuth.Post("/change-password", controller.ChangePassword)
	protectedAuth.Get("/me", controller.GetCurrentUser)
}

func SetupPublicRoutes(app *fiber.App, db *gorm.DB) {
	propertyController := controller.NewPropertyController(db, log.New(os.Stdout, "PROPERTY: ", log.LstdFlags))
	cityController := controller.NewCityController(db, log.New(os.Stdout, "CITY: ", log.LstdFlags))
	typeController := controller.NewPropertyTypeController(db, log.New(os.Stdout, "TYPE: ", log.LstdFlags))
	planController := controller.NewPlanController(db, log.New(os.Stdout, "PLAN: ", log.LstdFlags))
	serviceController := controller.NewServiceController(db, log.New(os.Stdout, "SERVICE: ", log.LstdFlags))
	leadController := controller.NewLeadController(db, log.New(os.Stdout, "LEAD: ", log.LstdFlags))
	cepController := controller.NewCEPController(db, log.New(os.Stdout, "CEP: ", log.LstdFlags))
	paymentController := controller.NewPaymentController(db, log.New(os.Stdout, "PAYMENT: ", log.LstdFlags))

	public := app.Group("/api/v1", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Listing catalog
	public.Get("/properties", propertyController.GetProperties)
	public.Get("/properties/featured", propertyController.GetFeatured)
	public.Get("/properties/carousel", propertyController.GetCarousel)
	public.Get("/properties/:id", propertyController.GetProperty)

	// Lead capture, rate-limited per IP and listing
	public.Post("/properties/:id/leads", middleware.LeadRateLimiter(), leadController.CreateLead)

	// Reference data
	public.Get("/cities", cityController.GetCities)
	public.Get("/property-types", typeController.GetPropertyTypes)
	public.Get("/plans", planController.GetPlans)
	public.Get("/plans/:id", planController.GetPlan)
	public.Get("/services", serviceController.GetServices)
	public.Get("/cep/:cep", cepController.LookupCEP)

	// Stripe calls this; the signature header is the authentication.
	app.Post("/webhooks/stripe", paymentController.HandleStripeWebhook)
}

func SetupProtectedRoutes(app *fiber.App, db *gorm.DB) {
	propertyController := controller.NewPropertyController(db, log.New(os.Stdout, "PROPERTY: ", log.LstdFlags))
	leadController := controller.NewLeadController(db, log.New(os.Stdout, "LEAD: ", log.LstdFlags))
	formController := controller.NewFormController(db, log.New(os.Stdout, "FORM: ", log.LstdFlags))
	paymentController := controller.NewPaymentController(db, log.New(os.Stdout, "PAYMENT: ", log.LstdFlags))
	roleController := controller.NewRoleController(db, log.New(os.Stdout, "ROLE: ", log.LstdFlags))
	serviceController := controller.NewServiceController(db, log.New(os.Stdout, "SERVICE: ", log.LstdFlags))

	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Profile and roles
	api.Get("/profile/roles", roleController.GetMyRoles)
	api.Put("/profile", roleController.UpdateProfile)
	api.Post("/profile/become-owner", roleController.BecomeOwner)

	// Listings owned by the caller. Writes require the owner role.
	my := api.Group("/my")
	my.Get("/properties", propertyController.GetMyProperties)
	my.Get("/leads", leadController.GetMyLeads)
	my.Get("/transactions", paymentController.GetMyTransactions)
	my.Get("/service-orders", serviceController.GetMyServiceOrders)

	properties := api.Group("/properties", middleware.RequireOwner())
	properties.Post("/", propertyController.CreateProperty)
	properties.Put("/:id", propertyController.UpdateProperty)
	properties.Delete("/:id", propertyController.DeleteProperty)
	properties.Post("/:id/renew", propertyController.RenewProperty)
	properties.Get("/:id/leads", leadController.GetPropertyLeads)
	properties.Get("/:id/plans", paymentController.GetPropertyPlans)
	properties.Get("/:id/submissions", formController.GetPropertySubmissions)

	// Signed intake forms
	forms := api.Group("/forms", middleware.RequireOwner())
	forms.Get("/templates", formController.GetTemplates)
	forms.Post("/captacao", formController.SubmitCaptacao)
	forms.Post("/autorizacao", formController.SubmitAuthorization)

	// Plan checkout and add-on services
	api.Post("/checkout/intent", middleware.RequireOwner(), paymentController.CreateCheckoutIntent)
	api.Post("/service-orders", middleware.RequireOwner(), serviceController.CreateServiceOrder)
}

func SetupAdminRoutes(app *fiber.App, db *gorm.DB) {
	propertyController := controller.NewPropertyController(db, log.New(os.Stdout, "PROPERTY: ", log.LstdFlags))
	cityController := controller.NewCityController(db, log.New(os.Stdout, "CITY: ", log.LstdFlags))
	typeController := controller.NewPropertyTypeController(db, log.New(os.Stdout, "TYPE: ", log.LstdFlags))
	planController := controller.NewPlanController(db, log.New(os.Stdout, "PLAN: ", log.LstdFlags))
	serviceController := controller.NewServiceController(db, log.New(os.Stdout, "SERVICE: ", log.LstdFlags))
	leadController := controller.NewLeadController(db, log.New(os.Stdout, "LEAD: ", log.LstdFlags))
	formController := controller.NewFormController(db, log.New(os.Stdout, "FORM: ", log.LstdFlags))
	roleController := controller.NewRoleController(db, log.New(os.Stdout, "ROLE: ", log.LstdFlags))
	adminController := controller.NewAdminController(db, log.New(os.Stdout, "ADMIN: ", log.LstdFlags))

	admin := app.Group("/api/v1/admin", middleware.Protected(), middleware.RequireAdmin(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	admin.Get("/stats", adminController.GetAdminStats)
	admin.Get("/users", adminController.GetUsers)
	admin.Get("/properties", adminController.GetAllProperties)
	admin.Get("/properties/pending", adminController.GetPendingProperties)

	// Listing moderation
	admin.Post("/properties/:id/approve", propertyController.ApproveProperty)
	admin.Put("/properties/:id/status", propertyController.UpdatePropertyStatus)
	admin.Post("/properties/:id/featured", propertyController.ToggleFeatured)
	admin.Post("/properties/:id/carousel", propertyController.ToggleCarousel)

	// Reference data management
	admin.Post("/cities", cityController.CreateCity)
	admin.Put("/cities/:id", cityController.UpdateCity)
	admin.Delete("/cities/:id", cityController.DeleteCity)

	admin.Post("/property-types", typeController.CreatePropertyType)
	admin.Put("/property-types/:id", typeController.UpdatePropertyType)
	admin.Delete("/property-types/:id", typeController.DeletePropertyType)

	admin.Post("/plans", planController.CreatePlan)
	admin.Put("/plans/:id", planController.UpdatePlan)
	admin.Delete("/plans/:id", planController.DeletePlan)

	admin.Post("/services", serviceController.CreateService)
	admin.Put("/services/:id", serviceController.UpdateService)
	admin.Delete("/services/:id", serviceController.DeleteService)

	admin.Post("/form-templates", formController.CreateTemplate)
	admin.Put("/form-templates/:id", formController.UpdateTemplate)

	// Leads and orders
	admin.Get("/leads", leadController.GetAllLeads)
	admin.Get("/service-orders", serviceController.GetAllServiceOrders)
	admin.Put("/service-orders/:id/status", serviceController.UpdateServiceOrderStatus)

	// Role management
	admin.Post("/roles/assign", roleController.AssignRole)
	admin.Post("/roles/revoke", roleController.RevokeRole)

	// Live lead feed for the dashboard
	app.Get("/api/v1/admin/leads/feed", middleware.Protected(), middleware.RequireAdmin(), websocket.New(func(c *websocket.Conn) {
		controller.HandleLeadFeedWS(c)
	}))
}

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	controller.InitStripe()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app, db)
	SetupPublicRoutes(app, db)
	SetupProtectedRoutes(app, db)
	SetupAdminRoutes(app, db)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})

	log.Println("Routes initialized successfully")
}
