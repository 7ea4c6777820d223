package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"imovelhub/models"
)

func seedActiveProperty(t *testing.T, db *gorm.DB, ownerID, cityID uint) *models.Property {
	t.Helper()

	property := models.Property{
		OwnerID:      ownerID,
		CityID:       cityID,
		Finalidade:   models.FinalidadeBuy,
		Status:       models.PropertyStatusActive,
		Address:      "Rua A",
		Price:        100000,
		PropertyCode: "IMV-0001",
	}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("seeding property: %v", err)
	}
	return &property
}

func TestCreateLeadAnonymous(t *testing.T) {
	db := newTestDB(t)
	city := createCity(t, db, "Santos", "SP")
	owner := createUser(t, db, "owner@test.com", models.RoleOwner)
	property := seedActiveProperty(t, db, owner.ID, city.ID)

	lc := NewLeadController(db, testLogger())
	app := fiber.New()
	app.Post("/properties/:id/leads", lc.CreateLead)

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/properties/%d/leads", property.ID), fiber.Map{
		"name":    "Maria Souza",
		"phone":   "13988887777",
		"message": "Tenho interesse neste imóvel",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var lead models.Lead
	if err := db.First(&lead).Error; err != nil {
		t.Fatalf("lead was not created: %v", err)
	}
	if lead.PropertyID != property.ID {
		t.Errorf("lead property = %d, want %d", lead.PropertyID, property.ID)
	}
	if lead.UserID != nil {
		t.Error("anonymous lead must not carry a user id")
	}
}

func TestCreateLeadUnknownProperty(t *testing.T) {
	db := newTestDB(t)

	lc := NewLeadController(db, testLogger())
	app := fiber.New()
	app.Post("/properties/:id/leads", lc.CreateLead)

	resp := doJSON(t, app, http.MethodPost, "/properties/999/leads", fiber.Map{
		"name":  "Maria Souza",
		"phone": "13988887777",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	var count int64
	db.Model(&models.Lead{}).Count(&count)
	if count != 0 {
		t.Errorf("no lead may be created for an unknown property, found %d", count)
	}
}

func TestCreateLeadValidation(t *testing.T) {
	db := newTestDB(t)
	city := createCity(t, db, "Santos", "SP")
	owner := createUser(t, db, "owner@test.com", models.RoleOwner)
	property := seedActiveProperty(t, db, owner.ID, city.ID)

	lc := NewLeadController(db, testLogger())
	app := fiber.New()
	app.Post("/properties/:id/leads", lc.CreateLead)

	// Phone is mandatory for a lead.
	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/properties/%d/leads", property.ID), fiber.Map{
		"name": "Maria Souza",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without a phone, got %d", resp.StatusCode)
	}
}

func TestGetPropertyLeadsRestricted(t *testing.T) {
	db := newTestDB(t)
	city := createCity(t, db, "Santos", "SP")
	owner := createUser(t, db, "owner@test.com", models.RoleOwner)
	stranger := createUser(t, db, "stranger@test.com", models.RoleOwner)
	admin := createUser(t, db, "admin@test.com", models.RoleAdmin)
	property := seedActiveProperty(t, db, owner.ID, city.ID)

	db.Create(&models.Lead{PropertyID: property.ID, Name: "Maria", Phone: "139"})

	lc := NewLeadController(db, testLogger())
	path := fmt.Sprintf("/properties/%d/leads", property.ID)

	for _, tc := range []struct {
		name string
		user *models.User
		want int
	}{
		{"owner", owner, http.StatusOK},
		{"admin", admin, http.StatusOK},
		{"stranger", stranger, http.StatusForbidden},
	} {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/properties/:id/leads", withUser(tc.user), lc.GetPropertyLeads)

			resp := doJSON(t, app, http.MethodGet, path, nil)
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestGetMyLeadsScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	city := createCity(t, db, "Santos", "SP")
	owner := createUser(t, db, "owner@test.com", models.RoleOwner)
	other := createUser(t, db, "other@test.com", models.RoleOwner)

	mine := seedActiveProperty(t, db, owner.ID, city.ID)
	theirs := models.Property{
		OwnerID:      other.ID,
		CityID:       city.ID,
		Finalidade:   models.FinalidadeBuy,
		Status:       models.PropertyStatusActive,
		Address:      "Rua B",
		Price:        200000,
		PropertyCode: "IMV-0002",
	}
	db.Create(&theirs)

	db.Create(&models.Lead{PropertyID: mine.ID, Name: "Maria", Phone: "139"})
	db.Create(&models.Lead{PropertyID: theirs.ID, Name: "José", Phone: "139"})

	lc := NewLeadController(db, testLogger())
	app := fiber.New()
	app.Get("/my/leads", withUser(owner), lc.GetMyLeads)

	resp := doJSON(t, app, http.MethodGet, "/my/leads", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data []models.Lead `json:"data"`
	}
	decodeBody(t, resp, &body)
	if len(body.Data) != 1 {
		t.Fatalf("lead count = %d, want 1", len(body.Data))
	}
	if body.Data[0].PropertyID != mine.ID {
		t.Errorf("lead property = %d, want %d", body.Data[0].PropertyID, mine.ID)
	}
}
