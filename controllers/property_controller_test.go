package controller

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"imovelhub/models"
)

func propertyPayload(cityID, typeID uint) fiber.Map {
	return fiber.Map{
		"city_id":    cityID,
		"type_id":    typeID,
		"finalidade": "buy",
		"address":    "Rua das Flores, 100",
		"price":      350000.0,
	}
}

func TestCreatePropertyOwnerStartsPending(t *testing.T) {
	db := newTestDB(t)
	city := createCity(t, db, "Santos", "SP")
	propertyType := createPropertyType(t, db, "Casa", "casa", "CAS")
	owner := createUser(t, db, "owner@test.com", models.RoleOwner)

	pc := NewPropertyController(db, testLogger())
	app := fiber.New()
	app.Post("/properties", withUser(owner), pc.CreateProperty)

	resp := doJSON(t, app, http.MethodPost, "/properties", propertyPayload(city.ID, propertyType.ID))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var property models.Property
	if err := db.First(&property).Error; err != nil {
		t.Fatalf("loading created property: %v", err)
	}

	if property.Status != models.PropertyStatusPending {
		t.Errorf("status = %s, want pending", property.Status)
	}
	if property.Verified {
		t.Error("owner-created property must not be verified")
	}
	if !property.IsOwnerDirect {
		t.Error("owner-created property must be owner-direct")
	}
	if property.ExpiresAt == nil {
		t.Fatal("owner-created property must carry an expiration")
	}
	until := time.Until(*property.ExpiresAt)
	if until < 29*24*time.Hour || until > 31*24*time.Hour {
		t.Errorf("expiration %v from now, want ~30 days", until)
	}
	if property.PropertyCode != "CAS-0001" {
		t.Errorf("property code = %q, want CAS-0001", property.PropertyCode)
	}
}

func TestCreatePropertyAdminGoesLive(t *testing.T) {
	db := newTestDB(t)
	city := createCity(t, db, "Santos", "SP")
	propertyType := createPropertyType(t, db, "Casa", "casa", "CAS")
	admin := createUser(t, db, "admin@test.com", models.RoleAdmin)

	pc := NewPropertyController(db, testLogger())
	app := fiber.New()
	app.Post("/properties", withUser(admin), pc.CreateProperty)

	resp := doJSON(t, app, http.MethodPost, "/properties", propertyPayload(city.ID, propertyType.ID))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var property models.Property
	if err := db.First(&property).Error; err != nil {
		t.Fatalf("loading created property: %v", err)
	}

	if property.Status != models.PropertyStatusActive {
		t.Errorf("status = %s, want active", property.Status)
	}
	if !property.Verified {
		t.Error("admin-created property must be verified")
	}
	if property.IsOwnerDirect {
		t.Error("admin-created property must not be owner-direct")
	}
	if property.ExpiresAt != nil {
		t.Error("admin-created property must not expire")
	}
}

func TestCreatePropertyBuyerDenied(t *testing.T) {
	db := newTestDB(t)
	city := createCity(t, db, "Santos", "SP")
	propertyType := createPropertyType(t, db, "Casa", "casa", "CAS")
	buyer := createUser(t, db, "buyer@test.com", models.RoleBuyer)

	pc := NewPropertyController(db, testLogger())
	app := fiber.New()
	app.Post("/properties", withUser(buyer), pc.CreateProperty)

	resp := doJSON(t, app, http.MethodPost, "/properties", propertyPayload(city.ID, propertyType.ID))
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}

	var count int64
	db.Model(&models.Property{}).Count(&count)
	if count != 0 {
		t.Errorf("denied request must not write: found %d properties", count)
	}
}

func TestToggleFeaturedEnforcesCap(t *testing.T) {
	db := newTestDB(t)
	city := createCity(t, db, "Santos", "SP")
	admin := createUser(t, db, "admin@test.com", models.RoleAdmin)

	for i := 0; i < models.FeaturedLimit; i++ {
		property := models.Property{
			OwnerID:      admin.ID,
			CityID:       city.ID,
			Finalidade:   models.FinalidadeBuy,
			Status:       models.PropertyStatusActive,
			Address:      "Rua A",
			Price:        100000,
			Featured:     true,
			PropertyCode: fmt.Sprintf("IMV-%04d", i+1),
		}
		if err := db.Create(&property).Error; err != nil {
			t.Fatalf("seeding featured property: %v", err)
		}
	}
	extra := models.Property{
		OwnerID:      admin.ID,
		CityID:       city.ID,
		Finalidade:   models.FinalidadeBuy,
		Status:       models.PropertyStatusActive,
		Address:      "Rua B",
		Price:        100000,
		PropertyCode: "IMV-0099",
	}
	if err := db.Create(&extra).Error; err != nil {
		t.Fatalf("seeding extra property: %v", err)
	}

	pc := NewPropertyController(db, testLogger())
	app := fiber.New()
	app.Post("/properties/:id/featured", withUser(admin), pc.ToggleFeatured)

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/properties/%d/featured", extra.ID), nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 at the featured cap, got %d", resp.StatusCode)
	}

	var count int64
	db.Model(&models.Property{}).Where("featured = ?", true).Count(&count)
	if count != models.FeaturedLimit {
		t.Errorf("featured count = %d, want %d", count, models.FeaturedLimit)
	}

	// Un-featuring always works, and frees a slot.
	var first models.Property
	db.Where("featured = ?", true).First(&first)
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/properties/%d/featured", first.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 when un-featuring, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/properties/%d/featured", extra.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after a slot freed up, got %d", resp.StatusCode)
	}
}

func TestRenewProperty(t *testing.T) {
	db := newTestDB(t)
	city := createCity(t, db, "Santos", "SP")
	owner := createUser(t, db, "owner@test.com", models.RoleOwner)

	past := time.Now().Add(-24 * time.Hour)
	expired := models.Property{
		OwnerID:       owner.ID,
		CityID:        city.ID,
		Finalidade:    models.FinalidadeBuy,
		Status:        models.PropertyStatusExpired,
		Address:       "Rua A",
		Price:         100000,
		IsOwnerDirect: true,
		ExpiresAt:     &past,
		PropertyCode:  "IMV-0001",
	}
	if err := db.Create(&expired).Error; err != nil {
		t.Fatalf("seeding expired property: %v", err)
	}

	pc := NewPropertyController(db, testLogger())
	app := fiber.New()
	app.Post("/properties/:id/renew", withUser(owner), pc.RenewProperty)

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/properties/%d/renew", expired.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var renewed models.Property
	if err := db.First(&renewed, expired.ID).Error; err != nil {
		t.Fatalf("reloading property: %v", err)
	}
	if renewed.Status != models.PropertyStatusPending {
		t.Errorf("status after renew = %s, want pending", renewed.Status)
	}
	if renewed.ExpiresAt == nil || time.Until(*renewed.ExpiresAt) < 29*24*time.Hour {
		t.Error("renewal must push the expiration ~30 days out")
	}

	// A pending listing cannot be renewed again.
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/properties/%d/renew", expired.ID), nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 renewing a non-expired property, got %d", resp.StatusCode)
	}
}

func TestRenewRejectsNonOwnerDirect(t *testing.T) {
	db := newTestDB(t)
	city := createCity(t, db, "Santos", "SP")
	owner := createUser(t, db, "owner@test.com", models.RoleOwner)

	curated := models.Property{
		OwnerID:      owner.ID,
		CityID:       city.ID,
		Finalidade:   models.FinalidadeBuy,
		Status:       models.PropertyStatusExpired,
		Address:      "Rua A",
		Price:        100000,
		PropertyCode: "IMV-0001",
	}
	if err := db.Create(&curated).Error; err != nil {
		t.Fatalf("seeding property: %v", err)
	}

	pc := NewPropertyController(db, testLogger())
	app := fiber.New()
	app.Post("/properties/:id/renew", withUser(owner), pc.RenewProperty)

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/properties/%d/renew", curated.ID), nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for a curated listing, got %d", resp.StatusCode)
	}
}

func TestApprovePropertyOnlyPending(t *testing.T) {
	db := newTestDB(t)
	city := createCity(t, db, "Santos", "SP")
	owner := createUser(t, db, "owner@test.com", models.RoleOwner)
	admin := createUser(t, db, "admin@test.com", models.RoleAdmin)

	property := models.Property{
		OwnerID:       owner.ID,
		CityID:        city.ID,
		Finalidade:    models.FinalidadeBuy,
		Status:        models.PropertyStatusPending,
		Address:       "Rua A",
		Price:         100000,
		IsOwnerDirect: true,
		PropertyCode:  "IMV-0001",
	}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("seeding property: %v", err)
	}

	pc := NewPropertyController(db, testLogger())
	app := fiber.New()
	app.Post("/properties/:id/approve", withUser(admin), pc.ApproveProperty)

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/properties/%d/approve", property.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var approved models.Property
	if err := db.First(&approved, property.ID).Error; err != nil {
		t.Fatalf("reloading property: %v", err)
	}
	if approved.Status != models.PropertyStatusActive {
		t.Errorf("status = %s, want active", approved.Status)
	}
	if !approved.Verified {
		t.Error("approval must mark the listing verified")
	}

	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/properties/%d/approve", property.ID), nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 approving twice, got %d", resp.StatusCode)
	}
}

func TestGetPropertiesOnlyActive(t *testing.T) {
	db := newTestDB(t)
	city := createCity(t, db, "Santos", "SP")
	owner := createUser(t, db, "owner@test.com", models.RoleOwner)

	statuses := []models.PropertyStatus{
		models.PropertyStatusActive,
		models.PropertyStatusPending,
		models.PropertyStatusExpired,
		models.PropertyStatusPaused,
	}
	for i, status := range statuses {
		property := models.Property{
			OwnerID:      owner.ID,
			CityID:       city.ID,
			Finalidade:   models.FinalidadeBuy,
			Status:       status,
			Address:      "Rua A",
			Price:        100000,
			PropertyCode: fmt.Sprintf("IMV-%04d", i+1),
		}
		if err := db.Create(&property).Error; err != nil {
			t.Fatalf("seeding property: %v", err)
		}
	}

	pc := NewPropertyController(db, testLogger())
	app := fiber.New()
	app.Get("/properties", pc.GetProperties)

	resp := doJSON(t, app, http.MethodGet, "/properties", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data  []models.Property `json:"data"`
		Total int64             `json:"total"`
	}
	decodeBody(t, resp, &body)

	if body.Total != 1 {
		t.Errorf("total = %d, want 1 (only the active listing)", body.Total)
	}
	if len(body.Data) != 1 || body.Data[0].Status != models.PropertyStatusActive {
		t.Errorf("public feed must contain only active listings, got %+v", body.Data)
	}
}

func TestGetPropertyByCode(t *testing.T) {
	db := newTestDB(t)
	city := createCity(t, db, "Santos", "SP")
	owner := createUser(t, db, "owner@test.com", models.RoleOwner)

	property := models.Property{
		OwnerID:      owner.ID,
		CityID:       city.ID,
		Finalidade:   models.FinalidadeRent,
		Status:       models.PropertyStatusActive,
		Address:      "Rua A",
		Price:        2500,
		PropertyCode: "APT-0007",
	}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("seeding property: %v", err)
	}

	pc := NewPropertyController(db, testLogger())
	app := fiber.New()
	app.Get("/properties/:id", pc.GetProperty)

	resp := doJSON(t, app, http.MethodGet, "/properties/APT-0007", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 by code, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/properties/%d", property.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 by id, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodGet, "/properties/NOPE-0001", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown code, got %d", resp.StatusCode)
	}
}
