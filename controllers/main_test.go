package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"imovelhub/config"
	"imovelhub/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named in-memory database per test keeps state isolated while
	// surviving gorm's connection pooling.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := config.MigrateDB(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// withUser stands in for the JWT middleware in handler tests.
func withUser(user *models.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", user)
		c.Locals("userID", user.ID)
		return c.Next()
	}
}

func createUser(t *testing.T, db *gorm.DB, email string, roles ...models.AppRole) *models.User {
	t.Helper()

	user := models.User{
		Email:        email,
		PasswordHash: "x",
		Name:         "Test User",
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("creating user: %v", err)
	}
	for _, role := range roles {
		if err := db.Create(&models.UserRole{UserID: user.ID, Role: role}).Error; err != nil {
			t.Fatalf("assigning role %s: %v", role, err)
		}
	}
	if err := db.Preload("Roles").First(&user, user.ID).Error; err != nil {
		t.Fatalf("reloading user: %v", err)
	}
	return &user
}

func createCity(t *testing.T, db *gorm.DB, name, state string) *models.City {
	t.Helper()

	city := models.City{Name: name, State: state, Slug: strings.ToLower(name)}
	if err := db.Create(&city).Error; err != nil {
		t.Fatalf("creating city: %v", err)
	}
	return &city
}

func createPropertyType(t *testing.T, db *gorm.DB, name, slug, prefix string) *models.PropertyType {
	t.Helper()

	propertyType := models.PropertyType{Name: name, Slug: slug, CodePrefix: prefix, Active: true}
	if err := db.Create(&propertyType).Error; err != nil {
		t.Fatalf("creating property type: %v", err)
	}
	return &propertyType
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
}
