package utils

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"imovelhub/models"
)

func newCodeTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Property{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db
}

func TestGeneratePropertyCode(t *testing.T) {
	db := newCodeTestDB(t)
	casa := &models.PropertyType{CodePrefix: "CAS"}

	code, err := GeneratePropertyCode(db, casa)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "CAS-0001" {
		t.Errorf("first code = %q, want CAS-0001", code)
	}

	db.Create(&models.Property{
		OwnerID: 1, CityID: 1,
		Finalidade: models.FinalidadeBuy, Status: models.PropertyStatusActive,
		Address: "Rua A", Price: 1,
		PropertyCode: code,
	})

	code, err = GeneratePropertyCode(db, casa)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "CAS-0002" {
		t.Errorf("second code = %q, want CAS-0002", code)
	}

	// Sequences are per prefix.
	code, err = GeneratePropertyCode(db, &models.PropertyType{CodePrefix: "APT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "APT-0001" {
		t.Errorf("other prefix code = %q, want APT-0001", code)
	}

	// Nil type falls back to the generic prefix.
	code, err = GeneratePropertyCode(db, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "IMV-0001" {
		t.Errorf("fallback code = %q, want IMV-0001", code)
	}
}

func TestCreatePropertyWithCode(t *testing.T) {
	db := newCodeTestDB(t)
	casa := &models.PropertyType{CodePrefix: "CAS"}

	property := models.Property{
		OwnerID: 1, CityID: 1,
		Finalidade: models.FinalidadeBuy, Status: models.PropertyStatusActive,
		Address: "Rua A", Price: 1,
	}
	if err := CreatePropertyWithCode(db, &property, casa); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if property.PropertyCode != "CAS-0001" {
		t.Errorf("code = %q, want CAS-0001", property.PropertyCode)
	}
	if property.ID == 0 {
		t.Error("property was not inserted")
	}
}

func TestCreatePropertyWithCodeRetriesOnCollision(t *testing.T) {
	db := newCodeTestDB(t)
	casa := &models.PropertyType{CodePrefix: "CAS"}

	// One existing CAS row holding the code the counter would produce
	// next. The first insert attempt hits the unique index and the
	// helper must move on to the following number.
	db.Create(&models.Property{
		OwnerID: 1, CityID: 1,
		Finalidade: models.FinalidadeBuy, Status: models.PropertyStatusActive,
		Address: "Rua A", Price: 1,
		PropertyCode: "CAS-0002",
	})

	property := models.Property{
		OwnerID: 2, CityID: 1,
		Finalidade: models.FinalidadeBuy, Status: models.PropertyStatusActive,
		Address: "Rua B", Price: 1,
	}
	if err := CreatePropertyWithCode(db, &property, casa); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if property.PropertyCode != "CAS-0003" {
		t.Errorf("code after collision = %q, want CAS-0003", property.PropertyCode)
	}

	var count int64
	db.Model(&models.Property{}).Count(&count)
	if count != 2 {
		t.Errorf("property count = %d, want 2", count)
	}
}

func TestGeneratePropertyCodeCountsDeleted(t *testing.T) {
	db := newCodeTestDB(t)
	casa := &models.PropertyType{CodePrefix: "CAS"}

	property := models.Property{
		OwnerID: 1, CityID: 1,
		Finalidade: models.FinalidadeBuy, Status: models.PropertyStatusActive,
		Address: "Rua A", Price: 1,
		PropertyCode: "CAS-0001",
	}
	db.Create(&property)
	db.Delete(&property)

	code, err := GeneratePropertyCode(db, casa)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "CAS-0002" {
		t.Errorf("code after soft delete = %q, want CAS-0002 (codes are never reused)", code)
	}
}
