package worker

import (
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"imovelhub/config"
	"imovelhub/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := config.MigrateDB(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func seedProperty(t *testing.T, db *gorm.DB, code string, status models.PropertyStatus, ownerDirect bool, expiresAt *time.Time) *models.Property {
	t.Helper()

	property := models.Property{
		OwnerID:       1,
		CityID:        1,
		Finalidade:    models.FinalidadeBuy,
		Status:        status,
		Address:       "Rua A",
		Price:         100000,
		IsOwnerDirect: ownerDirect,
		ExpiresAt:     expiresAt,
		PropertyCode:  code,
	}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("seeding property %s: %v", code, err)
	}
	return &property
}

func TestSweepExpiresOnlyOverdueTrials(t *testing.T) {
	db := newTestDB(t)
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	overdue := seedProperty(t, db, "IMV-0001", models.PropertyStatusActive, true, &past)
	current := seedProperty(t, db, "IMV-0002", models.PropertyStatusActive, true, &future)
	curated := seedProperty(t, db, "IMV-0003", models.PropertyStatusActive, false, &past)
	pending := seedProperty(t, db, "IMV-0004", models.PropertyStatusPending, true, &past)
	noExpiry := seedProperty(t, db, "IMV-0005", models.PropertyStatusActive, true, nil)

	ew := NewExpiryWorker(db, log.New(io.Discard, "", 0))
	ew.SweepOnce()

	want := map[uint]models.PropertyStatus{
		overdue.ID:  models.PropertyStatusExpired,
		current.ID:  models.PropertyStatusActive,
		curated.ID:  models.PropertyStatusActive,
		pending.ID:  models.PropertyStatusPending,
		noExpiry.ID: models.PropertyStatusActive,
	}
	for id, expected := range want {
		var property models.Property
		if err := db.First(&property, id).Error; err != nil {
			t.Fatalf("reloading property %d: %v", id, err)
		}
		if property.Status != expected {
			t.Errorf("property %s status = %s, want %s", property.PropertyCode, property.Status, expected)
		}
	}
}

func TestSweepExpiresOverduePlans(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	overdue := models.PropertyPlan{
		PropertyID: 1, PlanID: 1, UserID: 1,
		StartedAt: now.Add(-48 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
		Status:    models.PlanStatusActive,
	}
	current := models.PropertyPlan{
		PropertyID: 2, PlanID: 1, UserID: 1,
		StartedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
		Status:    models.PlanStatusActive,
	}
	if err := db.Create(&overdue).Error; err != nil {
		t.Fatalf("seeding plan: %v", err)
	}
	if err := db.Create(&current).Error; err != nil {
		t.Fatalf("seeding plan: %v", err)
	}

	ew := NewExpiryWorker(db, log.New(io.Discard, "", 0))
	ew.SweepOnce()

	// Fresh destinations per lookup; a reused struct would carry its
	// primary key into the next query's conditions.
	var overdueReloaded, currentReloaded models.PropertyPlan
	if err := db.First(&overdueReloaded, overdue.ID).Error; err != nil {
		t.Fatalf("reloading overdue plan: %v", err)
	}
	if overdueReloaded.Status != models.PlanStatusExpired {
		t.Errorf("overdue plan status = %s, want expired", overdueReloaded.Status)
	}
	if err := db.First(&currentReloaded, current.ID).Error; err != nil {
		t.Fatalf("reloading current plan: %v", err)
	}
	if currentReloaded.Status != models.PlanStatusActive {
		t.Errorf("current plan status = %s, want active", currentReloaded.Status)
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	past := time.Now().Add(-time.Hour)
	seedProperty(t, db, "IMV-0001", models.PropertyStatusActive, true, &past)

	ew := NewExpiryWorker(db, log.New(io.Discard, "", 0))
	ew.SweepOnce()
	ew.SweepOnce()

	var count int64
	db.Model(&models.Property{}).Where("status = ?", models.PropertyStatusExpired).Count(&count)
	if count != 1 {
		t.Errorf("expired count = %d, want 1", count)
	}
}
