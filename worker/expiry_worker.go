package worker

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"imovelhub/models"
	"imovelhub/utils"
)

// ExpiryWorker sweeps past-due listings and plan associations into the
// expired state.
type ExpiryWorker struct {
	DB       *gorm.DB
	Logger   *log.Logger
	Interval time.Duration
}

func NewExpiryWorker(db *gorm.DB, logger *log.Logger) *ExpiryWorker {
	return &ExpiryWorker{
		DB:       db,
		Logger:   logger,
		Interval: time.Hour,
	}
}

func (ew *ExpiryWorker) Start(ctx context.Context) {
	// Initial delay to let the server start up
	time.Sleep(10 * time.Second)

	ew.Logger.Println("Expiry worker started")

	ticker := time.NewTicker(ew.Interval)
	defer ticker.Stop()

	// Run once at startup so a long-stopped instance catches up
	// immediately.
	ew.SweepOnce()

	for {
		select {
		case <-ctx.Done():
			ew.Logger.Println("Expiry worker shutting down...")
			return
		case <-ticker.C:
			ew.SweepOnce()
		}
	}
}

// SweepOnce expires overdue trial listings and plan associations.
// Only active owner-direct listings are touched: paid listings are
// governed by their plan, and pending/paused ones are not publicly
// visible to begin with.
func (ew *ExpiryWorker) SweepOnce() {
	now := time.Now()

	result := ew.DB.Model(&models.Property{}).
		Where("status = ? AND is_owner_direct = ? AND expires_at IS NOT NULL AND expires_at < ?",
			models.PropertyStatusActive, true, now).
		Update("status", models.PropertyStatusExpired)
	if result.Error != nil {
		ew.Logger.Printf("Error expiring properties: %v", result.Error)
		utils.LogError("expiry_sweep", result.Error, nil)
	} else if result.RowsAffected > 0 {
		ew.Logger.Printf("Expired %d properties", result.RowsAffected)
		utils.LogEvent("properties_expired", map[string]interface{}{
			"count": result.RowsAffected,
		})
	}

	planResult := ew.DB.Model(&models.PropertyPlan{}).
		Where("status = ? AND expires_at < ?", models.PlanStatusActive, now).
		Update("status", models.PlanStatusExpired)
	if planResult.Error != nil {
		ew.Logger.Printf("Error expiring property plans: %v", planResult.Error)
		utils.LogError("plan_expiry_sweep", planResult.Error, nil)
	} else if planResult.RowsAffected > 0 {
		ew.Logger.Printf("Expired %d property plans", planResult.RowsAffected)
	}
}
