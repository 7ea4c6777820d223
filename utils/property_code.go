package utils

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"imovelhub/models"
)

// codePrefix resolves the code prefix for a listing type.
func codePrefix(propertyType *models.PropertyType) string {
	if propertyType != nil && propertyType.CodePrefix != "" {
		return propertyType.CodePrefix
	}
	return "IMV"
}

// GeneratePropertyCode produces the next human-readable code for a
// listing of the given type, e.g. "CAS-0042". The sequence is per
// prefix and counts soft-deleted rows too so codes are never reused.
func GeneratePropertyCode(db *gorm.DB, propertyType *models.PropertyType) (string, error) {
	prefix := codePrefix(propertyType)

	var count int64
	if err := db.Unscoped().Model(&models.Property{}).
		Where("property_code LIKE ?", prefix+"-%").
		Count(&count).Error; err != nil {
		return "", fmt.Errorf("failed to count property codes: %w", err)
	}

	return fmt.Sprintf("%s-%04d", prefix, count+1), nil
}

// CreatePropertyWithCode assigns the next code for the listing's type
// and inserts the row. Two concurrent intakes can count the same
// sequence number; the unique index on property_code catches that, and
// the insert retries with the next number instead of surfacing a 500.
func CreatePropertyWithCode(db *gorm.DB, property *models.Property, propertyType *models.PropertyType) error {
	prefix := codePrefix(propertyType)

	var count int64
	if err := db.Unscoped().Model(&models.Property{}).
		Where("property_code LIKE ?", prefix+"-%").
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count property codes: %w", err)
	}

	const maxAttempts = 3
	var err error
	for attempt := int64(0); attempt < maxAttempts; attempt++ {
		property.PropertyCode = fmt.Sprintf("%s-%04d", prefix, count+1+attempt)
		err = db.Create(property).Error
		if err == nil {
			return nil
		}
		if !isDuplicateCode(err) {
			return err
		}
	}
	return fmt.Errorf("property code collision after %d attempts: %w", maxAttempts, err)
}

// isDuplicateCode matches unique-violation errors across drivers; gorm
// only translates to ErrDuplicatedKey when error translation is on.
func isDuplicateCode(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
