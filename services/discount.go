// services/discount.go
package services

import (
	"errors"

	"clinicops-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiscountResolver is the single source of truth for the percentage applied
// to a patient's invoices. Nothing else reads DiscountType rows for billing.
type DiscountResolver struct {
	db *gorm.DB
}

func NewDiscountResolver(db *gorm.DB) *DiscountResolver {
	return &DiscountResolver{db: db}
}

// ResolveForPatient returns the patient's current discount percentage and
// the DiscountType it came from. Patients without a discount type, or whose
// type has been deactivated, resolve to 0 with a nil type.
func (r *DiscountResolver) ResolveForPatient(patientID uuid.UUID) (float64, *models.DiscountType, error) {
	var patient models.Patient
	if err := r.db.First(&patient, "id = ?", patientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, validationf("patient %s not found", patientID)
		}
		return 0, nil, storagef("resolve discount", err)
	}

	if patient.DiscountTypeID == nil {
		return 0, nil, nil
	}

	var dt models.DiscountType
	if err := r.db.First(&dt, "id = ?", *patient.DiscountTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// dangling reference behaves like no discount
			return 0, nil, nil
		}
		return 0, nil, storagef("resolve discount", err)
	}

	if !dt.IsActive {
		return 0, nil, nil
	}
	return dt.DiscountPercent, &dt, nil
}

// resolvePatientByName looks a patient up by display name. It fails closed:
// an unknown name is a validation error, never an implicit patient create.
func resolvePatientByName(db *gorm.DB, name string) (*models.Patient, error) {
	var patient models.Patient
	if err := db.Where("name = ?", name).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("patient %q not found", name)
		}
		return nil, storagef("resolve patient", err)
	}
	return &patient, nil
}
