package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiscountType is an administrator-defined discount class (e.g. a legally
// mandated senior-citizen discount). Invoices snapshot the resolved
// percentage instead of referencing the row.
type DiscountType struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	Name            string    `gorm:"not null;uniqueIndex"`
	DiscountPercent float64   `gorm:"type:decimal(5,2);not null"`
	LegalBasis      string    `gorm:"type:text"`
	IsActive        bool      `gorm:"default:true"`

	gorm.Model
}

func (d *DiscountType) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}
