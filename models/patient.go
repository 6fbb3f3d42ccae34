package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Patient struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	// Display name used by the scheduler and billing engine to resolve
	// patients; must be unique across active records.
	Name      string `gorm:"not null;uniqueIndex"`
	Phone     string
	Email     string
	BirthDate *time.Time
	Address   string
	Notes     string

	DiscountTypeID *uuid.UUID    `gorm:"type:uuid;index"`
	DiscountType   *DiscountType `gorm:"foreignKey:DiscountTypeID"`

	IsActive bool `gorm:"default:true"`

	Appointments []Appointment `gorm:"foreignKey:PatientID"`
	Invoices     []Invoice     `gorm:"foreignKey:PatientID"`

	gorm.Model
}

func (p *Patient) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
