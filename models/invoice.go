package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceStatus is a pure function of (TotalAmount, AmountPaid) except for
// Voided, which is set explicitly and never recomputed.
type InvoiceStatus string

const (
	InvoiceUnpaid  InvoiceStatus = "Unpaid"
	InvoicePartial InvoiceStatus = "Partial"
	InvoicePaid    InvoiceStatus = "Paid"
	InvoiceVoided  InvoiceStatus = "Voided"
)

type Invoice struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	InvoiceNumber string    `gorm:"uniqueIndex;not null"`
	PatientID     uuid.UUID `gorm:"type:uuid;index;not null"`

	AppointmentID   *uuid.UUID `gorm:"type:uuid;index"`
	PaymentMethodID *uuid.UUID `gorm:"type:uuid;index"`

	// snapshot of the blended percentage actually applied; later edits to
	// the patient's DiscountType never touch existing invoices
	DiscountPercent float64 `gorm:"type:decimal(5,2);default:0.0"`

	TotalAmount float64       `gorm:"type:decimal(10,2);not null"`
	AmountPaid  float64       `gorm:"type:decimal(10,2);default:0.0"`
	Status      InvoiceStatus `gorm:"type:varchar(20);default:'Unpaid'"`
	Notes       string
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID"`

	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
}

type InvoiceItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ServiceID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ServiceName string    `gorm:"not null"`
	Quantity    int       `gorm:"default:1"`
	UnitPrice   float64   `gorm:"type:decimal(10,2);not null"`
	Subtotal    float64   `gorm:"type:decimal(10,2);not null"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return
}
