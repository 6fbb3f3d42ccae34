// services/billing.go
package services

import (
	"errors"
	"fmt"
	"time"

	"clinicops-backend/models"
	"clinicops-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceItemInput names a service and a quantity. The unit price and any
// discount are always taken from the database, never from the caller.
type InvoiceItemInput struct {
	ServiceID uuid.UUID
	Quantity  int
}

type InvoiceInput struct {
	PatientName     string
	Items           []InvoiceItemInput
	PaymentMethodID *uuid.UUID
	AppointmentID   *uuid.UUID
	Notes           string
}

// BillingEngine turns rendered services into invoices and tracks payments.
type BillingEngine struct {
	db        *gorm.DB
	discounts *DiscountResolver
	audit     AuditSink

	// Now is replaceable in tests
	Now func() time.Time
}

func NewBillingEngine(db *gorm.DB, discounts *DiscountResolver, audit AuditSink) *BillingEngine {
	return &BillingEngine{db: db, discounts: discounts, audit: audit, Now: time.Now}
}

// lineSubtotal applies the resolved discount to one line.
func lineSubtotal(unitPrice float64, quantity int, discountPercent float64) float64 {
	raw := unitPrice * float64(quantity)
	return utils.RoundMoney(raw * (1 - discountPercent/100))
}

// effectiveDiscount is the blended percentage actually realized across the
// invoice, reported for transparency on printed invoices.
func effectiveDiscount(rawTotal, total float64) float64 {
	if rawTotal <= 0 {
		return 0
	}
	return utils.RoundMoney((1 - total/rawTotal) * 100)
}

// computeInvoiceStatus derives the payment status from the two amounts.
// Unpaid wins over Paid on a zero-total invoice with nothing paid.
func computeInvoiceStatus(totalAmount, amountPaid float64) models.InvoiceStatus {
	switch {
	case amountPaid == 0:
		return models.InvoiceUnpaid
	case amountPaid >= totalAmount:
		return models.InvoicePaid
	default:
		return models.InvoicePartial
	}
}

// CreateInvoice builds an invoice for the named patient. The patient's
// active discount type sets the percentage for every line; discount values
// supplied by the client are ignored. All rows are written in one
// transaction, so a failure leaves nothing behind.
func (b *BillingEngine) CreateInvoice(input InvoiceInput) (*models.Invoice, error) {
	patient, err := resolvePatientByName(b.db, input.PatientName)
	if err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, validationf("invoice needs at least one line item")
	}

	discount, _, err := b.discounts.ResolveForPatient(patient.ID)
	if err != nil {
		return nil, err
	}

	var rawTotal, total float64
	var items []models.InvoiceItem
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, validationf("line quantity must be at least 1")
		}

		var service models.Service
		if err := b.db.Where("id = ? AND is_active = ?", item.ServiceID, true).
			First(&service).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, validationf("service %s not found or inactive", item.ServiceID)
			}
			return nil, storagef("verify service", err)
		}

		subtotal := lineSubtotal(service.Price, item.Quantity, discount)
		rawTotal += service.Price * float64(item.Quantity)
		total = utils.RoundMoney(total + subtotal)

		items = append(items, models.InvoiceItem{
			ServiceID:   service.ID,
			ServiceName: service.Name,
			Quantity:    item.Quantity,
			UnitPrice:   service.Price,
			Subtotal:    subtotal,
		})
	}

	invoice := models.Invoice{
		InvoiceNumber:   "INV-" + b.Now().Format("20060102") + "-" + utils.GenerateRandomString(6),
		PatientID:       patient.ID,
		AppointmentID:   input.AppointmentID,
		PaymentMethodID: input.PaymentMethodID,
		DiscountPercent: effectiveDiscount(rawTotal, total),
		TotalAmount:     total,
		AmountPaid:      0,
		Status:          models.InvoiceUnpaid,
		Notes:           input.Notes,
		CreatedAt:       b.Now(),
		Items:           items,
	}

	if err := b.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&invoice).Error
	}); err != nil {
		return nil, storagef("create invoice", err)
	}

	b.audit.Record("invoice.create",
		fmt.Sprintf("patient=%s number=%s total=%.2f discount=%.2f%%",
			patient.Name, invoice.InvoiceNumber, invoice.TotalAmount, invoice.DiscountPercent))

	return &invoice, nil
}

// AddPayment applies a payment to an invoice, capped at the remaining
// balance. It returns the amount actually applied; change due on
// overpayment is tendered minus applied, computed by the till, never
// stored here.
func (b *BillingEngine) AddPayment(invoiceID uuid.UUID, amount float64, methodID *uuid.UUID) (float64, *models.Invoice, error) {
	if amount <= 0 {
		return 0, nil, validationf("payment amount must be positive")
	}

	var invoice models.Invoice
	if err := b.db.First(&invoice, "id = ?", invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, validationf("invoice %s not found", invoiceID)
		}
		return 0, nil, storagef("load invoice", err)
	}

	if invoice.Status == models.InvoiceVoided {
		return 0, nil, statef("invoice %s is voided", invoice.InvoiceNumber)
	}

	remaining := utils.RoundMoney(invoice.TotalAmount - invoice.AmountPaid)
	if remaining <= 0 {
		return 0, nil, statef("invoice %s is already fully paid", invoice.InvoiceNumber)
	}

	applied := amount
	if applied > remaining {
		applied = remaining
	}

	invoice.AmountPaid = utils.RoundMoney(invoice.AmountPaid + applied)
	invoice.Status = computeInvoiceStatus(invoice.TotalAmount, invoice.AmountPaid)
	if methodID != nil {
		invoice.PaymentMethodID = methodID
	}

	if err := b.db.Save(&invoice).Error; err != nil {
		return 0, nil, storagef("record payment", err)
	}

	b.audit.Record("invoice.payment",
		fmt.Sprintf("number=%s applied=%.2f paid=%.2f status=%s",
			invoice.InvoiceNumber, applied, invoice.AmountPaid, invoice.Status))

	return applied, &invoice, nil
}

// VoidInvoice marks an invoice void. Payments already taken stay on the
// record; refunds are handled outside the system.
func (b *BillingEngine) VoidInvoice(invoiceID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := b.db.First(&invoice, "id = ?", invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("invoice %s not found", invoiceID)
		}
		return nil, storagef("load invoice", err)
	}

	invoice.Status = models.InvoiceVoided
	if err := b.db.Save(&invoice).Error; err != nil {
		return nil, storagef("void invoice", err)
	}

	b.audit.Record("invoice.void", fmt.Sprintf("number=%s paid=%.2f", invoice.InvoiceNumber, invoice.AmountPaid))

	return &invoice, nil
}

// ListPayable returns invoices still owing money. Voided invoices never
// appear here.
func (b *BillingEngine) ListPayable() ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := b.db.Preload("Items").
		Where("status IN ?", []models.InvoiceStatus{models.InvoiceUnpaid, models.InvoicePartial}).
		Order("created_at asc").
		Find(&invoices).Error
	if err != nil {
		return nil, storagef("list payable invoices", err)
	}
	return invoices, nil
}
