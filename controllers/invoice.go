// controllers/invoice.go
package controllers

import (
	"errors"
	"net/http"

	"clinicops-backend/config"
	"clinicops-backend/models"
	"clinicops-backend/services"
	"clinicops-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceHandler exposes the billing engine over HTTP.
type InvoiceHandler struct {
	Engine *services.Engine
}

func NewInvoiceHandler(engine *services.Engine) *InvoiceHandler {
	return &InvoiceHandler{Engine: engine}
}

// InvoiceItemInput defines the structure for an invoice line. Prices and
// discounts are not accepted here; the engine reads them from the database.
type InvoiceItemInput struct {
	ServiceID uuid.UUID `json:"serviceId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"min=1"`
}

// CreateInvoiceInput defines the expected JSON structure for creating an invoice
type CreateInvoiceInput struct {
	PatientName     string             `json:"patientName" binding:"required"`
	Items           []InvoiceItemInput `json:"items" binding:"required,min=1"`
	PaymentMethodID *uuid.UUID         `json:"paymentMethodId"`
	AppointmentID   *uuid.UUID         `json:"appointmentId"`
	Notes           string             `json:"notes"`
}

// AddPaymentInput defines the expected JSON structure for a payment
type AddPaymentInput struct {
	Amount          float64    `json:"amount" binding:"required,gt=0"`
	PaymentMethodID *uuid.UUID `json:"paymentMethodId"`
}

// CreateInvoice creates a new invoice for a patient
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var input CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	items := make([]services.InvoiceItemInput, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, services.InvoiceItemInput{
			ServiceID: item.ServiceID,
			Quantity:  item.Quantity,
		})
	}

	invoice, err := h.Engine.Billing.CreateInvoice(services.InvoiceInput{
		PatientName:     input.PatientName,
		Items:           items,
		PaymentMethodID: input.PaymentMethodID,
		AppointmentID:   input.AppointmentID,
		Notes:           input.Notes,
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// AddPayment applies a payment; change due is tendered minus applied
func (h *InvoiceHandler) AddPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var input AddPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	applied, invoice, err := h.Engine.Billing.AddPayment(id, input.Amount, input.PaymentMethodID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applied": applied,
		"change":  utils.RoundMoney(input.Amount - applied),
		"invoice": invoice,
	})
}

// VoidInvoice marks an invoice void
func (h *InvoiceHandler) VoidInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	invoice, err := h.Engine.Billing.VoidInvoice(id)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// GetPayableInvoices lists invoices still owing money
func (h *InvoiceHandler) GetPayableInvoices(c *gin.Context) {
	invoices, err := h.Engine.Billing.ListPayable()
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// GetInvoices retrieves all invoices
func (h *InvoiceHandler) GetInvoices(c *gin.Context) {
	var invoices []models.Invoice
	if err := config.DB.Preload("Items").
		Order("created_at desc").
		Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// GetInvoice retrieves a specific invoice by ID
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var invoice models.Invoice
	if err := config.DB.Preload("Items").
		First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, invoice)
}
