// controllers/payment_method.go
package controllers

import (
	"errors"
	"net/http"

	"clinicops-backend/config"
	"clinicops-backend/models"
	"clinicops-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreatePaymentMethodInput defines the expected JSON structure
type CreatePaymentMethodInput struct {
	Name string `json:"name" binding:"required"`
}

// CreatePaymentMethod creates a new payment method
func CreatePaymentMethod(c *gin.Context) {
	var input CreatePaymentMethodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	method := models.PaymentMethod{Name: input.Name, IsActive: true}
	if err := config.DB.Create(&method).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create payment method")
		return
	}

	c.JSON(http.StatusCreated, method)
}

// GetPaymentMethods retrieves all payment methods
func GetPaymentMethods(c *gin.Context) {
	var methods []models.PaymentMethod
	if err := config.DB.Find(&methods).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payment methods")
		return
	}

	c.JSON(http.StatusOK, methods)
}

// UpdatePaymentMethod renames or toggles a payment method
func UpdatePaymentMethod(c *gin.Context) {
	methodUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment method ID format")
		return
	}

	var input struct {
		Name     *string `json:"name"`
		IsActive *bool   `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var method models.PaymentMethod
	if err := config.DB.First(&method, "id = ?", methodUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Payment method not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		method.Name = *input.Name
	}
	if input.IsActive != nil {
		method.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&method).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update payment method")
		return
	}

	c.JSON(http.StatusOK, method)
}
