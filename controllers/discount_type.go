// controllers/discount_type.go
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

// CreateDiscountTypeInput defines the expected JSON structure
type CreateDiscountTypeInput struct {
	Name            string  `json:"name" binding:"required"`
	DiscountPercent float64 `json:"discountPercent" binding:"min=0,max=100"`
	LegalBasis      string  `json:"legalBasis"`
}

// UpdateDiscountTypeInput defines the expected JSON structure
type UpdateDiscountTypeInput struct {
	Name            *string  `json:"name"`
	DiscountPercent *float64 `json:"discountPercent" binding:"omitempty,min=0,max=100"`
	LegalBasis      *string  `json:"legalBasis"`
	IsActive        *bool    `json:"isActive"`
}

// CreateDiscountType creates a new discount category
func CreateDiscountType(c *gin.Context) {
	var input CreateDiscountTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	dt := models.DiscountType{
		Name:            input.Name,
		DiscountPercent: input.DiscountPercent,
		LegalBasis:      input.LegalBasis,
		IsActive:        true,
	}

	if err := config.DB.Create(&dt).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create discount type")
		return
	}

	c.JSON(http.StatusCreated, dt)
}

// GetDiscountTypes retrieves all discount categories
func GetDiscountTypes(c *gin.Context) {
	var types []models.DiscountType
	if err := config.DB.Find(&types).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve discount types")
		return
	}

	c.JSON(http.StatusOK, types)
}

// UpdateDiscountType updates an existing discount category. Historical
// invoices keep the percentage snapshotted at billing time.
func UpdateDiscountType(c *gin.Context) {
	dtUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid discount type ID format")
		return
	}

	var input UpdateDiscountTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var dt models.DiscountType
	if err := config.DB.First(&dt, "id = ?", dtUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Discount type not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		dt.Name = *input.Name
	}
	if input.DiscountPercent != nil {
		dt.DiscountPercent = *input.DiscountPercent
	}
	if input.LegalBasis != nil {
		dt.LegalBasis = *input.LegalBasis
	}
	if input.IsActive != nil {
		dt.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&dt).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update discount type")
		return
	}

	c.JSON(http.StatusOK, dt)
}
