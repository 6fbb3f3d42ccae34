// controllers/patient.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"clinicops-backend/config"
	"clinicops-backend/models"
	"clinicops-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreatePatientInput defines the expected JSON structure for creating a patient
type CreatePatientInput struct {
	Name           string     `json:"name" binding:"required"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email" binding:"omitempty,email"`
	BirthDate      *time.Time `json:"birthDate"`
	Address        string     `json:"address"`
	Notes          string     `json:"notes"`
	DiscountTypeID *uuid.UUID `json:"discountTypeId"`
}

// UpdatePatientInput defines the expected JSON structure for updating a patient
type UpdatePatientInput struct {
	Name           *string    `json:"name"`
	Phone          *string    `json:"phone"`
	Email          *string    `json:"email" binding:"omitempty,email"`
	BirthDate      *time.Time `json:"birthDate"`
	Address        *string    `json:"address"`
	Notes          *string    `json:"notes"`
	DiscountTypeID *uuid.UUID `json:"discountTypeId"`
	IsActive       *bool      `json:"isActive"`
}

// CreatePatient creates a new patient record
func CreatePatient(c *gin.Context) {
	var input CreatePatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	// Validate the discount type reference before writing
	if input.DiscountTypeID != nil {
		var dt models.DiscountType
		if err := config.DB.First(&dt, "id = ?", *input.DiscountTypeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Discount type not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
	}

	patient := models.Patient{
		Name:           input.Name,
		Phone:          input.Phone,
		Email:          input.Email,
		BirthDate:      input.BirthDate,
		Address:        input.Address,
		Notes:          input.Notes,
		DiscountTypeID: input.DiscountTypeID,
		IsActive:       true,
	}

	if err := config.DB.Create(&patient).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create patient")
		return
	}

	c.JSON(http.StatusCreated, patient)
}

// GetPatients retrieves all patients
func GetPatients(c *gin.Context) {
	var patients []models.Patient
	if err := config.DB.Preload("DiscountType").Find(&patients).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve patients")
		return
	}

	c.JSON(http.StatusOK, patients)
}

// GetPatient retrieves a specific patient by ID
func GetPatient(c *gin.Context) {
	patientUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid patient ID format")
		return
	}

	var patient models.Patient
	if err := config.DB.Preload("DiscountType").
		First(&patient, "id = ?", patientUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Patient not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, patient)
}

// UpdatePatient updates an existing patient record
func UpdatePatient(c *gin.Context) {
	patientUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid patient ID format")
		return
	}

	var input UpdatePatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var patient models.Patient
	if err := config.DB.First(&patient, "id = ?", patientUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Patient not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Update fields if provided
	if input.Name != nil {
		patient.Name = *input.Name
	}
	if input.Phone != nil {
		if *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		patient.Phone = *input.Phone
	}
	if input.Email != nil {
		patient.Email = *input.Email
	}
	if input.BirthDate != nil {
		patient.BirthDate = input.BirthDate
	}
	if input.Address != nil {
		patient.Address = *input.Address
	}
	if input.Notes != nil {
		patient.Notes = *input.Notes
	}
	if input.DiscountTypeID != nil {
		var dt models.DiscountType
		if err := config.DB.First(&dt, "id = ?", *input.DiscountTypeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Discount type not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		patient.DiscountTypeID = input.DiscountTypeID
	}
	if input.IsActive != nil {
		patient.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&patient).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update patient")
		return
	}

	c.JSON(http.StatusOK, patient)
}

// DeletePatient soft deletes a patient record
func DeletePatient(c *gin.Context) {
	patientUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid patient ID format")
		return
	}

	var patient models.Patient
	if err := config.DB.First(&patient, "id = ?", patientUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Patient not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Delete(&patient).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete patient")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient deleted successfully"})
}
