// controllers/appointment.go
package controllers

import (
	"net/http"
	"time"

	"clinicops-backend/config"
	"clinicops-backend/models"
	"clinicops-backend/services"
	"clinicops-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AppointmentHandler exposes the scheduler over HTTP.
type AppointmentHandler struct {
	Engine *services.Engine
}

func NewAppointmentHandler(engine *services.Engine) *AppointmentHandler {
	return &AppointmentHandler{Engine: engine}
}

// CreateAppointmentInput defines the expected JSON structure for booking
type CreateAppointmentInput struct {
	PatientName   string    `json:"patientName" binding:"required"`
	DoctorID      uuid.UUID `json:"doctorId" binding:"required"`
	ServiceID     uuid.UUID `json:"serviceId" binding:"required"`
	Date          time.Time `json:"date" binding:"required"`
	TimeSlot      string    `json:"timeSlot" binding:"required"`
	Status        string    `json:"status" binding:"omitempty,oneof=Pending Confirmed"`
	Notes         string    `json:"notes"`
	AllowConflict bool      `json:"allowConflict"`
}

// CreateRecurringInput adds the recurrence parameters to a booking
type CreateRecurringInput struct {
	CreateAppointmentInput
	Frequency string `json:"frequency" binding:"required,oneof=Daily Weekly Monthly"`
	Count     int    `json:"count" binding:"required,min=1"`
}

// UpdateAppointmentInput defines the expected JSON structure for rebooking
type UpdateAppointmentInput struct {
	PatientName        string    `json:"patientName" binding:"required"`
	DoctorID           uuid.UUID `json:"doctorId" binding:"required"`
	ServiceID          uuid.UUID `json:"serviceId" binding:"required"`
	Date               time.Time `json:"date" binding:"required"`
	TimeSlot           string    `json:"timeSlot" binding:"required"`
	Status             string    `json:"status" binding:"omitempty,oneof=Pending Confirmed Cancelled Completed"`
	Notes              string    `json:"notes"`
	CancellationReason string    `json:"cancellationReason"`
	RescheduleReason   string    `json:"rescheduleReason"`
	AllowConflict      bool      `json:"allowConflict"`
}

func (input CreateAppointmentInput) toServiceInput() services.AppointmentInput {
	return services.AppointmentInput{
		PatientName:   input.PatientName,
		DoctorID:      input.DoctorID,
		ServiceID:     input.ServiceID,
		Date:          input.Date,
		TimeSlot:      input.TimeSlot,
		Status:        models.AppointmentStatus(input.Status),
		Notes:         input.Notes,
		AllowConflict: input.AllowConflict,
	}
}

// CreateAppointment books a single appointment
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appointment, err := h.Engine.Scheduler.Create(input.toServiceInput())
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

// CreateRecurringAppointments books a whole series and reports how many
// bookings were actually made
func (h *AppointmentHandler) CreateRecurringAppointments(c *gin.Context) {
	var input CreateRecurringInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	created, err := h.Engine.Scheduler.CreateRecurring(
		input.toServiceInput(),
		services.RecurrenceFrequency(input.Frequency),
		input.Count,
	)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"created": created})
}

// UpdateAppointment rewrites an appointment in place
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var input UpdateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appointment, err := h.Engine.Scheduler.Update(id, services.AppointmentInput{
		PatientName:        input.PatientName,
		DoctorID:           input.DoctorID,
		ServiceID:          input.ServiceID,
		Date:               input.Date,
		TimeSlot:           input.TimeSlot,
		Status:             models.AppointmentStatus(input.Status),
		Notes:              input.Notes,
		CancellationReason: input.CancellationReason,
		RescheduleReason:   input.RescheduleReason,
		AllowConflict:      input.AllowConflict,
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// CancelAppointment marks an appointment cancelled with a reason
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appointment, err := h.Engine.Scheduler.Cancel(id, input.Reason)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// CheckConflict lets the front desk probe a slot before booking
func (h *AppointmentHandler) CheckConflict(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Query("doctorId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid doctor ID format")
		return
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}
	timeSlot := c.Query("timeSlot")
	if !utils.ValidateTimeSlot(timeSlot) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid time slot, expected HH:MM")
		return
	}

	var excludeID *uuid.UUID
	if raw := c.Query("excludeId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid exclude ID format")
			return
		}
		excludeID = &id
	}

	conflict, err := h.Engine.Scheduler.CheckConflict(doctorID, date, timeSlot, excludeID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conflict": conflict})
}

// GetAppointments lists appointments, optionally filtered by doctor or date
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	query := config.DB.Preload("Patient").Preload("Doctor").Preload("Service").
		Order("date asc, time_slot asc")

	if raw := c.Query("doctorId"); raw != "" {
		doctorID, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid doctor ID format")
			return
		}
		query = query.Where("doctor_id = ?", doctorID)
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		query = query.Where("date = ?", date)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, appointments)
}
