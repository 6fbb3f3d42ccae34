// controllers/queue.go
package controllers

import (
	"net/http"

	"clinicops-backend/config"
	"clinicops-backend/models"
	"clinicops-backend/services"
	"clinicops-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QueueHandler exposes the walk-in queue over HTTP.
type QueueHandler struct {
	Engine *services.Engine
}

func NewQueueHandler(engine *services.Engine) *QueueHandler {
	return &QueueHandler{Engine: engine}
}

// AddWalkInInput defines the expected JSON structure for a manual entry
type AddWalkInInput struct {
	PatientName string    `json:"patientName" binding:"required"`
	DoctorID    uuid.UUID `json:"doctorId" binding:"required"`
	TimeSlot    string    `json:"timeSlot" binding:"required"`
	Purpose     string    `json:"purpose"`
}

// SyncQueue promotes today's confirmed appointments into the queue
func (h *QueueHandler) SyncQueue(c *gin.Context) {
	inserted, err := h.Engine.Queue.SyncTodayToQueue()
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"inserted": inserted})
}

// CallNext advances the earliest waiting patient to In Progress
func (h *QueueHandler) CallNext(c *gin.Context) {
	var doctorID *uuid.UUID
	if raw := c.Query("doctorId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid doctor ID format")
			return
		}
		doctorID = &id
	}

	entry, err := h.Engine.Queue.CallNext(doctorID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	if entry == nil {
		// queue is empty, not an error
		c.JSON(http.StatusOK, gin.H{"entry": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// AddWalkIn queues a patient without an appointment
func (h *QueueHandler) AddWalkIn(c *gin.Context) {
	var input AddWalkInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	entry, err := h.Engine.Queue.AddWalkIn(services.WalkInInput{
		PatientName: input.PatientName,
		DoctorID:    input.DoctorID,
		TimeSlot:    input.TimeSlot,
		Purpose:     input.Purpose,
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// CompleteEntry finishes an in-progress consultation
func (h *QueueHandler) CompleteEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid queue entry ID format")
		return
	}

	entry, err := h.Engine.Queue.Complete(id)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// CancelEntry removes a patient from the queue
func (h *QueueHandler) CancelEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid queue entry ID format")
		return
	}

	entry, err := h.Engine.Queue.CancelEntry(id)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// EstimateWait reports how many patients wait and a rough wait in minutes
func (h *QueueHandler) EstimateWait(c *gin.Context) {
	waiting, minutes, err := h.Engine.Queue.EstimateWait()
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"waiting": waiting, "estimatedMinutes": minutes})
}

// GetQueue lists today's queue in call order
func (h *QueueHandler) GetQueue(c *gin.Context) {
	today := utils.BeginningOfDay(h.Engine.Queue.Now())

	var entries []models.QueueEntry
	if err := config.DB.Preload("Patient").Preload("Doctor").
		Where("queue_date = ?", today).
		Order("time_slot asc, created_at asc, id asc").
		Find(&entries).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve queue")
		return
	}

	c.JSON(http.StatusOK, entries)
}
