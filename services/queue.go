// services/queue.go
package services

import (
	"errors"
	"time"

	"clinicops-backend/models"
	"clinicops-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultConsultMinutes is the assumed length of one consultation, used for
// wait estimates until measured averages exist.
const DefaultConsultMinutes = 15

// WalkInInput creates a queue entry that did not come from an appointment.
type WalkInInput struct {
	PatientName string
	DoctorID    uuid.UUID
	TimeSlot    string
	Purpose     string
}

// QueueCoordinator promotes today's confirmed appointments into the walk-in
// queue and advances entries through the consultation states.
type QueueCoordinator struct {
	db *gorm.DB

	// AverageConsultMinutes feeds wait estimates; override at startup if
	// the clinic runs longer consultations.
	AverageConsultMinutes int

	// Now is replaceable in tests
	Now func() time.Time
}

func NewQueueCoordinator(db *gorm.DB) *QueueCoordinator {
	return &QueueCoordinator{
		db:                    db,
		AverageConsultMinutes: DefaultConsultMinutes,
		Now:                   time.Now,
	}
}

// SyncTodayToQueue inserts one Waiting entry for every confirmed appointment
// dated today that is not yet represented in today's queue. Re-running is
// idempotent. Returns the number of entries inserted.
func (q *QueueCoordinator) SyncTodayToQueue() (int, error) {
	today := utils.BeginningOfDay(q.Now())

	var appointments []models.Appointment
	err := q.db.Preload("Service").
		Where("status = ? AND date = ?", models.AppointmentConfirmed, today).
		Where("id NOT IN (?)", q.db.Model(&models.QueueEntry{}).
			Select("appointment_id").
			Where("queue_date = ? AND appointment_id IS NOT NULL", today)).
		Order("time_slot asc").
		Find(&appointments).Error
	if err != nil {
		return 0, storagef("load confirmed appointments", err)
	}
	if len(appointments) == 0 {
		return 0, nil
	}

	inserted := 0
	err = q.db.Transaction(func(tx *gorm.DB) error {
		for _, appointment := range appointments {
			appointmentID := appointment.ID
			entry := models.QueueEntry{
				PatientID:     appointment.PatientID,
				DoctorID:      appointment.DoctorID,
				AppointmentID: &appointmentID,
				TimeSlot:      appointment.TimeSlot,
				Purpose:       appointment.Service.Name,
				Status:        models.QueueWaiting,
				QueueDate:     today,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return storagef("insert queue entry", err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// AddWalkIn queues a patient who arrived without an appointment.
func (q *QueueCoordinator) AddWalkIn(input WalkInInput) (*models.QueueEntry, error) {
	patient, err := resolvePatientByName(q.db, input.PatientName)
	if err != nil {
		return nil, err
	}
	if !utils.ValidateTimeSlot(input.TimeSlot) {
		return nil, validationf("invalid time slot %q, expected HH:MM", input.TimeSlot)
	}

	var doctor models.Doctor
	if err := q.db.Where("id = ? AND is_active = ?", input.DoctorID, true).First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("doctor %s not found or inactive", input.DoctorID)
		}
		return nil, storagef("verify doctor", err)
	}

	entry := models.QueueEntry{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		TimeSlot:  input.TimeSlot,
		Purpose:   input.Purpose,
		Status:    models.QueueWaiting,
		QueueDate: utils.BeginningOfDay(q.Now()),
	}
	if err := q.db.Create(&entry).Error; err != nil {
		return nil, storagef("insert queue entry", err)
	}
	return &entry, nil
}

// CallNext moves the earliest Waiting entry of today to In Progress and
// returns it, optionally scoped to one doctor. Equal times break by
// creation order, then by id, so repeated calls are deterministic.
// Returns (nil, nil) when nobody is waiting.
func (q *QueueCoordinator) CallNext(doctorID *uuid.UUID) (*models.QueueEntry, error) {
	today := utils.BeginningOfDay(q.Now())

	var entry models.QueueEntry
	err := q.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Where("status = ? AND queue_date = ?", models.QueueWaiting, today)
		if doctorID != nil {
			query = query.Where("doctor_id = ?", *doctorID)
		}
		if err := query.Order("time_slot asc").Order("created_at asc").Order("id asc").
			First(&entry).Error; err != nil {
			return err
		}

		entry.Status = models.QueueInProgress
		if err := tx.Save(&entry).Error; err != nil {
			return storagef("advance queue entry", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storagef("call next", err)
	}
	return &entry, nil
}

// Complete finishes an in-progress consultation.
func (q *QueueCoordinator) Complete(id uuid.UUID) (*models.QueueEntry, error) {
	return q.transition(id, models.QueueCompleted)
}

// CancelEntry removes a waiting or in-progress patient from the queue.
func (q *QueueCoordinator) CancelEntry(id uuid.UUID) (*models.QueueEntry, error) {
	return q.transition(id, models.QueueCancelled)
}

func (q *QueueCoordinator) transition(id uuid.UUID, target models.QueueStatus) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	if err := q.db.First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("queue entry %s not found", id)
		}
		return nil, storagef("load queue entry", err)
	}

	if !queueTransitionAllowed(entry.Status, target) {
		return nil, statef("queue entry %s cannot go from %s to %s", id, entry.Status, target)
	}

	entry.Status = target
	if err := q.db.Save(&entry).Error; err != nil {
		return nil, storagef("update queue entry", err)
	}
	return &entry, nil
}

// queueTransitionAllowed encodes Waiting -> In Progress -> Completed, with
// Cancelled reachable from either non-terminal state. Completed and
// Cancelled entries are never re-opened.
func queueTransitionAllowed(from, to models.QueueStatus) bool {
	switch from {
	case models.QueueWaiting:
		return to == models.QueueInProgress || to == models.QueueCancelled
	case models.QueueInProgress:
		return to == models.QueueCompleted || to == models.QueueCancelled
	}
	return false
}

// EstimateWait returns the number of patients waiting today and a naive
// wait estimate of count x AverageConsultMinutes.
func (q *QueueCoordinator) EstimateWait() (int, int, error) {
	today := utils.BeginningOfDay(q.Now())

	var count int64
	err := q.db.Model(&models.QueueEntry{}).
		Where("status = ? AND queue_date = ?", models.QueueWaiting, today).
		Count(&count).Error
	if err != nil {
		return 0, 0, storagef("count waiting entries", err)
	}
	return int(count), int(count) * q.AverageConsultMinutes, nil
}
