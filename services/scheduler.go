// services/scheduler.go
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

// RecurrenceFrequency selects the step between generated appointments.
// Monthly is a fixed 30-day offset, matching the clinic's long-standing
// booking behavior, not calendar-month arithmetic.
type RecurrenceFrequency string

const (
	RecurDaily   RecurrenceFrequency = "Daily"
	RecurWeekly  RecurrenceFrequency = "Weekly"
	RecurMonthly RecurrenceFrequency = "Monthly"
)

func (f RecurrenceFrequency) stepDays() (int, bool) {
	switch f {
	case RecurDaily:
		return 1, true
	case RecurWeekly:
		return 7, true
	case RecurMonthly:
		return 30, true
	}
	return 0, false
}

// AppointmentInput carries everything needed to book or rebook a slot. The
// patient is addressed by display name and must already exist.
type AppointmentInput struct {
	PatientName string
	DoctorID    uuid.UUID
	ServiceID   uuid.UUID
	Date        time.Time
	TimeSlot    string // "HH:MM"
	Status      models.AppointmentStatus
	Notes       string

	CancellationReason string
	RescheduleReason   string

	// AllowConflict books the slot even when another non-cancelled
	// appointment already occupies it. Front desk staff use this for
	// deliberate double-booking.
	AllowConflict bool
}

// Scheduler books, rebooks and cancels appointments. All slot writes run
// inside a transaction with the conflict check so the check-then-insert
// sequence is atomic.
type Scheduler struct {
	db    *gorm.DB
	audit AuditSink

	// Now is replaceable in tests
	Now func() time.Time
}

func NewScheduler(db *gorm.DB, audit AuditSink) *Scheduler {
	return &Scheduler{db: db, audit: audit, Now: time.Now}
}

// ValidateDate enforces the booking window: no earlier than today and no
// later than the last day of next month. The window is clinic policy.
func (s *Scheduler) ValidateDate(date time.Time) error {
	today := utils.BeginningOfDay(s.Now())
	cutoff := utils.EndOfNextMonth(today)
	d := utils.BeginningOfDay(date)

	if d.Before(today) || d.After(cutoff) {
		return validationf("appointment date must be between %s and %s",
			today.Format("2006-01-02"), cutoff.Format("2006-01-02"))
	}
	return nil
}

// CheckConflict reports whether another non-cancelled appointment occupies
// the exact same (doctor, date, time) slot. excludeID skips one row so an
// appointment being edited does not collide with itself.
func (s *Scheduler) CheckConflict(doctorID uuid.UUID, date time.Time, timeSlot string, excludeID *uuid.UUID) (bool, error) {
	return checkConflictTx(s.db, doctorID, date, timeSlot, excludeID)
}

func checkConflictTx(tx *gorm.DB, doctorID uuid.UUID, date time.Time, timeSlot string, excludeID *uuid.UUID) (bool, error) {
	q := tx.Model(&models.Appointment{}).
		Where("doctor_id = ? AND date = ? AND time_slot = ? AND status <> ?",
			doctorID, utils.BeginningOfDay(date), timeSlot, models.AppointmentCancelled)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, storagef("check conflict", err)
	}
	return count > 0, nil
}

// Create books a single appointment. The patient is resolved by name and
// booking fails closed when the name is unknown.
func (s *Scheduler) Create(input AppointmentInput) (*models.Appointment, error) {
	return s.create(input, nil)
}

func (s *Scheduler) create(input AppointmentInput, recurringParent *uuid.UUID) (*models.Appointment, error) {
	patient, err := resolvePatientByName(s.db, input.PatientName)
	if err != nil {
		return nil, err
	}

	if err := s.ValidateDate(input.Date); err != nil {
		return nil, err
	}
	if !utils.ValidateTimeSlot(input.TimeSlot) {
		return nil, validationf("invalid time slot %q, expected HH:MM", input.TimeSlot)
	}

	var doctor models.Doctor
	if err := s.db.Where("id = ? AND is_active = ?", input.DoctorID, true).First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("doctor %s not found or inactive", input.DoctorID)
		}
		return nil, storagef("verify doctor", err)
	}

	var service models.Service
	if err := s.db.First(&service, "id = ?", input.ServiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("service %s not found", input.ServiceID)
		}
		return nil, storagef("verify service", err)
	}

	status := input.Status
	if status == "" {
		status = models.AppointmentPending
	}

	appointment := models.Appointment{
		PatientID:         patient.ID,
		DoctorID:          doctor.ID,
		ServiceID:         service.ID,
		Date:              utils.BeginningOfDay(input.Date),
		TimeSlot:          input.TimeSlot,
		Status:            status,
		Notes:             input.Notes,
		RecurringParentID: recurringParent,
	}

	// Conflict check and insert share one transaction so two concurrent
	// bookings cannot both pass the check before either commits.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if !input.AllowConflict {
			conflict, err := checkConflictTx(tx, doctor.ID, input.Date, input.TimeSlot, nil)
			if err != nil {
				return err
			}
			if conflict {
				return &ConflictError{
					DoctorName: doctor.Name,
					Date:       appointment.Date.Format("2006-01-02"),
					TimeSlot:   input.TimeSlot,
				}
			}
		}
		if err := tx.Create(&appointment).Error; err != nil {
			return storagef("create appointment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record("appointment.create",
		fmt.Sprintf("patient=%s doctor=%s date=%s time=%s",
			patient.Name, doctor.Name, appointment.Date.Format("2006-01-02"), appointment.TimeSlot))

	return &appointment, nil
}

// recurrenceDates generates the dates a recurring booking will occupy.
// Candidates before today are skipped without consuming a slot; generation
// stops at the first candidate past the booking cutoff.
func recurrenceDates(start, today, cutoff time.Time, stepDays, count int) []time.Time {
	var dates []time.Time
	candidate := utils.BeginningOfDay(start)
	today = utils.BeginningOfDay(today)

	for len(dates) < count {
		if candidate.After(cutoff) {
			break
		}
		if !candidate.Before(today) {
			dates = append(dates, candidate)
		}
		candidate = candidate.AddDate(0, 0, stepDays)
	}
	return dates
}

// CreateRecurring books up to count appointments starting at input.Date,
// stepping by the frequency. Returns how many were actually created.
// Candidates whose slot is already taken are skipped rather than aborting
// the series, unless AllowConflict is set.
func (s *Scheduler) CreateRecurring(input AppointmentInput, freq RecurrenceFrequency, count int) (int, error) {
	step, ok := freq.stepDays()
	if !ok {
		return 0, validationf("invalid recurrence frequency %q", freq)
	}
	if count < 1 {
		return 0, validationf("recurrence count must be at least 1")
	}

	today := utils.BeginningOfDay(s.Now())
	cutoff := utils.EndOfNextMonth(today)
	dates := recurrenceDates(input.Date, today, cutoff, step, count)
	if len(dates) == 0 {
		return 0, validationf("no bookable dates between %s and %s",
			today.Format("2006-01-02"), cutoff.Format("2006-01-02"))
	}

	created := 0
	var parentID *uuid.UUID
	for _, date := range dates {
		next := input
		next.Date = date
		appointment, err := s.create(next, parentID)
		if err != nil {
			var conflict *ConflictError
			if errors.As(err, &conflict) {
				continue
			}
			return created, err
		}
		if parentID == nil {
			id := appointment.ID
			parentID = &id
		}
		created++
	}
	return created, nil
}

// Update rewrites an appointment in place. Validation and patient
// resolution run before any write; a failure leaves the row untouched.
func (s *Scheduler) Update(id uuid.UUID, input AppointmentInput) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := s.db.First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("appointment %s not found", id)
		}
		return nil, storagef("load appointment", err)
	}

	patient, err := resolvePatientByName(s.db, input.PatientName)
	if err != nil {
		return nil, err
	}
	if err := s.ValidateDate(input.Date); err != nil {
		return nil, err
	}
	if !utils.ValidateTimeSlot(input.TimeSlot) {
		return nil, validationf("invalid time slot %q, expected HH:MM", input.TimeSlot)
	}

	var doctor models.Doctor
	if err := s.db.First(&doctor, "id = ?", input.DoctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("doctor %s not found", input.DoctorID)
		}
		return nil, storagef("verify doctor", err)
	}

	appointment.PatientID = patient.ID
	appointment.DoctorID = input.DoctorID
	appointment.ServiceID = input.ServiceID
	appointment.Date = utils.BeginningOfDay(input.Date)
	appointment.TimeSlot = input.TimeSlot
	if input.Status != "" {
		// status overwrites are deliberately unrestricted on the edit
		// path; the desktop client offers administrative corrections
		appointment.Status = input.Status
	}
	appointment.Notes = input.Notes
	appointment.CancellationReason = input.CancellationReason
	appointment.RescheduleReason = input.RescheduleReason

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if !input.AllowConflict && appointment.Status != models.AppointmentCancelled {
			excludeID := appointment.ID
			conflict, err := checkConflictTx(tx, appointment.DoctorID, appointment.Date, appointment.TimeSlot, &excludeID)
			if err != nil {
				return err
			}
			if conflict {
				return &ConflictError{
					DoctorName: doctor.Name,
					Date:       appointment.Date.Format("2006-01-02"),
					TimeSlot:   appointment.TimeSlot,
				}
			}
		}
		if err := tx.Save(&appointment).Error; err != nil {
			return storagef("update appointment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record("appointment.update",
		fmt.Sprintf("patient=%s doctor=%s date=%s time=%s",
			patient.Name, doctor.Name, appointment.Date.Format("2006-01-02"), appointment.TimeSlot))

	return &appointment, nil
}

// Cancel marks an appointment cancelled and records the reason. Completed
// appointments stay completed; use Update for administrative corrections.
func (s *Scheduler) Cancel(id uuid.UUID, reason string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := s.db.Preload("Patient").Preload("Doctor").First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("appointment %s not found", id)
		}
		return nil, storagef("load appointment", err)
	}

	switch appointment.Status {
	case models.AppointmentCancelled:
		return nil, statef("appointment %s is already cancelled", id)
	case models.AppointmentCompleted:
		return nil, statef("appointment %s is completed and cannot be cancelled", id)
	}

	appointment.Status = models.AppointmentCancelled
	appointment.CancellationReason = reason
	if err := s.db.Save(&appointment).Error; err != nil {
		return nil, storagef("cancel appointment", err)
	}

	s.audit.Record("appointment.cancel",
		fmt.Sprintf("patient=%s doctor=%s reason=%q", appointment.Patient.Name, appointment.Doctor.Name, reason))

	return &appointment, nil
}
