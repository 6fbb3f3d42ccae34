package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents the booking state of an appointment
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "Pending"
	AppointmentConfirmed AppointmentStatus = "Confirmed"
	AppointmentCancelled AppointmentStatus = "Cancelled"
	AppointmentCompleted AppointmentStatus = "Completed"
)

// Appointment is a scheduled doctor-patient encounter for one service.
// Date carries the calendar day only; TimeSlot is the wall-clock slot in
// "15:04" form so slot equality is exact string equality.
type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	PatientID uuid.UUID `gorm:"type:uuid;index;not null"`
	// composite index backs the slot-conflict lookup; uniqueness is not
	// enforced at the schema level because the front desk may override a
	// conflict deliberately
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index:idx_doctor_slot,priority:1"`
	ServiceID uuid.UUID `gorm:"type:uuid;index;not null"`

	Date     time.Time `gorm:"type:date;not null;index:idx_doctor_slot,priority:2"`
	TimeSlot string    `gorm:"type:varchar(5);not null;index:idx_doctor_slot,priority:3"`

	Status             AppointmentStatus `gorm:"type:varchar(20);default:'Pending'"`
	Notes              string            `gorm:"type:text"`
	CancellationReason string
	RescheduleReason   string
	ReminderSent       bool `gorm:"default:false"`

	// set on appointments generated by a recurring booking, pointing at
	// the first appointment of the series
	RecurringParentID *uuid.UUID `gorm:"type:uuid;index"`

	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"-"`
	Service Service `gorm:"foreignKey:ServiceID" json:"-"`

	gorm.Model
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
