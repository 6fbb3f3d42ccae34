package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QueueStatus represents a patient's position in the consultation flow
type QueueStatus string

const (
	QueueWaiting    QueueStatus = "Waiting"
	QueueInProgress QueueStatus = "In Progress"
	QueueCompleted  QueueStatus = "Completed"
	QueueCancelled  QueueStatus = "Cancelled"
)

// QueueEntry is a same-day walk-in record. QueueDate scopes the entry to
// one calendar day; entries from previous days are never picked up again.
type QueueEntry struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	PatientID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	DoctorID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index"`

	TimeSlot  string      `gorm:"type:varchar(5);not null"`
	Purpose   string      `gorm:"type:text"`
	Status    QueueStatus `gorm:"type:varchar(20);default:'Waiting'"`
	QueueDate time.Time   `gorm:"type:date;index;not null"`

	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"-"`

	gorm.Model
}

func (q *QueueEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return
}
