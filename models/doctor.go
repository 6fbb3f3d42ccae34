package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"not null"`
	Specialty string    `gorm:"default:'General Medicine'"`
	Phone     string
	IsActive  bool `gorm:"default:true"`

	Appointments []Appointment `gorm:"foreignKey:DoctorID"`
	QueueEntries []QueueEntry  `gorm:"foreignKey:DoctorID"`

	gorm.Model
}

func (d *Doctor) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}
