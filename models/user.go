package models

import (
	"clinicops-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a staff record (receptionist, nurse, admin). The backend does no
// session handling; the password is stored hashed purely as record data for
// the desktop client.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null" json:"-"`
	Name     string    `gorm:"not null"`
	Phone    string

	Role     string `gorm:"type:varchar(20);not null"` // 'admin', 'receptionist' or 'nurse'
	IsActive bool   `gorm:"default:true"`

	gorm.Model
}

// Hash the password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}
