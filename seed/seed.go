// seed/seed.go
package seed

import (
	"fmt"
	"log"
	"time"

	"clinicops-backend/models"
	"clinicops-backend/utils"

	"github.com/brianvoe/gofakeit/v7"
	"gorm.io/gorm"
)

// Run populates an empty database with demo data for local development.
// It is a no-op when patients already exist.
func Run(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Patient{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Demo data already present, skipping seed")
		return nil
	}

	discountTypes := []models.DiscountType{
		{Name: "Senior Citizen", DiscountPercent: 20, LegalBasis: "RA 9994", IsActive: true},
		{Name: "PWD", DiscountPercent: 20, LegalBasis: "RA 10754", IsActive: true},
		{Name: "Employee", DiscountPercent: 10, IsActive: true},
	}
	if err := db.Create(&discountTypes).Error; err != nil {
		return err
	}

	clinicServices := []models.Service{
		{Name: "General Consultation", Price: 500, Duration: 15, Category: "Consultation", IsActive: true},
		{Name: "Follow-up Consultation", Price: 300, Duration: 10, Category: "Consultation", IsActive: true},
		{Name: "Complete Blood Count", Price: 350, Duration: 10, Category: "Laboratory", IsActive: true},
		{Name: "ECG", Price: 650, Duration: 20, Category: "Diagnostics", IsActive: true},
		{Name: "Wound Dressing", Price: 250, Duration: 15, Category: "Procedure", IsActive: true},
	}
	if err := db.Create(&clinicServices).Error; err != nil {
		return err
	}

	methods := []models.PaymentMethod{
		{Name: "Cash", IsActive: true},
		{Name: "Card", IsActive: true},
		{Name: "GCash", IsActive: true},
	}
	if err := db.Create(&methods).Error; err != nil {
		return err
	}

	var doctors []models.Doctor
	specialties := []string{"General Medicine", "Pediatrics", "Internal Medicine"}
	for i := 0; i < 3; i++ {
		doctors = append(doctors, models.Doctor{
			Name:      "Dr. " + gofakeit.LastName(),
			Specialty: specialties[i],
			Phone:     gofakeit.Phone(),
			IsActive:  true,
		})
	}
	if err := db.Create(&doctors).Error; err != nil {
		return err
	}

	var patients []models.Patient
	for i := 0; i < 25; i++ {
		birth := gofakeit.DateRange(
			time.Now().AddDate(-80, 0, 0),
			time.Now().AddDate(-18, 0, 0),
		)
		p := models.Patient{
			Name:      gofakeit.Name(),
			Phone:     gofakeit.Phone(),
			Email:     gofakeit.Email(),
			BirthDate: &birth,
			Address:   gofakeit.Address().Address,
			IsActive:  true,
		}
		// roughly a fifth of patients carry a discount category
		if i%5 == 0 {
			p.DiscountTypeID = &discountTypes[i%len(discountTypes)].ID
		}
		patients = append(patients, p)
	}
	if err := db.Create(&patients).Error; err != nil {
		return err
	}

	// a few confirmed appointments today so the queue sync has work to do
	today := utils.BeginningOfDay(time.Now())
	for i := 0; i < 5; i++ {
		appointment := models.Appointment{
			PatientID: patients[i].ID,
			DoctorID:  doctors[i%len(doctors)].ID,
			ServiceID: clinicServices[i%len(clinicServices)].ID,
			Date:      today,
			TimeSlot:  fmt.Sprintf("%02d:00", 9+i),
			Status:    models.AppointmentConfirmed,
		}
		if err := db.Create(&appointment).Error; err != nil {
			return err
		}
	}

	log.Println("Demo data seeded")
	return nil
}
