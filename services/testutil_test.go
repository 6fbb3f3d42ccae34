package services

import (
	"testing"
	"time"

	"clinicops-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB gives every test its own in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// a single connection keeps every session on the same :memory: database
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	err = db.AutoMigrate(
		&models.Doctor{},
		&models.DiscountType{},
		&models.Patient{},
		&models.Service{},
		&models.PaymentMethod{},
		&models.Appointment{},
		&models.QueueEntry{},
		&models.Invoice{},
		&models.InvoiceItem{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// discardAudit keeps test output clean.
type discardAudit struct{}

func (discardAudit) Record(action, details string) {}

func testEngine(t *testing.T, db *gorm.DB) *Engine {
	t.Helper()
	return NewEngine(db, discardAudit{})
}

// fixedClock pins "now" so date-window assertions are stable.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create fixture %T: %v", value, err)
	}
}

func seedDoctor(t *testing.T, db *gorm.DB, name string) models.Doctor {
	t.Helper()
	doctor := models.Doctor{Name: name, Specialty: "General Medicine", IsActive: true}
	mustCreate(t, db, &doctor)
	return doctor
}

func seedPatient(t *testing.T, db *gorm.DB, name string, discountTypeID *uuid.UUID) models.Patient {
	t.Helper()
	patient := models.Patient{Name: name, Phone: "+15550100", DiscountTypeID: discountTypeID, IsActive: true}
	mustCreate(t, db, &patient)
	return patient
}

func seedService(t *testing.T, db *gorm.DB, name string, price float64) models.Service {
	t.Helper()
	service := models.Service{Name: name, Price: price, Duration: 15, IsActive: true}
	mustCreate(t, db, &service)
	return service
}

func seedDiscountType(t *testing.T, db *gorm.DB, name string, percent float64, active bool) models.DiscountType {
	t.Helper()
	dt := models.DiscountType{Name: name, DiscountPercent: percent, LegalBasis: "test", IsActive: active}
	mustCreate(t, db, &dt)
	// IsActive carries a `default:true` tag, so gorm drops a false zero value
	// from the INSERT; set the column explicitly so the fixture matches `active`.
	if err := db.Model(&dt).Update("is_active", active).Error; err != nil {
		t.Fatalf("set is_active on fixture: %v", err)
	}
	return dt
}
