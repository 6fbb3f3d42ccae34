// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"clinicops-backend/models"
	"clinicops-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// ReminderService notifies patients about tomorrow's confirmed appointments.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendDailyReminders)

	c.Start()
	log.Println("Reminder scheduler started")
}

// SendDailyReminders messages every patient with a confirmed appointment
// tomorrow that has not been reminded yet. Failures are logged and the
// appointment stays unreminded so the next run retries it.
func (s *ReminderService) SendDailyReminders() {
	log.Println("Starting daily reminder processing...")

	tomorrow := utils.BeginningOfDay(time.Now()).AddDate(0, 0, 1)

	var appointments []models.Appointment
	err := s.db.Preload("Patient").Preload("Doctor").Preload("Service").
		Where("status = ? AND date = ? AND reminder_sent = ?",
			models.AppointmentConfirmed, tomorrow, false).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Failed to fetch appointments for reminders: %v", err)
		return
	}

	for _, appointment := range appointments {
		s.sendReminder(appointment)
	}

	log.Println("Daily reminder processing completed")
}

func (s *ReminderService) sendReminder(appointment models.Appointment) {
	patient := appointment.Patient
	if patient.Phone == "" {
		log.Printf("Patient %s has no phone number, skipping reminder", patient.Name)
		return
	}

	message := fmt.Sprintf("Hi %s, this is a reminder of your %s appointment with %s tomorrow at %s.",
		patient.Name, appointment.Service.Name, appointment.Doctor.Name, appointment.TimeSlot)

	// Determine channel (WhatsApp if available, else SMS)
	channel := "sms"
	var to string

	// Use WhatsApp if phone is in E.164 format and starts with '+'
	if strings.HasPrefix(patient.Phone, "+") {
		to = "whatsapp:" + patient.Phone
		channel = "whatsapp"
	} else {
		to = patient.Phone
	}

	// Send message via Twilio
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)

	// Use WhatsApp sender if available
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send reminder to %s: %v", patient.Phone, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("Reminder sent to %s, SID: %s", patient.Phone, *resp.Sid)
	} else {
		log.Printf("Reminder sent to %s, but no SID returned", patient.Phone)
	}

	// Log the reminder
	reminderLog := models.ReminderLog{
		AppointmentID: appointment.ID,
		PatientID:     patient.ID,
		Message:       message,
		Status:        status,
		ErrorMessage:  errorMsg,
		Channel:       channel,
		SentAt:        time.Now(),
	}

	if err := s.db.Create(&reminderLog).Error; err != nil {
		log.Printf("Failed to log reminder for patient %s: %v", patient.ID, err)
	}

	if status == "sent" {
		if err := s.db.Model(&models.Appointment{}).
			Where("id = ?", appointment.ID).
			Update("reminder_sent", true).Error; err != nil {
			log.Printf("Failed to mark appointment %s as reminded: %v", appointment.ID, err)
		}
	}
}
