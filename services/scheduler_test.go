package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"clinicops-backend/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateDate(t *testing.T) {
	db := openTestDB(t)
	scheduler := testEngine(t, db).Scheduler
	scheduler.Now = fixedClock(date(2025, time.January, 5))

	cases := []struct {
		name string
		date time.Time
		ok   bool
	}{
		{"today", date(2025, time.January, 5), true},
		{"tomorrow", date(2025, time.January, 6), true},
		{"end of next month", date(2025, time.February, 28), true},
		{"yesterday", date(2025, time.January, 4), false},
		{"first day past cutoff", date(2025, time.March, 1), false},
		{"far future", date(2025, time.June, 1), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := scheduler.ValidateDate(tc.date)
			if tc.ok && err != nil {
				t.Fatalf("expected %s to be bookable, got %v", tc.date.Format("2006-01-02"), err)
			}
			if !tc.ok {
				var validation *ValidationError
				if !errors.As(err, &validation) {
					t.Fatalf("expected validation error for %s, got %v", tc.date.Format("2006-01-02"), err)
				}
				// the message must name the exact cutoff so the clerk
				// can tell the patient when booking opens
				if !strings.Contains(validation.Reason, "2025-02-28") {
					t.Fatalf("error should name the cutoff date: %q", validation.Reason)
				}
			}
		})
	}
}

func TestCreateAndCheckConflict(t *testing.T) {
	db := openTestDB(t)
	scheduler := testEngine(t, db).Scheduler
	scheduler.Now = fixedClock(date(2025, time.January, 5))

	doctor := seedDoctor(t, db, "Dr. Reyes")
	otherDoctor := seedDoctor(t, db, "Dr. Cruz")
	patient := seedPatient(t, db, "Ana Santos", nil)
	service := seedService(t, db, "General Consultation", 500)

	input := AppointmentInput{
		PatientName: patient.Name,
		DoctorID:    doctor.ID,
		ServiceID:   service.ID,
		Date:        date(2025, time.January, 10),
		TimeSlot:    "09:00",
		Status:      models.AppointmentConfirmed,
	}

	created, err := scheduler.Create(input)
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	if created.Status != models.AppointmentConfirmed {
		t.Fatalf("expected Confirmed, got %s", created.Status)
	}

	t.Run("same slot conflicts", func(t *testing.T) {
		conflict, err := scheduler.CheckConflict(doctor.ID, date(2025, time.January, 10), "09:00", nil)
		if err != nil {
			t.Fatalf("check conflict: %v", err)
		}
		if !conflict {
			t.Fatal("expected conflict on occupied slot")
		}
	})

	t.Run("one minute later does not conflict", func(t *testing.T) {
		conflict, err := scheduler.CheckConflict(doctor.ID, date(2025, time.January, 10), "09:01", nil)
		if err != nil {
			t.Fatalf("check conflict: %v", err)
		}
		if conflict {
			t.Fatal("slot equality must be exact, 09:01 should be free")
		}
	})

	t.Run("other doctor does not conflict", func(t *testing.T) {
		conflict, err := scheduler.CheckConflict(otherDoctor.ID, date(2025, time.January, 10), "09:00", nil)
		if err != nil {
			t.Fatalf("check conflict: %v", err)
		}
		if conflict {
			t.Fatal("conflicts are per doctor")
		}
	})

	t.Run("double booking rejected", func(t *testing.T) {
		second := input
		second.PatientName = patient.Name
		_, err := scheduler.Create(second)
		var conflict *ConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("expected ConflictError, got %v", err)
		}
	})

	t.Run("override books anyway", func(t *testing.T) {
		second := input
		second.AllowConflict = true
		if _, err := scheduler.Create(second); err != nil {
			t.Fatalf("override create: %v", err)
		}
	})

	t.Run("excluded row does not conflict with itself", func(t *testing.T) {
		id := created.ID
		conflict, err := scheduler.CheckConflict(doctor.ID, date(2025, time.January, 10), "09:00", &id)
		if err != nil {
			t.Fatalf("check conflict: %v", err)
		}
		// the overridden duplicate from the previous subtest still occupies
		// the slot, so excluding the original must still report a conflict
		if !conflict {
			t.Fatal("expected conflict from the remaining booking")
		}
	})

	t.Run("cancelled appointment frees the slot", func(t *testing.T) {
		free := input
		free.TimeSlot = "10:00"
		booked, err := scheduler.Create(free)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := scheduler.Cancel(booked.ID, "patient request"); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		conflict, err := scheduler.CheckConflict(doctor.ID, date(2025, time.January, 10), "10:00", nil)
		if err != nil {
			t.Fatalf("check conflict: %v", err)
		}
		if conflict {
			t.Fatal("cancelled appointments must not block the slot")
		}
	})
}

func TestCreateUnknownPatientFailsClosed(t *testing.T) {
	db := openTestDB(t)
	scheduler := testEngine(t, db).Scheduler
	scheduler.Now = fixedClock(date(2025, time.January, 5))

	doctor := seedDoctor(t, db, "Dr. Reyes")
	service := seedService(t, db, "General Consultation", 500)

	_, err := scheduler.Create(AppointmentInput{
		PatientName: "No Such Person",
		DoctorID:    doctor.ID,
		ServiceID:   service.ID,
		Date:        date(2025, time.January, 10),
		TimeSlot:    "09:00",
	})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	var count int64
	db.Model(&models.Patient{}).Count(&count)
	if count != 0 {
		t.Fatal("booking must never create a patient implicitly")
	}
	db.Model(&models.Appointment{}).Count(&count)
	if count != 0 {
		t.Fatal("failed booking must not write an appointment")
	}
}

func TestRecurrenceDates(t *testing.T) {
	today := date(2025, time.January, 5)
	cutoff := date(2025, time.February, 28)

	t.Run("weekly series fits the window", func(t *testing.T) {
		dates := recurrenceDates(date(2025, time.January, 10), today, cutoff, 7, 6)
		if len(dates) != 6 {
			t.Fatalf("expected 6 dates, got %d", len(dates))
		}
		for i := 1; i < len(dates); i++ {
			if dates[i].Sub(dates[i-1]) != 7*24*time.Hour {
				t.Fatalf("dates must be 7 days apart, got %v", dates[i].Sub(dates[i-1]))
			}
		}
	})

	t.Run("stops at the cutoff instead of skipping past it", func(t *testing.T) {
		dates := recurrenceDates(date(2025, time.February, 14), today, cutoff, 7, 6)
		if len(dates) != 3 {
			t.Fatalf("expected 3 dates (14th, 21st, 28th), got %d", len(dates))
		}
		if !dates[2].Equal(date(2025, time.February, 28)) {
			t.Fatalf("last date should be the cutoff, got %s", dates[2].Format("2006-01-02"))
		}
	})

	t.Run("past candidates do not consume a slot", func(t *testing.T) {
		dates := recurrenceDates(date(2025, time.January, 1), today, cutoff, 1, 3)
		if len(dates) != 3 {
			t.Fatalf("expected 3 dates, got %d", len(dates))
		}
		if !dates[0].Equal(today) {
			t.Fatalf("first created date should be today, got %s", dates[0].Format("2006-01-02"))
		}
	})

	t.Run("monthly steps a fixed 30 days", func(t *testing.T) {
		dates := recurrenceDates(date(2025, time.January, 10), today, cutoff, 30, 3)
		// Jan 10 + 30d = Feb 9; Feb 9 + 30d = Mar 11 which is past the
		// cutoff, so only two land
		if len(dates) != 2 {
			t.Fatalf("expected 2 dates, got %d", len(dates))
		}
		if !dates[1].Equal(date(2025, time.February, 9)) {
			t.Fatalf("30-day step expected Feb 9, got %s", dates[1].Format("2006-01-02"))
		}
	})
}

func TestCreateRecurring(t *testing.T) {
	db := openTestDB(t)
	scheduler := testEngine(t, db).Scheduler
	scheduler.Now = fixedClock(date(2025, time.January, 5))

	doctor := seedDoctor(t, db, "Dr. Reyes")
	patient := seedPatient(t, db, "Ana Santos", nil)
	service := seedService(t, db, "Physical Therapy", 800)

	input := AppointmentInput{
		PatientName: patient.Name,
		DoctorID:    doctor.ID,
		ServiceID:   service.ID,
		Date:        date(2025, time.January, 10),
		TimeSlot:    "14:00",
		Status:      models.AppointmentConfirmed,
	}

	created, err := scheduler.CreateRecurring(input, RecurWeekly, 6)
	if err != nil {
		t.Fatalf("create recurring: %v", err)
	}
	if created != 6 {
		t.Fatalf("expected 6 bookings, got %d", created)
	}

	var appointments []models.Appointment
	if err := db.Order("date asc").Find(&appointments).Error; err != nil {
		t.Fatalf("load appointments: %v", err)
	}
	if len(appointments) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(appointments))
	}

	if appointments[0].RecurringParentID != nil {
		t.Fatal("first booking of a series has no parent")
	}
	for _, a := range appointments[1:] {
		if a.RecurringParentID == nil || *a.RecurringParentID != appointments[0].ID {
			t.Fatal("later bookings must reference the first of the series")
		}
	}

	t.Run("series truncated by cutoff", func(t *testing.T) {
		late := input
		late.TimeSlot = "15:00"
		late.Date = date(2025, time.February, 14)
		created, err := scheduler.CreateRecurring(late, RecurWeekly, 6)
		if err != nil {
			t.Fatalf("create recurring: %v", err)
		}
		if created != 3 {
			t.Fatalf("expected 3 bookings before the cutoff, got %d", created)
		}
	})

	t.Run("occupied slots are skipped, not fatal", func(t *testing.T) {
		overlapping := input
		overlapping.Date = date(2025, time.January, 17) // collides with week 2
		created, err := scheduler.CreateRecurring(overlapping, RecurWeekly, 2)
		if err != nil {
			t.Fatalf("create recurring: %v", err)
		}
		// Jan 17 and Jan 24 are both taken by the first series
		if created != 0 {
			t.Fatalf("expected 0 bookings on occupied slots, got %d", created)
		}
	})
}

func TestUpdateValidatesBeforeWriting(t *testing.T) {
	db := openTestDB(t)
	scheduler := testEngine(t, db).Scheduler
	scheduler.Now = fixedClock(date(2025, time.January, 5))

	doctor := seedDoctor(t, db, "Dr. Reyes")
	patient := seedPatient(t, db, "Ana Santos", nil)
	service := seedService(t, db, "General Consultation", 500)

	created, err := scheduler.Create(AppointmentInput{
		PatientName: patient.Name,
		DoctorID:    doctor.ID,
		ServiceID:   service.ID,
		Date:        date(2025, time.January, 10),
		TimeSlot:    "09:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = scheduler.Update(created.ID, AppointmentInput{
		PatientName: patient.Name,
		DoctorID:    doctor.ID,
		ServiceID:   service.ID,
		Date:        date(2025, time.June, 1), // past the window
		TimeSlot:    "09:00",
	})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	var reloaded models.Appointment
	if err := db.First(&reloaded, "id = ?", created.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.Date.Equal(date(2025, time.January, 10)) {
		t.Fatal("failed update must leave the row untouched")
	}

	t.Run("reschedule to a free slot", func(t *testing.T) {
		updated, err := scheduler.Update(created.ID, AppointmentInput{
			PatientName:      patient.Name,
			DoctorID:         doctor.ID,
			ServiceID:        service.ID,
			Date:             date(2025, time.January, 12),
			TimeSlot:         "10:30",
			Status:           models.AppointmentConfirmed,
			RescheduleReason: "doctor availability",
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.TimeSlot != "10:30" || updated.RescheduleReason != "doctor availability" {
			t.Fatalf("update not applied: %+v", updated)
		}
	})
}

func TestCancelTransitions(t *testing.T) {
	db := openTestDB(t)
	scheduler := testEngine(t, db).Scheduler
	scheduler.Now = fixedClock(date(2025, time.January, 5))

	doctor := seedDoctor(t, db, "Dr. Reyes")
	patient := seedPatient(t, db, "Ana Santos", nil)
	service := seedService(t, db, "General Consultation", 500)

	created, err := scheduler.Create(AppointmentInput{
		PatientName: patient.Name,
		DoctorID:    doctor.ID,
		ServiceID:   service.ID,
		Date:        date(2025, time.January, 10),
		TimeSlot:    "09:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	cancelled, err := scheduler.Cancel(created.ID, "patient request")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != models.AppointmentCancelled || cancelled.CancellationReason != "patient request" {
		t.Fatalf("cancel not applied: %+v", cancelled)
	}

	_, err = scheduler.Cancel(created.ID, "again")
	var state *StateError
	if !errors.As(err, &state) {
		t.Fatalf("expected state error on double cancel, got %v", err)
	}
}
