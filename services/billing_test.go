package services

import (
	"errors"
	"testing"

	"clinicops-backend/models"
)

func TestComputeInvoiceStatus(t *testing.T) {
	cases := []struct {
		name   string
		total  float64
		paid   float64
		status models.InvoiceStatus
	}{
		{"nothing paid", 1000, 0, models.InvoiceUnpaid},
		{"partially paid", 1000, 400, models.InvoicePartial},
		{"exactly paid", 1000, 1000, models.InvoicePaid},
		{"overpaid never happens but still Paid", 1000, 1001, models.InvoicePaid},
		{"zero total unpaid", 0, 0, models.InvoiceUnpaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := computeInvoiceStatus(tc.total, tc.paid); got != tc.status {
				t.Fatalf("computeInvoiceStatus(%v, %v) = %s, want %s", tc.total, tc.paid, got, tc.status)
			}
		})
	}
}

func TestCreateInvoiceAppliesResolvedDiscount(t *testing.T) {
	db := openTestDB(t)
	engine := testEngine(t, db)

	senior := seedDiscountType(t, db, "Senior Citizen", 20, true)
	patient := seedPatient(t, db, "Ana Santos", &senior.ID)
	consult := seedService(t, db, "General Consultation", 500)
	lab := seedService(t, db, "Complete Blood Count", 350)

	invoice, err := engine.Billing.CreateInvoice(InvoiceInput{
		PatientName: patient.Name,
		Items: []InvoiceItemInput{
			{ServiceID: consult.ID, Quantity: 1},
			{ServiceID: lab.ID, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	// raw = 500 + 700 = 1200; each line discounted 20%
	if len(invoice.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(invoice.Items))
	}
	if invoice.Items[0].Subtotal != 400 {
		t.Fatalf("consult subtotal: want 400, got %v", invoice.Items[0].Subtotal)
	}
	if invoice.Items[1].Subtotal != 560 {
		t.Fatalf("lab subtotal: want 560, got %v", invoice.Items[1].Subtotal)
	}
	if invoice.TotalAmount != 960 {
		t.Fatalf("total: want 960, got %v", invoice.TotalAmount)
	}
	if invoice.DiscountPercent != 20 {
		t.Fatalf("effective discount: want 20, got %v", invoice.DiscountPercent)
	}
	if invoice.Status != models.InvoiceUnpaid || invoice.AmountPaid != 0 {
		t.Fatalf("new invoices start Unpaid with nothing paid: %+v", invoice)
	}

	// unit prices come from the service record, never the caller
	if invoice.Items[0].UnitPrice != 500 || invoice.Items[1].UnitPrice != 350 {
		t.Fatalf("unit prices must snapshot service prices: %+v", invoice.Items)
	}

	var sum float64
	for _, item := range invoice.Items {
		sum += item.Subtotal
	}
	if sum != invoice.TotalAmount {
		t.Fatalf("total %v must equal the sum of subtotals %v", invoice.TotalAmount, sum)
	}
}

func TestCreateInvoiceWithoutDiscount(t *testing.T) {
	db := openTestDB(t)
	engine := testEngine(t, db)

	patient := seedPatient(t, db, "Ben Lim", nil)
	consult := seedService(t, db, "General Consultation", 500)

	invoice, err := engine.Billing.CreateInvoice(InvoiceInput{
		PatientName: patient.Name,
		Items:       []InvoiceItemInput{{ServiceID: consult.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if invoice.TotalAmount != 1500 || invoice.DiscountPercent != 0 {
		t.Fatalf("expected 1500 at 0%%, got %v at %v%%", invoice.TotalAmount, invoice.DiscountPercent)
	}
}

func TestCreateInvoiceIgnoresInactiveDiscount(t *testing.T) {
	db := openTestDB(t)
	engine := testEngine(t, db)

	retired := seedDiscountType(t, db, "Promo 2019", 50, false)
	patient := seedPatient(t, db, "Carla Uy", &retired.ID)
	consult := seedService(t, db, "General Consultation", 500)

	invoice, err := engine.Billing.CreateInvoice(InvoiceInput{
		PatientName: patient.Name,
		Items:       []InvoiceItemInput{{ServiceID: consult.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if invoice.TotalAmount != 500 || invoice.DiscountPercent != 0 {
		t.Fatalf("inactive discount must not apply, got %v at %v%%", invoice.TotalAmount, invoice.DiscountPercent)
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	db := openTestDB(t)
	engine := testEngine(t, db)

	patient := seedPatient(t, db, "Ana Santos", nil)
	consult := seedService(t, db, "General Consultation", 500)

	t.Run("unknown patient aborts with no writes", func(t *testing.T) {
		_, err := engine.Billing.CreateInvoice(InvoiceInput{
			PatientName: "No Such Person",
			Items:       []InvoiceItemInput{{ServiceID: consult.ID, Quantity: 1}},
		})
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("expected validation error, got %v", err)
		}

		var count int64
		db.Model(&models.Invoice{}).Count(&count)
		if count != 0 {
			t.Fatal("failed invoice must leave no rows")
		}
		db.Model(&models.InvoiceItem{}).Count(&count)
		if count != 0 {
			t.Fatal("failed invoice must leave no line items")
		}
	})

	t.Run("zero line items rejected", func(t *testing.T) {
		_, err := engine.Billing.CreateInvoice(InvoiceInput{PatientName: patient.Name})
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		_, err := engine.Billing.CreateInvoice(InvoiceInput{
			PatientName: patient.Name,
			Items:       []InvoiceItemInput{{ServiceID: consult.ID, Quantity: 0}},
		})
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestAddPaymentLifecycle(t *testing.T) {
	db := openTestDB(t)
	engine := testEngine(t, db)

	patient := seedPatient(t, db, "Ana Santos", nil)
	consult := seedService(t, db, "General Consultation", 500)

	invoice, err := engine.Billing.CreateInvoice(InvoiceInput{
		PatientName: patient.Name,
		Items:       []InvoiceItemInput{{ServiceID: consult.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	applied, updated, err := engine.Billing.AddPayment(invoice.ID, 400, nil)
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if applied != 400 || updated.AmountPaid != 400 || updated.Status != models.InvoicePartial {
		t.Fatalf("partial payment not applied: applied=%v %+v", applied, updated)
	}

	t.Run("overpayment is capped at the remaining balance", func(t *testing.T) {
		applied, updated, err := engine.Billing.AddPayment(invoice.ID, 1000, nil)
		if err != nil {
			t.Fatalf("payment: %v", err)
		}
		if applied != 600 {
			t.Fatalf("expected 600 applied, got %v", applied)
		}
		if updated.AmountPaid != updated.TotalAmount {
			t.Fatalf("amount_paid %v must never exceed total %v", updated.AmountPaid, updated.TotalAmount)
		}
		if updated.Status != models.InvoicePaid {
			t.Fatalf("expected Paid, got %s", updated.Status)
		}
	})

	t.Run("fully paid invoices reject further payments", func(t *testing.T) {
		_, _, err := engine.Billing.AddPayment(invoice.ID, 1, nil)
		var state *StateError
		if !errors.As(err, &state) {
			t.Fatalf("expected state error, got %v", err)
		}
	})

	t.Run("non-positive amounts rejected", func(t *testing.T) {
		_, _, err := engine.Billing.AddPayment(invoice.ID, 0, nil)
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestVoidInvoice(t *testing.T) {
	db := openTestDB(t)
	engine := testEngine(t, db)

	patient := seedPatient(t, db, "Ana Santos", nil)
	consult := seedService(t, db, "General Consultation", 500)

	invoice, err := engine.Billing.CreateInvoice(InvoiceInput{
		PatientName: patient.Name,
		Items:       []InvoiceItemInput{{ServiceID: consult.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if _, _, err := engine.Billing.AddPayment(invoice.ID, 500, nil); err != nil {
		t.Fatalf("payment: %v", err)
	}

	voided, err := engine.Billing.VoidInvoice(invoice.ID)
	if err != nil {
		t.Fatalf("void: %v", err)
	}
	if voided.Status != models.InvoiceVoided {
		t.Fatalf("expected Voided, got %s", voided.Status)
	}
	if voided.AmountPaid != 500 {
		t.Fatalf("voiding must not touch amount_paid, got %v", voided.AmountPaid)
	}

	t.Run("voided invoices reject payments", func(t *testing.T) {
		_, _, err := engine.Billing.AddPayment(invoice.ID, 100, nil)
		var state *StateError
		if !errors.As(err, &state) {
			t.Fatalf("expected state error, got %v", err)
		}
	})

	t.Run("voided invoices are not payable", func(t *testing.T) {
		payable, err := engine.Billing.ListPayable()
		if err != nil {
			t.Fatalf("list payable: %v", err)
		}
		for _, inv := range payable {
			if inv.ID == invoice.ID {
				t.Fatal("voided invoice must not be listed as payable")
			}
		}
	})
}

func TestEffectiveDiscountRounding(t *testing.T) {
	// a 12.5% discount on odd prices exercises the two-decimal rounding
	db := openTestDB(t)
	engine := testEngine(t, db)

	dt := seedDiscountType(t, db, "Partner Plan", 12.5, true)
	patient := seedPatient(t, db, "Ana Santos", &dt.ID)
	svc := seedService(t, db, "Minor Procedure", 333.33)

	invoice, err := engine.Billing.CreateInvoice(InvoiceInput{
		PatientName: patient.Name,
		Items:       []InvoiceItemInput{{ServiceID: svc.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	// raw = 999.99, subtotal = round(999.99 * 0.875) = 874.99
	if invoice.TotalAmount != 874.99 {
		t.Fatalf("total: want 874.99, got %v", invoice.TotalAmount)
	}
	// effective = round((1 - 874.99/999.99) * 100) = 12.5
	if invoice.DiscountPercent != 12.5 {
		t.Fatalf("effective discount: want 12.5, got %v", invoice.DiscountPercent)
	}
}
