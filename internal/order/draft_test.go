package order

import (
	"errors"
	"testing"

	"voltabot/internal/catalog"
)

func completeDraft(t *testing.T, cat *catalog.Catalog) *Draft {
	t.Helper()
	d := New()
	for field, raw := range map[Field]string{
		FieldSensorType: "NTC10K",
		FieldDimensions: "6×50",
		FieldWireLength: "100",
		FieldQuantity:   "2",
	} {
		if err := d.Set(cat, field, raw); err != nil {
			t.Fatalf("Set(%s, %q) failed: %v", field, raw, err)
		}
	}
	return d
}

func TestResetClearsEverything(t *testing.T) {
	cat := catalog.Default()
	d := completeDraft(t, cat)
	if err := d.Set(cat, FieldCustomerName, "Ali Rezaei"); err != nil {
		t.Fatal(err)
	}
	if err := d.Set(cat, FieldCustomerPhone, "09123456789"); err != nil {
		t.Fatal(err)
	}
	d.Await(PendingReceiptImage)
	d.ChannelNotified = true
	d.ReceiptSubmitted = true
	d.SetCalculatorSensor(15000)
	d.SetCalculatorSheath(12000)

	d.Reset()

	if *d != (Draft{}) {
		t.Errorf("Reset left state behind: %+v", *d)
	}
}

func TestSetClearsMatchingPendingTag(t *testing.T) {
	cat := catalog.Default()
	d := New()
	d.Await(PendingWireLength)

	if err := d.Set(cat, FieldQuantity, "3"); err != nil {
		t.Fatal(err)
	}
	if d.Pending != PendingWireLength {
		t.Errorf("unrelated field cleared tag, pending = %q", d.Pending)
	}

	if err := d.Set(cat, FieldWireLength, "250"); err != nil {
		t.Fatal(err)
	}
	if d.Pending != PendingNone {
		t.Errorf("pending = %q, want none", d.Pending)
	}
	if *d.WireLengthCM != 250 {
		t.Errorf("wire length = %d, want 250", *d.WireLengthCM)
	}
}

func TestSetFailureLeavesDraftUnchanged(t *testing.T) {
	cat := catalog.Default()
	d := completeDraft(t, cat)
	d.Await(PendingWireLength)
	before := *d.WireLengthCM

	err := d.Set(cat, FieldWireLength, "501")
	var verr *ValidationError
	if !errors.As(err, &verr) || !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected out of range validation error, got %v", err)
	}
	if *d.WireLengthCM != before || d.Pending != PendingWireLength {
		t.Errorf("draft mutated on failure: length=%d pending=%q", *d.WireLengthCM, d.Pending)
	}

	if err := d.Set(cat, FieldSensorType, "K-TYPE"); !errors.Is(err, ErrUnknownOption) {
		t.Errorf("expected unknown option, got %v", err)
	}
}

func TestIsComplete(t *testing.T) {
	cat := catalog.Default()
	d := completeDraft(t, cat)

	if !d.IsComplete(RequiredFields(false)) {
		t.Error("expected draft to be complete without contact info")
	}
	if d.IsComplete(RequiredFields(true)) {
		t.Error("expected draft to be incomplete when contact info is required")
	}

	missing := d.Missing(RequiredFields(true))
	if len(missing) != 2 || missing[0] != FieldCustomerName || missing[1] != FieldCustomerPhone {
		t.Errorf("Missing = %v", missing)
	}

	d.Quantity = nil
	if d.IsComplete(RequiredFields(false)) {
		t.Error("expected draft without quantity to be incomplete")
	}
}

func TestCustomerName(t *testing.T) {
	cat := catalog.Default()
	d := New()
	if err := d.Set(cat, FieldCustomerName, "  Mohammad Hossein Davoodi "); err != nil {
		t.Fatal(err)
	}
	if *d.CustomerFirstName != "Mohammad" || *d.CustomerLastName != "Hossein Davoodi" {
		t.Errorf("got first=%q last=%q", *d.CustomerFirstName, *d.CustomerLastName)
	}

	if err := d.Set(cat, FieldCustomerName, "Sara"); err != nil {
		t.Fatal(err)
	}
	if d.CustomerLastName != nil || d.CustomerName() != "Sara" {
		t.Errorf("single word name not stored correctly: %q", d.CustomerName())
	}
}
