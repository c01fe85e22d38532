package entities

import "testing"

func TestParseUnitDefaultsToKilogram(t *testing.T) {
	cases := map[string]Unit{
		"kg":      UnitKilogram,
		"g":       UnitGram,
		"piece":   UnitPiece,
		"dozen":   UnitDozen,
		" Dozen ": UnitDozen,
		"":        UnitKilogram,
		"litre":   UnitKilogram,
		"quintal": UnitKilogram,
	}
	for input, want := range cases {
		if got := ParseUnit(input); got != want {
			t.Errorf("ParseUnit(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestSaleDraftValidate(t *testing.T) {
	valid := SaleDraft{Item: "Tomato", Quantity: 5, Unit: UnitKilogram, Price: 150}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid draft, got error: %v", err)
	}

	// Quantity may be zero; commit only needs item and price.
	zeroQty := SaleDraft{Item: "Potato", Quantity: 0, Unit: UnitKilogram, Price: 20}
	if err := zeroQty.Validate(); err != nil {
		t.Errorf("Expected zero-quantity draft to be valid, got error: %v", err)
	}

	noItem := SaleDraft{Item: "  ", Quantity: 5, Unit: UnitKilogram, Price: 100}
	if err := noItem.Validate(); err == nil {
		t.Error("Expected error for blank item")
	}

	noPrice := SaleDraft{Item: "Onion", Quantity: 2, Unit: UnitKilogram, Price: 0}
	if err := noPrice.Validate(); err == nil {
		t.Error("Expected error for zero price")
	}

	negativeQty := SaleDraft{Item: "Onion", Quantity: -1, Unit: UnitKilogram, Price: 40}
	if err := negativeQty.Validate(); err == nil {
		t.Error("Expected error for negative quantity")
	}

	badUnit := SaleDraft{Item: "Onion", Quantity: 1, Unit: Unit("litre"), Price: 40}
	if err := badUnit.Validate(); err == nil {
		t.Error("Expected error for invalid unit")
	}
}

func TestQuantityInKg(t *testing.T) {
	grams := SaleDraft{Item: "Chili", Quantity: 500, Unit: UnitGram, Price: 30}
	if kg, ok := grams.QuantityInKg(); !ok || kg != 0.5 {
		t.Errorf("Expected 0.5 kg, got %v (ok=%v)", kg, ok)
	}

	kilos := SaleDraft{Item: "Tomato", Quantity: 5, Unit: UnitKilogram, Price: 150}
	if kg, ok := kilos.QuantityInKg(); !ok || kg != 5 {
		t.Errorf("Expected 5 kg, got %v (ok=%v)", kg, ok)
	}

	pieces := SaleDraft{Item: "Coconut", Quantity: 3, Unit: UnitPiece, Price: 90}
	if _, ok := pieces.QuantityInKg(); ok {
		t.Error("Expected no kg equivalent for count units")
	}
}

func TestNewSaleRecord(t *testing.T) {
	draft := SaleDraft{Item: " Tomato ", Quantity: 5, Unit: UnitKilogram, Price: 150}
	record, err := NewSaleRecord("vendor1", draft)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if record.ID == "" {
		t.Error("Expected generated ID")
	}
	if record.UserID != "vendor1" {
		t.Errorf("Expected user vendor1, got %s", record.UserID)
	}
	if record.Item != "Tomato" {
		t.Errorf("Expected trimmed item, got %q", record.Item)
	}
	if record.RecordedAt.IsZero() {
		t.Error("Expected RecordedAt to be set")
	}

	if _, err := NewSaleRecord("vendor1", PlaceholderDraft()); err == nil {
		t.Error("Expected placeholder draft to be rejected")
	}
}

func TestPlaceholderDraft(t *testing.T) {
	draft := PlaceholderDraft()
	if draft.Item != "" || draft.Quantity != 0 || draft.Price != 0 {
		t.Errorf("Expected zeroed fields, got %+v", draft)
	}
	if draft.Unit != UnitKilogram {
		t.Errorf("Expected kg unit, got %s", draft.Unit)
	}
	if !draft.ConfidenceLow {
		t.Error("Expected ConfidenceLow to be set")
	}
}
