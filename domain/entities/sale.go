package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Unit is the measurement unit of a sale.
type Unit string

const (
	UnitKilogram Unit = "kg"
	UnitGram     Unit = "g"
	UnitPiece    Unit = "piece"
	UnitDozen    Unit = "dozen"
)

// ParseUnit maps a free-form unit string onto the enumerated set. Unknown or
// empty units default to kilograms, matching the extraction contract.
func ParseUnit(s string) Unit {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case UnitGram:
		return UnitGram
	case UnitPiece:
		return UnitPiece
	case UnitDozen:
		return UnitDozen
	default:
		return UnitKilogram
	}
}

// ValidUnit reports whether s is one of the enumerated units.
func ValidUnit(s string) bool {
	switch Unit(s) {
	case UnitKilogram, UnitGram, UnitPiece, UnitDozen:
		return true
	}
	return false
}

// SaleDraft is an extracted-but-not-yet-committed sale record. Price is the
// total price, not per-unit. ConfidenceLow marks a draft whose extraction
// could determine neither item nor price; such drafts start zeroed and force
// manual entry.
type SaleDraft struct {
	Item          string  `json:"item"`
	Quantity      float64 `json:"quantity"`
	Unit          Unit    `json:"unit"`
	Price         float64 `json:"price"`
	ConfidenceLow bool    `json:"confidence_low"`
}

// PlaceholderDraft is the zeroed draft used when extraction fails.
func PlaceholderDraft() SaleDraft {
	return SaleDraft{Unit: UnitKilogram, ConfidenceLow: true}
}

// Validate checks commit preconditions. Quantity may be zero or defaulted,
// but never negative.
func (d SaleDraft) Validate() error {
	if strings.TrimSpace(d.Item) == "" {
		return errors.New("item is required")
	}
	if d.Price <= 0 {
		return errors.New("price must be positive")
	}
	if d.Quantity < 0 {
		return errors.New("quantity cannot be negative")
	}
	if !ValidUnit(string(d.Unit)) {
		return errors.New("invalid unit")
	}
	return nil
}

// QuantityInKg returns the draft quantity normalized to kilograms. The second
// return is false for count units, which have no weight equivalent.
func (d SaleDraft) QuantityInKg() (float64, bool) {
	switch d.Unit {
	case UnitKilogram:
		return d.Quantity, true
	case UnitGram:
		return d.Quantity / 1000, true
	default:
		return 0, false
	}
}

// SaleRecord is a committed sale.
type SaleRecord struct {
	ID         string    `json:"id" bson:"id"`
	UserID     string    `json:"user_id" bson:"user_id"`
	Item       string    `json:"item" bson:"item"`
	Quantity   float64   `json:"quantity" bson:"quantity"`
	Unit       Unit      `json:"unit" bson:"unit"`
	Price      float64   `json:"price" bson:"price"`
	RecordedAt time.Time `json:"recorded_at" bson:"recorded_at"`
}

// NewSaleRecord finalizes a valid draft into a committed record.
func NewSaleRecord(userID string, draft SaleDraft) (*SaleRecord, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	return &SaleRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		Item:       strings.TrimSpace(draft.Item),
		Quantity:   draft.Quantity,
		Unit:       draft.Unit,
		Price:      draft.Price,
		RecordedAt: time.Now(),
	}, nil
}
