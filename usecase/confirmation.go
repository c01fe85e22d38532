package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
	"github.com/BISWAJIT-BARAL01/FreshMart/domain/repositories"
)

// ConfirmationState is the review workflow state for one draft.
type ConfirmationState string

const (
	// ConfirmationIdle means no draft is pending.
	ConfirmationIdle ConfirmationState = "idle"
	// ConfirmationReviewing shows the draft read-only with an edit affordance.
	ConfirmationReviewing ConfirmationState = "reviewing"
	// ConfirmationEditing makes the fields mutable.
	ConfirmationEditing ConfirmationState = "editing"
)

var (
	// ErrNoDraft is returned by operations that need a pending draft.
	ErrNoDraft = errors.New("no draft pending confirmation")
	// ErrNotEditing is returned by field setters outside Editing.
	ErrNotEditing = errors.New("draft is not in editing mode")
)

// DraftView is the draft plus its derived display values.
type DraftView struct {
	Draft entities.SaleDraft `json:"draft"`
	State ConfirmationState  `json:"state"`
	Hint  string             `json:"hint,omitempty"`
	// QuantityKg is the quantity normalized to kilograms for weight units,
	// zero for count units.
	QuantityKg float64 `json:"quantity_kg"`
	// PriceDeltaPct is the percentage delta of the draft price against the
	// reference market price, when one is known.
	PriceDeltaPct float64 `json:"price_delta_pct"`
	// PriceDisplay is the price rendered in the profile's native digits.
	PriceDisplay string `json:"price_display"`
}

// Confirmation gates commit of one sale draft at a time. A draft enters
// Reviewing normally, or directly Editing when extraction confidence is low;
// commit requires a non-empty item and a positive total price.
type Confirmation struct {
	sales  repositories.SaleRepository
	logger *zap.Logger

	mu             sync.Mutex
	state          ConfirmationState
	draft          entities.SaleDraft
	hint           string
	referencePrice float64
}

// NewConfirmation creates an empty confirmation workflow.
func NewConfirmation(sales repositories.SaleRepository, logger *zap.Logger) *Confirmation {
	return &Confirmation{sales: sales, logger: logger, state: ConfirmationIdle}
}

// Begin installs a fresh draft, replacing any pending one. Low-confidence and
// failed extractions enter Editing directly so the user fills the gaps.
func (c *Confirmation) Begin(result ExtractionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = result.Draft
	c.hint = result.Hint
	if result.Outcome == ExtractionSuccess && !result.Draft.ConfidenceLow {
		c.state = ConfirmationReviewing
		return
	}
	c.state = ConfirmationEditing
}

// SetReferencePrice installs the market price used for the percentage delta
// display. Zero disables the delta.
func (c *Confirmation) SetReferencePrice(price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.referencePrice = price
}

// State returns the current workflow state.
func (c *Confirmation) State() ConfirmationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View returns the draft with derived display values.
func (c *Confirmation) View(lang entities.Language) DraftView {
	c.mu.Lock()
	defer c.mu.Unlock()
	view := DraftView{
		Draft: c.draft,
		State: c.state,
		Hint:  c.hint,
	}
	if kg, ok := c.draft.QuantityInKg(); ok {
		view.QuantityKg = kg
	}
	if c.referencePrice > 0 && c.draft.Price > 0 {
		view.PriceDeltaPct = (c.draft.Price - c.referencePrice) / c.referencePrice * 100
	}
	view.PriceDisplay = entities.ToLocalDigits(fmt.Sprintf("%.0f", c.draft.Price), lang)
	return view
}

// Edit moves the draft from Reviewing to Editing.
func (c *Confirmation) Edit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case ConfirmationReviewing:
		c.state = ConfirmationEditing
		return nil
	case ConfirmationEditing:
		return nil
	default:
		return ErrNoDraft
	}
}

// Review moves an edited draft back to read-only review.
func (c *Confirmation) Review() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ConfirmationEditing {
		return ErrNotEditing
	}
	c.state = ConfirmationReviewing
	return nil
}

// SetItem updates the produce name. Manual edits are trusted as-is.
func (c *Confirmation) SetItem(item string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ConfirmationEditing {
		return ErrNotEditing
	}
	c.draft.Item = item
	return nil
}

// SetQuantity updates the quantity; negative values are rejected.
func (c *Confirmation) SetQuantity(quantity float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ConfirmationEditing {
		return ErrNotEditing
	}
	if quantity < 0 {
		return errors.New("quantity cannot be negative")
	}
	c.draft.Quantity = quantity
	return nil
}

// SetPrice updates the total price; negative values are rejected.
func (c *Confirmation) SetPrice(price float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ConfirmationEditing {
		return ErrNotEditing
	}
	if price < 0 {
		return errors.New("price cannot be negative")
	}
	c.draft.Price = price
	return nil
}

// SetUnit updates the unit, constrained to the enumerated set.
func (c *Confirmation) SetUnit(unit string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ConfirmationEditing {
		return ErrNotEditing
	}
	if !entities.ValidUnit(unit) {
		return fmt.Errorf("invalid unit %q", unit)
	}
	c.draft.Unit = entities.Unit(unit)
	return nil
}

// Confirm validates and commits the pending draft. On success the record is
// handed to the sale repository and the workflow returns to its initial
// empty state; on validation failure the draft stays editable.
func (c *Confirmation) Confirm(ctx context.Context, userID string) (*entities.SaleRecord, error) {
	c.mu.Lock()
	if c.state == ConfirmationIdle {
		c.mu.Unlock()
		return nil, ErrNoDraft
	}
	draft := c.draft
	c.mu.Unlock()

	record, err := entities.NewSaleRecord(userID, draft)
	if err != nil {
		return nil, err
	}
	if err := c.sales.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}

	c.mu.Lock()
	c.state = ConfirmationIdle
	c.draft = entities.SaleDraft{}
	c.hint = ""
	c.mu.Unlock()

	c.logger.Info("sale committed",
		zap.String("sale_id", record.ID),
		zap.String("item", record.Item),
		zap.Float64("price", record.Price))
	return record, nil
}

// Discard drops the pending draft unconditionally.
func (c *Confirmation) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = ConfirmationIdle
	c.draft = entities.SaleDraft{}
	c.hint = ""
}
