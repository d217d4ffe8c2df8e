package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxExpenseAmount is the largest expense accepted, in major units.
// It is enforced by the service layer before anything reaches the calculator.
var MaxExpenseAmount = decimal.NewFromInt(10_000_000)

// SplitKind is the persisted tag of a split strategy.
type SplitKind string

const (
	SplitEqual      SplitKind = "equal"
	SplitCustom     SplitKind = "custom"
	SplitPercentage SplitKind = "percentage"
)

// ParseSplitKind validates a stored or user-supplied split tag.
// An empty tag means equal, matching rows written before the column existed.
func ParseSplitKind(s string) (SplitKind, error) {
	switch SplitKind(s) {
	case "", SplitEqual:
		return SplitEqual, nil
	case SplitCustom:
		return SplitCustom, nil
	case SplitPercentage:
		return SplitPercentage, nil
	}
	return "", fmt.Errorf("unknown split kind %q", s)
}

// Expense is money spent by one participant on behalf of the group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	EventID string

	// PayerID is the participant who paid the whole amount.
	PayerID string

	Description string
	Category    string

	// Amount is the total in major units (e.g., 12.50). Never negative.
	Amount decimal.Decimal

	// Currency is the ISO code; empty means the event's currency.
	Currency string

	// SplitKind selects how Amount is divided.
	SplitKind SplitKind

	// CustomShares holds per-participant major-unit shares embedded in the
	// expense itself. When present on a custom expense it takes precedence
	// over Splits.
	CustomShares map[string]decimal.Decimal

	// Splits are the persisted per-participant shares. Empty for equal
	// expenses shared by everyone; those are recomputed on every query.
	Splits []ExpenseSplit

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// ExpenseSplit records that one participant owes part of one expense.
type ExpenseSplit struct {
	ExpenseID     string
	ParticipantID string

	// Amount is this participant's share in major units.
	Amount decimal.Decimal

	// Settled is informational only; balances always count the split and
	// rely on recorded payments to offset it.
	Settled bool
}

// Payment records money actually handed from one participant to another.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	EventID string

	// FromID is the participant who paid (debtor settling up).
	FromID string

	// ToID is the participant who received the money.
	ToID string

	// Amount is the payment in major units.
	Amount decimal.Decimal

	// Note is an optional description.
	Note string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}
