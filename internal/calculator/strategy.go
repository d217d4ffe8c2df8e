package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/walican/walican/internal/models"
	"github.com/walican/walican/internal/money"
)

// Strategy selects how an expense is divided. The set of strategies is
// closed: Equal, Custom and Percentage are the only implementations.
type Strategy interface {
	Kind() models.SplitKind
	sealed()
}

// Equal divides the amount into equal shares; leftover minor units go to the
// first participants in input order.
type Equal struct{}

// Custom assigns each participant an exact share in minor units.
// Participants missing from Shares owe nothing.
type Custom struct {
	Shares map[string]int64
}

// Percentage assigns each participant a percentage (0-100) of the amount.
// Participants missing from Percents owe nothing.
type Percentage struct {
	Percents map[string]decimal.Decimal
}

func (Equal) Kind() models.SplitKind      { return models.SplitEqual }
func (Custom) Kind() models.SplitKind     { return models.SplitCustom }
func (Percentage) Kind() models.SplitKind { return models.SplitPercentage }

func (Equal) sealed()      {}
func (Custom) sealed()     {}
func (Percentage) sealed() {}

// CustomFromMajor builds a Custom strategy from major-unit shares.
func CustomFromMajor(shares map[string]decimal.Decimal) (Custom, error) {
	minor := make(map[string]int64, len(shares))
	for id, amount := range shares {
		m, err := money.FromDecimal(amount)
		if err != nil {
			return Custom{}, validationf(err, "share for %s", id)
		}
		minor[id] = m
	}
	return Custom{Shares: minor}, nil
}

// NewStrategy builds a strategy from its persisted tag and the parameters
// that tag needs. Custom shares are major units.
func NewStrategy(kind models.SplitKind, shares, percents map[string]decimal.Decimal) (Strategy, error) {
	switch kind {
	case models.SplitEqual:
		return Equal{}, nil
	case models.SplitCustom:
		if len(shares) == 0 {
			return nil, invalidf("custom split requires shares")
		}
		return CustomFromMajor(shares)
	case models.SplitPercentage:
		if len(percents) == 0 {
			return nil, invalidf("percentage split requires percentages")
		}
		return Percentage{Percents: percents}, nil
	}
	return nil, invalidf("unknown split kind %q", kind)
}
