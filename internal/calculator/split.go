package calculator

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/walican/walican/internal/money"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.New(5, -1)

	// percentTolerance absorbs inputs such as 33.33 + 33.33 + 33.33.
	percentTolerance = decimal.New(1, -2)
)

// Share is one participant's portion of an expense, in minor units.
type Share struct {
	ParticipantID string
	Amount        int64
}

// ComputeSplit divides a major-unit amount among participants using the given
// strategy. The returned shares follow participantIDs order, one per entry
// (a repeated ID gets one share per occurrence), and always sum to the amount
// in minor units.
func ComputeSplit(amount decimal.Decimal, strategy Strategy, participantIDs []string) ([]Share, error) {
	total, err := toMinor(amount)
	if err != nil {
		return nil, err
	}
	return ComputeSplitMinor(total, strategy, participantIDs)
}

// ComputeSplitMinor is ComputeSplit for an amount already in minor units.
func ComputeSplitMinor(total int64, strategy Strategy, participantIDs []string) ([]Share, error) {
	if total < 0 {
		return nil, validationf(nil, "amount must not be negative, got %d", total)
	}
	if len(participantIDs) == 0 {
		return nil, validationf(nil, "at least one participant is required")
	}

	switch s := strategy.(type) {
	case Equal:
		return splitEqual(total, participantIDs), nil
	case Custom:
		return splitCustom(total, s, participantIDs)
	case Percentage:
		return splitPercentage(total, s, participantIDs)
	case nil:
		return nil, invalidf("split strategy is required")
	}
	return nil, invalidf("unsupported split strategy %T", strategy)
}

// splitEqual gives every slot floor(total/n) and hands the remainder out one
// minor unit at a time to the first slots.
func splitEqual(total int64, ids []string) []Share {
	n := int64(len(ids))
	base := total / n
	remainder := total - base*n

	shares := make([]Share, len(ids))
	for i, id := range ids {
		shares[i] = Share{ParticipantID: id, Amount: base}
		if int64(i) < remainder {
			shares[i].Amount++
		}
	}
	return shares
}

func splitCustom(total int64, s Custom, ids []string) ([]Share, error) {
	if id, ok := unknownKey(s.Shares, ids); ok {
		return nil, invalidf("custom share for %s who is not a participant", id)
	}

	shares := make([]Share, len(ids))
	var sum int64
	for i, id := range ids {
		amount := s.Shares[id]
		if amount < 0 {
			return nil, validationf(nil, "share for %s must not be negative", id)
		}
		shares[i] = Share{ParticipantID: id, Amount: amount}
		sum += amount
	}

	if sum != total {
		return nil, &SplitMismatchError{Expected: total, Actual: sum, Reason: "custom shares must sum to the total"}
	}
	return shares, nil
}

func splitPercentage(total int64, s Percentage, ids []string) ([]Share, error) {
	if id, ok := unknownKey(s.Percents, ids); ok {
		return nil, invalidf("percentage for %s who is not a participant", id)
	}

	shares := make([]Share, len(ids))
	weighted := make([]bool, len(ids))
	totalDec := decimal.NewFromInt(total)
	sumPercent := decimal.Zero
	var sum int64

	for i, id := range ids {
		pct := s.Percents[id]
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return nil, validationf(nil, "percentage for %s must be between 0 and 100, got %s", id, pct)
		}
		sumPercent = sumPercent.Add(pct)

		amount := totalDec.Mul(pct).Shift(-2).Add(half).Floor().IntPart()
		shares[i] = Share{ParticipantID: id, Amount: amount}
		weighted[i] = pct.IsPositive()
		sum += amount
	}

	if sumPercent.Sub(hundred).Abs().GreaterThan(percentTolerance) {
		return nil, &SplitMismatchError{
			Expected: 10000,
			Actual:   sumPercent.Shift(2).Round(0).IntPart(),
			Reason:   "percentages must sum to 100",
		}
	}

	redistribute(shares, weighted, total-sum)
	return shares, nil
}

// redistribute moves diff minor units onto (or off) the weighted slots, one
// unit per slot in input order, wrapping around until diff is used up.
// Shares never drop below zero. Whole rounds are applied at once, so the work
// is bounded by the number of slots rather than by diff.
func redistribute(shares []Share, weighted []bool, diff int64) {
	for diff != 0 {
		eligible := make([]int, 0, len(shares))
		step := int64(-1)
		for i := range shares {
			if !weighted[i] || (diff < 0 && shares[i].Amount == 0) {
				continue
			}
			eligible = append(eligible, i)
			if diff < 0 && (step < 0 || shares[i].Amount < step) {
				step = shares[i].Amount
			}
		}
		if len(eligible) == 0 {
			return
		}

		count := int64(len(eligible))
		abs := diff
		if abs < 0 {
			abs = -abs
		}
		rounds := abs / count
		if diff < 0 {
			rounds = min(rounds, step)
		}

		if rounds == 0 {
			for _, i := range eligible[:abs] {
				if diff > 0 {
					shares[i].Amount++
				} else {
					shares[i].Amount--
				}
			}
			return
		}

		for _, i := range eligible {
			if diff > 0 {
				shares[i].Amount += rounds
			} else {
				shares[i].Amount -= rounds
			}
		}
		if diff > 0 {
			diff -= rounds * count
		} else {
			diff += rounds * count
		}
	}
}

// unknownKey reports the first key (in sorted order) that is not one of ids.
func unknownKey[V any](m map[string]V, ids []string) (string, bool) {
	for _, key := range slices.Sorted(maps.Keys(m)) {
		if !slices.Contains(ids, key) {
			return key, true
		}
	}
	return "", false
}

func toMinor(amount decimal.Decimal) (int64, error) {
	minor, err := money.FromDecimal(amount)
	if err != nil {
		return 0, validationf(err, "amount %s", amount)
	}
	if minor < 0 {
		return 0, validationf(nil, "amount must not be negative, got %s", amount)
	}
	return minor, nil
}
