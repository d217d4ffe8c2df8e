package calculator

import (
	"slices"

	"github.com/walican/walican/internal/models"
	"github.com/walican/walican/internal/money"
)

// AggregateBalances computes one Balance per participant, in input order,
// from the full expense history of an event.
//
// Algorithm:
//   - paid[payer] += expense amount
//   - owed[p] += p's share, where shares come from the expense's embedded
//     custom shares, else its persisted split rows, else an equal split over
//     all supplied participants
//   - net = paid - owed
//
// Because every expense's shares sum to its own amount, the nets always sum
// to zero. The result is all-or-nothing: any inconsistent expense or a
// participant listed twice aborts the whole aggregation.
func AggregateBalances(participants []models.Participant, expenses []models.Expense) ([]models.Balance, error) {
	ids := make([]string, len(participants))
	paid := make(map[string]int64, len(participants))
	owed := make(map[string]int64, len(participants))
	for i, p := range participants {
		if _, dup := paid[p.ID]; dup {
			return nil, invalidf("participant %s is listed more than once", p.ID)
		}
		ids[i] = p.ID
		paid[p.ID] = 0
		owed[p.ID] = 0
	}

	currency := ""
	for _, expense := range expenses {
		if expense.Currency != "" {
			code := money.Normalize(expense.Currency)
			if currency == "" {
				currency = code
			} else if code != currency {
				return nil, invalidf("expense %s is in %s but earlier expenses are in %s", expense.ID, code, currency)
			}
		}

		total, err := toMinor(expense.Amount)
		if err != nil {
			return nil, err
		}

		shares, err := resolveShares(expense, total, ids)
		if err != nil {
			return nil, err
		}

		if _, ok := paid[expense.PayerID]; !ok {
			return nil, invalidf("expense %s: payer %s is not a participant", expense.ID, expense.PayerID)
		}
		for _, share := range shares {
			if _, ok := owed[share.ParticipantID]; !ok {
				return nil, invalidf("expense %s: split participant %s is not a participant", expense.ID, share.ParticipantID)
			}
		}

		paid[expense.PayerID] += total
		for _, share := range shares {
			owed[share.ParticipantID] += share.Amount
		}
	}

	balances := make([]models.Balance, len(participants))
	for i, p := range participants {
		balances[i] = models.Balance{
			Participant: p,
			Paid:        paid[p.ID],
			ShouldPay:   owed[p.ID],
			Net:         paid[p.ID] - owed[p.ID],
		}
	}
	return balances, nil
}

// ExpenseShares resolves the per-participant shares of one stored expense,
// the same way AggregateBalances does.
func ExpenseShares(expense models.Expense, participantIDs []string) ([]Share, error) {
	total, err := toMinor(expense.Amount)
	if err != nil {
		return nil, err
	}
	return resolveShares(expense, total, participantIDs)
}

// resolveShares picks the shares an expense contributes to the balances.
func resolveShares(expense models.Expense, total int64, ids []string) ([]Share, error) {
	switch expense.SplitKind {
	case models.SplitCustom:
		if len(expense.CustomShares) > 0 {
			strategy, err := CustomFromMajor(expense.CustomShares)
			if err != nil {
				return nil, err
			}
			return ComputeSplitMinor(total, strategy, ids)
		}
		if len(expense.Splits) == 0 {
			return nil, invalidf("custom expense %s has no shares", expense.ID)
		}
		return storedShares(expense, total)
	case models.SplitPercentage:
		if len(expense.Splits) == 0 {
			return nil, invalidf("percentage expense %s has no stored splits", expense.ID)
		}
		return storedShares(expense, total)
	case models.SplitEqual, "":
		if len(expense.Splits) > 0 {
			return storedShares(expense, total)
		}
		return ComputeSplitMinor(total, Equal{}, ids)
	}
	return nil, invalidf("expense %s has unknown split kind %q", expense.ID, expense.SplitKind)
}

// storedShares converts persisted split rows and checks they add up.
func storedShares(expense models.Expense, total int64) ([]Share, error) {
	shares := make([]Share, len(expense.Splits))
	var sum int64
	for i, split := range expense.Splits {
		amount, err := toMinor(split.Amount)
		if err != nil {
			return nil, err
		}
		shares[i] = Share{ParticipantID: split.ParticipantID, Amount: amount}
		sum += amount
	}
	if sum != total {
		return nil, &SplitMismatchError{Expected: total, Actual: sum, Reason: "stored splits of expense " + expense.ID + " do not sum to its amount"}
	}
	return shares, nil
}

// ApplyPayments returns a copy of balances with recorded payments applied:
// the sender's Paid and the receiver's ShouldPay grow by each amount, so the
// nets still sum to zero.
func ApplyPayments(balances []models.Balance, payments []models.Payment) ([]models.Balance, error) {
	index := make(map[string]int, len(balances))
	for i, b := range balances {
		if _, seen := index[b.Participant.ID]; !seen {
			index[b.Participant.ID] = i
		}
	}

	out := slices.Clone(balances)
	for _, payment := range payments {
		amount, err := toMinor(payment.Amount)
		if err != nil {
			return nil, err
		}
		from, ok := index[payment.FromID]
		if !ok {
			return nil, invalidf("payment %s: sender %s is not a participant", payment.ID, payment.FromID)
		}
		to, ok := index[payment.ToID]
		if !ok {
			return nil, invalidf("payment %s: receiver %s is not a participant", payment.ID, payment.ToID)
		}
		out[from].Paid += amount
		out[to].ShouldPay += amount
	}

	for i := range out {
		out[i].Net = out[i].Paid - out[i].ShouldPay
	}
	return out, nil
}
