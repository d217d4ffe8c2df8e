package calculator

import (
	"cmp"
	"slices"

	"github.com/walican/walican/internal/models"
)

// minTransfer is the smallest amount worth emitting, in minor units.
const minTransfer = 1

type position struct {
	participant models.Participant
	remaining   int64
}

// ComputeSettlements reduces balances to a list of transfers that zero
// everyone out.
//
// Debtors and creditors are each sorted by magnitude, largest first (stable,
// so equal magnitudes keep input order). The largest debtor then pays the
// largest creditor min(debt, credit), and whichever side is exhausted is
// skipped. Each step retires at least one side, so at most n-1 transfers are
// produced for n non-zero balances. This is a greedy approximation, not a
// minimum-transfer optimizer.
func ComputeSettlements(balances []models.Balance) []models.Settlement {
	var debtors, creditors []position
	for _, b := range balances {
		switch {
		case b.Net < 0:
			debtors = append(debtors, position{participant: b.Participant, remaining: -b.Net})
		case b.Net > 0:
			creditors = append(creditors, position{participant: b.Participant, remaining: b.Net})
		}
	}

	largestFirst := func(a, b position) int { return cmp.Compare(b.remaining, a.remaining) }
	slices.SortStableFunc(debtors, largestFirst)
	slices.SortStableFunc(creditors, largestFirst)

	settlements := make([]models.Settlement, 0, max(len(debtors)+len(creditors)-1, 0))
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := &debtors[i], &creditors[j]

		amount := min(debtor.remaining, creditor.remaining)
		if amount >= minTransfer {
			settlements = append(settlements, models.Settlement{
				From:   debtor.participant,
				To:     creditor.participant,
				Amount: amount,
			})
		}

		debtor.remaining -= amount
		creditor.remaining -= amount

		if debtor.remaining < minTransfer {
			i++
		}
		if creditor.remaining < minTransfer {
			j++
		}
	}

	return settlements
}
