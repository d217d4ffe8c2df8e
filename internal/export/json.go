package export

import (
	"encoding/json"
	"io"

	"github.com/shopspring/decimal"

	"github.com/walican/walican/internal/money"
)

type jsonReport struct {
	Event        jsonEvent        `json:"event"`
	Summary      jsonSummary      `json:"summary"`
	Participants []string         `json:"participants"`
	Expenses     []jsonExpense    `json:"expenses"`
	Balances     []jsonBalance    `json:"balances"`
	Settlements  []jsonSettlement `json:"settlements"`
	GeneratedAt  string           `json:"generatedAt"`
}

type jsonEvent struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

type jsonSummary struct {
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	ParticipantCount int             `json:"participantCount"`
	PerPerson        decimal.Decimal `json:"perPerson"`
}

type jsonExpense struct {
	PaidBy      string          `json:"paidBy"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	Date        string          `json:"date"`
}

type jsonBalance struct {
	Name      string          `json:"name"`
	Paid      decimal.Decimal `json:"paid"`
	ShouldPay decimal.Decimal `json:"shouldPay"`
	Net       decimal.Decimal `json:"net"`
}

type jsonSettlement struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// WriteJSON renders the report as indented JSON. Amounts are major units.
func WriteJSON(w io.Writer, r *Report) error {
	names := r.names()

	out := jsonReport{
		Event: jsonEvent{ID: r.Event.ID, Name: r.Event.Name, Currency: r.currency()},
		Summary: jsonSummary{
			TotalExpenses:    money.ToDecimal(r.Summary.Total),
			ParticipantCount: r.Summary.ParticipantCount,
			PerPerson:        money.ToDecimal(r.Summary.PerPerson),
		},
		Participants: make([]string, 0, len(r.Participants)),
		Expenses:     make([]jsonExpense, 0, len(r.Expenses)),
		Balances:     make([]jsonBalance, 0, len(r.Balances)),
		Settlements:  make([]jsonSettlement, 0, len(r.Settlements)),
		GeneratedAt:  r.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, p := range r.Participants {
		out.Participants = append(out.Participants, p.Name)
	}
	for _, e := range r.Expenses {
		out.Expenses = append(out.Expenses, jsonExpense{
			PaidBy:      names[e.PayerID],
			Amount:      e.Amount,
			Category:    e.Category,
			Description: e.Description,
			Date:        timestamp(e.CreatedAt),
		})
	}
	for _, b := range r.Balances {
		out.Balances = append(out.Balances, jsonBalance{
			Name:      b.Participant.Name,
			Paid:      money.ToDecimal(b.Paid),
			ShouldPay: money.ToDecimal(b.ShouldPay),
			Net:       money.ToDecimal(b.Net),
		})
	}
	for _, s := range r.Settlements {
		out.Settlements = append(out.Settlements, jsonSettlement{
			From:   s.From.Name,
			To:     s.To.Name,
			Amount: money.ToDecimal(s.Amount),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
