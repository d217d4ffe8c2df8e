package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/walican/walican/internal/money"
)

const rule = "========================================"

// WriteText renders a human-readable report.
func WriteText(w io.Writer, r *Report) error {
	var b bytes.Buffer
	names := r.names()

	section := func(title string) {
		fmt.Fprintf(&b, "\n%s\n%s\n%s\n", rule, title, rule)
	}

	fmt.Fprintf(&b, "%s\nWalican settlement report\n%s\n\n", rule, rule)
	fmt.Fprintf(&b, "Event: %s\n", r.Event.Name)
	fmt.Fprintf(&b, "Currency: %s\n", r.currency())

	section("Summary")
	fmt.Fprintf(&b, "Total: %s\n", r.format(r.Summary.Total))
	fmt.Fprintf(&b, "Participants: %d\n", r.Summary.ParticipantCount)
	fmt.Fprintf(&b, "Per person: %s\n", r.format(r.Summary.PerPerson))

	section("Participants")
	for _, p := range r.Participants {
		fmt.Fprintf(&b, "- %s\n", p.Name)
	}

	section("Expenses")
	if len(r.Expenses) == 0 {
		b.WriteString("No expenses recorded\n")
	}
	for i, e := range r.Expenses {
		if i > 0 {
			b.WriteString("---\n")
		}
		amount, _ := money.FromDecimal(e.Amount)
		fmt.Fprintf(&b, "%s\n  %s paid %s\n", timestamp(e.CreatedAt), names[e.PayerID], r.format(amount))
		if e.Category != "" {
			fmt.Fprintf(&b, "  Category: %s\n", e.Category)
		}
		if e.Description != "" {
			fmt.Fprintf(&b, "  Description: %s\n", e.Description)
		}
	}

	section("Balances")
	for _, bal := range r.Balances {
		fmt.Fprintf(&b, "%s: paid %s, share %s, net %s\n",
			bal.Participant.Name, r.format(bal.Paid), r.format(bal.ShouldPay), r.format(bal.Net))
	}

	section("Settlements")
	if len(r.Settlements) == 0 {
		b.WriteString("Nothing to settle\n")
	}
	for _, s := range r.Settlements {
		fmt.Fprintf(&b, "%s -> %s: %s\n", s.From.Name, s.To.Name, r.format(s.Amount))
	}

	fmt.Fprintf(&b, "\n%s\nGenerated at: %s\n", rule, r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	_, err := io.WriteString(w, strings.TrimLeft(b.String(), "\n"))
	return err
}
