// Package export renders an event's expenses and settlement plan as a
// shareable report in text, JSON or CSV.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/walican/walican/internal/calculator"
	"github.com/walican/walican/internal/models"
	"github.com/walican/walican/internal/money"
)

// Format selects the report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts text, json or csv (case-insensitive). Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown export format %q: must be one of text, json, csv", s)
}

// ContentType returns the MIME type for downloads.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Extension returns the file extension for downloads, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	}
	return "txt"
}

// Report is a snapshot of one event. Amounts are minor units.
type Report struct {
	Event        models.Event
	Participants []models.Participant
	Expenses     []models.Expense
	Balances     []models.Balance
	Settlements  []models.Settlement
	Summary      Summary
	GeneratedAt  time.Time
}

type Summary struct {
	Total            int64
	ParticipantCount int
	// PerPerson is Total / ParticipantCount, rounded half up.
	PerPerson int64
}

// Build aggregates balances (with recorded payments applied) and the
// settlement plan for an event.
func Build(event models.Event, participants []models.Participant, expenses []models.Expense, payments []models.Payment, now time.Time) (*Report, error) {
	balances, err := calculator.AggregateBalances(participants, expenses)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate balances: %w", err)
	}
	balances, err = calculator.ApplyPayments(balances, payments)
	if err != nil {
		return nil, fmt.Errorf("failed to apply payments: %w", err)
	}

	var total int64
	for _, e := range expenses {
		amount, err := money.FromDecimal(e.Amount)
		if err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		total += amount
	}

	summary := Summary{Total: total, ParticipantCount: len(participants)}
	if n := int64(len(participants)); n > 0 && total >= 0 {
		summary.PerPerson = (2*total + n) / (2 * n)
	}

	return &Report{
		Event:        event,
		Participants: participants,
		Expenses:     expenses,
		Balances:     balances,
		Settlements:  calculator.ComputeSettlements(balances),
		Summary:      summary,
		GeneratedAt:  now.UTC(),
	}, nil
}

// Write renders r to w in the given format.
func Write(w io.Writer, f Format, r *Report) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatCSV:
		return WriteCSV(w, r)
	case FormatText, "":
		return WriteText(w, r)
	}
	return fmt.Errorf("unknown export format %q", f)
}

func (r *Report) currency() string {
	return money.Normalize(r.Event.Currency)
}

func (r *Report) format(minor int64) string {
	return money.Format(minor, r.currency())
}

// names maps participant IDs to display names.
func (r *Report) names() map[string]string {
	names := make(map[string]string, len(r.Participants))
	for _, p := range r.Participants {
		names[p.ID] = p.Name
	}
	return names
}

func timestamp(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}
