package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/walican/walican/internal/money"
)

var csvHeader = []string{"type", "from", "to", "amount", "category", "description", "date"}

// WriteCSV renders one row per expense followed by one row per settlement.
// Amounts use the currency's number of decimals.
func WriteCSV(w io.Writer, r *Report) error {
	names := r.names()
	decimals := int32(2)
	if c, ok := money.Lookup(r.currency()); ok {
		decimals = int32(c.Decimals)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, e := range r.Expenses {
		record := []string{
			"expense",
			names[e.PayerID],
			"",
			e.Amount.StringFixed(decimals),
			e.Category,
			e.Description,
			timestamp(e.CreatedAt),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write expense row: %w", err)
		}
	}

	for _, s := range r.Settlements {
		record := []string{
			"settlement",
			s.From.Name,
			s.To.Name,
			money.ToDecimal(s.Amount).StringFixed(decimals),
			"",
			"",
			"",
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write settlement row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
