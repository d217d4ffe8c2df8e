package service

import (
	"github.com/walican/walican/internal/models"
	"github.com/walican/walican/internal/money"
	"github.com/walican/walican/pkg/api"
)

func toAPIParticipant(p models.Participant) api.Participant {
	return api.Participant{ID: p.ID, Name: p.Name}
}

func toAPIParticipants(participants []models.Participant) []api.Participant {
	out := make([]api.Participant, len(participants))
	for i, p := range participants {
		out[i] = toAPIParticipant(p)
	}
	return out
}

func toAPIEvent(e *models.Event, participants []models.Participant) api.Event {
	return api.Event{
		ID:           e.ID,
		Name:         e.Name,
		Currency:     e.Currency,
		CreatedAt:    e.CreatedAt,
		Participants: toAPIParticipants(participants),
	}
}

func toAPIShare(participantID string, minor int64, currency string) api.Share {
	return api.Share{
		ParticipantID: participantID,
		Amount:        money.ToDecimal(minor),
		Display:       money.Format(minor, currency),
	}
}

// toAPIExpense converts an expense; shares are the resolved per-participant
// amounts in minor units.
func toAPIExpense(e *models.Expense, shares []api.Share) api.Expense {
	return api.Expense{
		ID:          e.ID,
		EventID:     e.EventID,
		PayerID:     e.PayerID,
		Description: e.Description,
		Category:    e.Category,
		Amount:      e.Amount,
		Currency:    e.Currency,
		SplitKind:   string(e.SplitKind),
		Shares:      shares,
		CreatedAt:   e.CreatedAt,
	}
}

func toAPIBalance(b models.Balance, currency string) api.Balance {
	return api.Balance{
		Participant: toAPIParticipant(b.Participant),
		Paid:        money.ToDecimal(b.Paid),
		ShouldPay:   money.ToDecimal(b.ShouldPay),
		Net:         money.ToDecimal(b.Net),
		Display:     money.Format(b.Net, currency),
	}
}

func toAPISettlement(s models.Settlement, currency string) api.Settlement {
	return api.Settlement{
		From:    toAPIParticipant(s.From),
		To:      toAPIParticipant(s.To),
		Amount:  money.ToDecimal(s.Amount),
		Display: money.Format(s.Amount, currency),
	}
}

func toAPIPayment(p *models.Payment) api.Payment {
	return api.Payment{
		ID:        p.ID,
		EventID:   p.EventID,
		FromID:    p.FromID,
		ToID:      p.ToID,
		Amount:    p.Amount,
		Note:      p.Note,
		CreatedAt: p.CreatedAt,
	}
}
