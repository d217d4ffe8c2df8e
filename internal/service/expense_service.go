package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/walican/walican/internal/calculator"
	"github.com/walican/walican/internal/models"
	"github.com/walican/walican/internal/money"
	"github.com/walican/walican/internal/storage"
	"github.com/walican/walican/pkg/api"
	"github.com/walican/walican/pkg/api/apiconnect"
)

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	apiconnect.UnimplementedExpenseServiceHandler
	store     storage.Store
	logger    *slog.Logger
	maxAmount decimal.Decimal
}

// NewExpenseService creates a new ExpenseService. Expenses above maxAmount
// (major units) are rejected.
func NewExpenseService(store storage.Store, logger *slog.Logger, maxAmount decimal.Decimal) *ExpenseService {
	return &ExpenseService{store: store, logger: logger, maxAmount: maxAmount}
}

// participantIDs returns the IDs in join order.
func participantIDs(participants []models.Participant) []string {
	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}
	return ids
}

// resolveSplit builds the strategy for spec and the participant slots it
// divides over. An explicit subset must name members of the event.
func resolveSplit(spec api.SplitSpec, members []string) (calculator.Strategy, []string, error) {
	kind, err := models.ParseSplitKind(strings.ToLower(strings.TrimSpace(spec.SplitKind)))
	if err != nil {
		return nil, nil, invalidArgument("%v", err)
	}

	ids := members
	if len(spec.ParticipantIDs) > 0 {
		for _, id := range spec.ParticipantIDs {
			if !slices.Contains(members, id) {
				return nil, nil, invalidArgument("participant %s is not in this event", id)
			}
		}
		ids = spec.ParticipantIDs
	}

	strategy, err := calculator.NewStrategy(kind, spec.Shares, spec.Percents)
	if err != nil {
		return nil, nil, toConnectError(err)
	}
	return strategy, ids, nil
}

// checkAmount enforces the accepted range of an expense amount and converts
// it to minor units.
func (s *ExpenseService) checkAmount(amount decimal.Decimal, allowZero bool) (int64, error) {
	if amount.IsNegative() || (!allowZero && amount.IsZero()) {
		return 0, invalidArgument("amount must be positive, got %s", amount)
	}
	if amount.GreaterThan(s.maxAmount) {
		return 0, invalidArgument("amount %s exceeds the maximum of %s", amount, s.maxAmount)
	}
	total, err := money.FromDecimal(amount)
	if err != nil {
		return 0, invalidArgument("amount %s: %v", amount, err)
	}
	if !allowZero && total == 0 {
		return 0, invalidArgument("amount %s is less than one minor unit", amount)
	}
	return total, nil
}

// PreviewSplit computes how an amount would be divided without saving
// anything. Without an event ID the split runs over the given participant
// IDs as-is.
func (s *ExpenseService) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	s.logger.Debug("PreviewSplit request received",
		"event_id", req.Msg.EventID,
		"amount", req.Msg.Amount,
		"split_kind", req.Msg.Split.SplitKind,
	)

	total, err := s.checkAmount(req.Msg.Amount, true)
	if err != nil {
		return nil, err
	}

	currency := money.DefaultCurrency
	members := req.Msg.Split.ParticipantIDs
	if req.Msg.EventID != "" {
		event, err := s.store.GetEvent(ctx, req.Msg.EventID)
		if err != nil {
			return nil, toConnectError(err)
		}
		participants, err := s.store.ListParticipants(ctx, event.ID)
		if err != nil {
			return nil, toConnectError(err)
		}
		currency = event.Currency
		members = participantIDs(participants)
	}

	strategy, ids, err := resolveSplit(req.Msg.Split, members)
	if err != nil {
		return nil, err
	}

	shares, err := calculator.ComputeSplitMinor(total, strategy, ids)
	if err != nil {
		s.logger.Warn("PreviewSplit rejected", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.Share, len(shares))
	for i, share := range shares {
		out[i] = toAPIShare(share.ParticipantID, share.Amount, currency)
	}
	return connect.NewResponse(&api.PreviewSplitResponse{Shares: out}), nil
}

// CreateExpense validates, splits and persists a new expense.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	s.logger.Info("CreateExpense request received",
		"event_id", req.Msg.EventID,
		"payer_id", req.Msg.PayerID,
		"amount", req.Msg.Amount,
		"split_kind", req.Msg.Split.SplitKind,
	)

	total, err := s.checkAmount(req.Msg.Amount, false)
	if err != nil {
		return nil, err
	}

	event, err := s.store.GetEvent(ctx, req.Msg.EventID)
	if err != nil {
		s.logger.Error("CreateExpense: failed to get event", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}
	participants, err := s.store.ListParticipants(ctx, event.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	members := participantIDs(participants)

	if !slices.Contains(members, req.Msg.PayerID) {
		return nil, invalidArgument("payer %s is not in this event", req.Msg.PayerID)
	}

	currency := event.Currency
	if req.Msg.Currency != "" {
		if code := money.Normalize(req.Msg.Currency); code != event.Currency {
			return nil, invalidArgument("expense currency %s does not match event currency %s", code, event.Currency)
		}
	}

	strategy, ids, err := resolveSplit(req.Msg.Split, members)
	if err != nil {
		return nil, err
	}

	shares, err := calculator.ComputeSplitMinor(total, strategy, ids)
	if err != nil {
		s.logger.Warn("CreateExpense split rejected", "event_id", event.ID, "error", err)
		return nil, toConnectError(err)
	}

	expense := &models.Expense{
		EventID:     event.ID,
		PayerID:     req.Msg.PayerID,
		Description: strings.TrimSpace(req.Msg.Description),
		Category:    strings.TrimSpace(req.Msg.Category),
		Amount:      money.ToDecimal(total),
		Currency:    currency,
		SplitKind:   strategy.Kind(),
	}
	// Equal splits over everyone are recomputed on read, so later joiners share them.
	if strategy.Kind() != models.SplitEqual || len(req.Msg.Split.ParticipantIDs) > 0 {
		expense.Splits = make([]models.ExpenseSplit, len(shares))
		for i, share := range shares {
			expense.Splits[i] = models.ExpenseSplit{
				ParticipantID: share.ParticipantID,
				Amount:        money.ToDecimal(share.Amount),
			}
		}
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.Error("CreateExpense failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense created", "expense_id", expense.ID, "event_id", event.ID)

	out := make([]api.Share, len(shares))
	for i, share := range shares {
		out[i] = toAPIShare(share.ParticipantID, share.Amount, currency)
	}
	return connect.NewResponse(&api.CreateExpenseResponse{
		Expense: toAPIExpense(expense, out),
	}), nil
}

// ListExpenses returns an event's expenses, oldest first, with their shares
// resolved against the current participant list.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	s.logger.Info("ListExpenses request received", "event_id", req.Msg.EventID)

	event, err := s.store.GetEvent(ctx, req.Msg.EventID)
	if err != nil {
		return nil, toConnectError(err)
	}
	participants, err := s.store.ListParticipants(ctx, event.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	expenses, err := s.store.ListExpenses(ctx, event.ID)
	if err != nil {
		s.logger.Error("ListExpenses failed", "event_id", event.ID, "error", err)
		return nil, toConnectError(err)
	}

	ids := participantIDs(participants)
	out := make([]api.Expense, len(expenses))
	for i := range expenses {
		e := &expenses[i]
		shares, err := calculator.ExpenseShares(*e, ids)
		if err != nil {
			s.logger.Error("ListExpenses: inconsistent expense", "expense_id", e.ID, "error", err)
			return nil, toConnectError(err)
		}
		currency := e.Currency
		if currency == "" {
			currency = event.Currency
		}
		apiShares := make([]api.Share, len(shares))
		for j, share := range shares {
			apiShares[j] = toAPIShare(share.ParticipantID, share.Amount, currency)
		}
		out[i] = toAPIExpense(e, apiShares)
	}

	s.logger.Info("ListExpenses successful", "event_id", event.ID, "count", len(out))

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// DeleteExpense removes an expense; balances change on the next query.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	s.logger.Info("DeleteExpense request received", "event_id", req.Msg.EventID, "expense_id", req.Msg.ExpenseID)

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.EventID != "" && expense.EventID != req.Msg.EventID {
		return nil, connect.NewError(connect.CodeNotFound,
			fmt.Errorf("expense %s not found in event %s", expense.ID, req.Msg.EventID))
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		s.logger.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("DeleteExpense successful", "event_id", expense.EventID, "expense_id", expense.ID)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}
