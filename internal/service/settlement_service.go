package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"

	"github.com/walican/walican/internal/calculator"
	"github.com/walican/walican/internal/export"
	"github.com/walican/walican/internal/models"
	"github.com/walican/walican/internal/money"
	"github.com/walican/walican/internal/storage"
	"github.com/walican/walican/pkg/api"
	"github.com/walican/walican/pkg/api/apiconnect"
)

// SettlementObserver is told how many transfers each settlement plan has.
type SettlementObserver interface {
	ObserveSettlement(transfers int)
}

// SettlementService implements the Connect SettlementService. Balances and
// settlements are recomputed from the full history on every request.
type SettlementService struct {
	apiconnect.UnimplementedSettlementServiceHandler
	store    storage.Store
	logger   *slog.Logger
	observer SettlementObserver
	now      func() time.Time
}

// NewSettlementService creates a new SettlementService. observer may be nil.
func NewSettlementService(store storage.Store, logger *slog.Logger, observer SettlementObserver) *SettlementService {
	return &SettlementService{store: store, logger: logger, observer: observer, now: time.Now}
}

// eventLedger is everything recorded for one event.
type eventLedger struct {
	event        *models.Event
	participants []models.Participant
	expenses     []models.Expense
	payments     []models.Payment
}

func (s *SettlementService) loadLedger(ctx context.Context, eventID string) (*eventLedger, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	participants, err := s.store.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, eventID)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.ListPayments(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &eventLedger{event: event, participants: participants, expenses: expenses, payments: payments}, nil
}

func (l *eventLedger) balances() ([]models.Balance, error) {
	balances, err := calculator.AggregateBalances(l.participants, l.expenses)
	if err != nil {
		return nil, err
	}
	return calculator.ApplyPayments(balances, l.payments)
}

func (l *eventLedger) has(participantID string) bool {
	for _, p := range l.participants {
		if p.ID == participantID {
			return true
		}
	}
	return false
}

// GetBalances returns every participant's paid, owed and net amounts,
// recorded payments included.
func (s *SettlementService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	s.logger.Info("GetBalances request received", "event_id", req.Msg.EventID)

	ledger, err := s.loadLedger(ctx, req.Msg.EventID)
	if err != nil {
		s.logger.Error("GetBalances: failed to load event", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	balances, err := ledger.balances()
	if err != nil {
		s.logger.Error("GetBalances failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.Balance, len(balances))
	for i, b := range balances {
		out[i] = toAPIBalance(b, ledger.event.Currency)
	}
	return connect.NewResponse(&api.GetBalancesResponse{
		Currency: ledger.event.Currency,
		Balances: out,
	}), nil
}

// GetSettlements returns the transfers that settle all outstanding balances.
func (s *SettlementService) GetSettlements(ctx context.Context, req *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error) {
	s.logger.Info("GetSettlements request received", "event_id", req.Msg.EventID)

	ledger, err := s.loadLedger(ctx, req.Msg.EventID)
	if err != nil {
		s.logger.Error("GetSettlements: failed to load event", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	balances, err := ledger.balances()
	if err != nil {
		s.logger.Error("GetSettlements failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	settlements := calculator.ComputeSettlements(balances)
	if s.observer != nil {
		s.observer.ObserveSettlement(len(settlements))
	}

	out := make([]api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = toAPISettlement(st, ledger.event.Currency)
	}

	s.logger.Info("GetSettlements successful", "event_id", req.Msg.EventID, "transfers", len(out))

	return connect.NewResponse(&api.GetSettlementsResponse{
		Currency:    ledger.event.Currency,
		Settlements: out,
	}), nil
}

// RecordPayment stores money actually handed from one participant to another.
func (s *SettlementService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	s.logger.Info("RecordPayment request received",
		"event_id", req.Msg.EventID,
		"from_id", req.Msg.FromID,
		"to_id", req.Msg.ToID,
		"amount", req.Msg.Amount,
	)

	if !req.Msg.Amount.IsPositive() {
		return nil, invalidArgument("amount must be positive, got %s", req.Msg.Amount)
	}
	minor, err := money.FromDecimal(req.Msg.Amount)
	if err != nil {
		return nil, invalidArgument("amount %s: %v", req.Msg.Amount, err)
	}
	if minor == 0 {
		return nil, invalidArgument("amount %s is below the smallest unit", req.Msg.Amount)
	}
	if req.Msg.FromID == req.Msg.ToID {
		return nil, invalidArgument("sender and receiver must differ")
	}

	event, err := s.store.GetEvent(ctx, req.Msg.EventID)
	if err != nil {
		return nil, toConnectError(err)
	}
	participants, err := s.store.ListParticipants(ctx, event.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	ledger := &eventLedger{event: event, participants: participants}
	for _, id := range []string{req.Msg.FromID, req.Msg.ToID} {
		if !ledger.has(id) {
			return nil, invalidArgument("participant %s is not in this event", id)
		}
	}

	payment := &models.Payment{
		EventID: event.ID,
		FromID:  req.Msg.FromID,
		ToID:    req.Msg.ToID,
		Amount:  money.ToDecimal(minor),
		Note:    strings.TrimSpace(req.Msg.Note),
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		s.logger.Error("RecordPayment failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Payment recorded", "payment_id", payment.ID, "event_id", event.ID)

	return connect.NewResponse(&api.RecordPaymentResponse{Payment: toAPIPayment(payment)}), nil
}

// ListPayments returns an event's recorded payments, oldest first.
func (s *SettlementService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	s.logger.Info("ListPayments request received", "event_id", req.Msg.EventID)

	if _, err := s.store.GetEvent(ctx, req.Msg.EventID); err != nil {
		return nil, toConnectError(err)
	}
	payments, err := s.store.ListPayments(ctx, req.Msg.EventID)
	if err != nil {
		s.logger.Error("ListPayments failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.Payment, len(payments))
	for i := range payments {
		out[i] = toAPIPayment(&payments[i])
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}

// exportedReport is a rendered report ready to return or download.
type exportedReport struct {
	format   export.Format
	filename string
	body     []byte
}

func (s *SettlementService) renderReport(ctx context.Context, eventID, format string) (*exportedReport, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	ledger, err := s.loadLedger(ctx, eventID)
	if err != nil {
		return nil, toConnectError(err)
	}

	report, err := export.Build(*ledger.event, ledger.participants, ledger.expenses, ledger.payments, s.now())
	if err != nil {
		return nil, toConnectError(err)
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, f, report); err != nil {
		return nil, toConnectError(fmt.Errorf("failed to render report: %w", err))
	}

	return &exportedReport{
		format:   f,
		filename: fmt.Sprintf("walican-%s.%s", ledger.event.ID, f.Extension()),
		body:     buf.Bytes(),
	}, nil
}

// ExportEvent renders the event report in the requested format.
func (s *SettlementService) ExportEvent(ctx context.Context, req *connect.Request[api.ExportEventRequest]) (*connect.Response[api.ExportEventResponse], error) {
	s.logger.Info("ExportEvent request received", "event_id", req.Msg.EventID, "format", req.Msg.Format)

	rep, err := s.renderReport(ctx, req.Msg.EventID, req.Msg.Format)
	if err != nil {
		s.logger.Error("ExportEvent failed", "event_id", req.Msg.EventID, "error", err)
		return nil, err
	}

	return connect.NewResponse(&api.ExportEventResponse{
		Format:      string(rep.format),
		ContentType: rep.format.ContentType(),
		Filename:    rep.filename,
		Body:        string(rep.body),
	}), nil
}

// ExportHandler serves GET /events/{eventID}/export?format=text|json|csv as
// a file download.
func (s *SettlementService) ExportHandler(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	rep, err := s.renderReport(r.Context(), eventID, r.URL.Query().Get("format"))
	if err != nil {
		status := http.StatusInternalServerError
		var connectErr *connect.Error
		if errors.As(err, &connectErr) {
			switch connectErr.Code() {
			case connect.CodeInvalidArgument:
				status = http.StatusBadRequest
			case connect.CodeNotFound:
				status = http.StatusNotFound
			}
		}
		s.logger.Warn("Export download failed", "event_id", eventID, "status", status, "error", err)
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", rep.format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, rep.filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(rep.body); err != nil {
		s.logger.Warn("Export download interrupted", "event_id", eventID, "error", err)
	}
}
