// Package api defines the request and response messages of the walican.v1
// RPC services. Messages travel as JSON; money amounts are decimal strings in
// major units (e.g. "12.50").
package api

import "github.com/shopspring/decimal"

type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Event struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Currency     string        `json:"currency"`
	CreatedAt    int64         `json:"createdAt"`
	Participants []Participant `json:"participants"`
}

// Share is one participant's part of an expense.
type Share struct {
	ParticipantID string          `json:"participantId"`
	Amount        decimal.Decimal `json:"amount"`
	Display       string          `json:"display"`
}

type Expense struct {
	ID          string          `json:"id"`
	EventID     string          `json:"eventId"`
	PayerID     string          `json:"payerId"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	SplitKind   string          `json:"splitKind"`
	Shares      []Share         `json:"shares"`
	CreatedAt   int64           `json:"createdAt"`
}

type Balance struct {
	Participant Participant     `json:"participant"`
	Paid        decimal.Decimal `json:"paid"`
	ShouldPay   decimal.Decimal `json:"shouldPay"`
	Net         decimal.Decimal `json:"net"`
	Display     string          `json:"display"`
}

type Settlement struct {
	From    Participant     `json:"from"`
	To      Participant     `json:"to"`
	Amount  decimal.Decimal `json:"amount"`
	Display string          `json:"display"`
}

type Payment struct {
	ID        string          `json:"id"`
	EventID   string          `json:"eventId"`
	FromID    string          `json:"fromId"`
	ToID      string          `json:"toId"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	CreatedAt int64           `json:"createdAt"`
}

// EventService

type CreateEventRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency,omitempty"`
	// Participants are display names, added in order.
	Participants []string `json:"participants,omitempty"`
}

type CreateEventResponse struct {
	Event Event `json:"event"`
}

type GetEventRequest struct {
	EventID string `json:"eventId"`
}

type GetEventResponse struct {
	Event Event `json:"event"`
}

type AddParticipantRequest struct {
	EventID string `json:"eventId"`
	Name    string `json:"name"`
}

type AddParticipantResponse struct {
	Participant Participant `json:"participant"`
}

type RenameParticipantRequest struct {
	ParticipantID string `json:"participantId"`
	Name          string `json:"name"`
}

type RenameParticipantResponse struct {
	Participant Participant `json:"participant"`
}

// ExpenseService

// SplitSpec describes how an amount is divided.
//
// SplitKind is "equal" (default), "custom" or "percentage". ParticipantIDs
// restricts an equal or percentage split to a subset; empty means everyone.
// Shares (major units) are required for custom splits and Percents (0-100)
// for percentage splits.
type SplitSpec struct {
	SplitKind      string                     `json:"splitKind,omitempty"`
	ParticipantIDs []string                   `json:"participantIds,omitempty"`
	Shares         map[string]decimal.Decimal `json:"shares,omitempty"`
	Percents       map[string]decimal.Decimal `json:"percents,omitempty"`
}

type PreviewSplitRequest struct {
	EventID string          `json:"eventId"`
	Amount  decimal.Decimal `json:"amount"`
	Split   SplitSpec       `json:"split"`
}

type PreviewSplitResponse struct {
	Shares []Share `json:"shares"`
}

type CreateExpenseRequest struct {
	EventID     string          `json:"eventId"`
	PayerID     string          `json:"payerId"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
	Split       SplitSpec       `json:"split"`
}

type CreateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type ListExpensesRequest struct {
	EventID string `json:"eventId"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

// DeleteExpenseRequest removes one expense. When EventID is set the expense
// must belong to that event.
type DeleteExpenseRequest struct {
	EventID   string `json:"eventId,omitempty"`
	ExpenseID string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}

// SettlementService

type GetBalancesRequest struct {
	EventID string `json:"eventId"`
}

type GetBalancesResponse struct {
	Currency string    `json:"currency"`
	Balances []Balance `json:"balances"`
}

type GetSettlementsRequest struct {
	EventID string `json:"eventId"`
}

type GetSettlementsResponse struct {
	Currency    string       `json:"currency"`
	Settlements []Settlement `json:"settlements"`
}

type RecordPaymentRequest struct {
	EventID string          `json:"eventId"`
	FromID  string          `json:"fromId"`
	ToID    string          `json:"toId"`
	Amount  decimal.Decimal `json:"amount"`
	Note    string          `json:"note,omitempty"`
}

type RecordPaymentResponse struct {
	Payment Payment `json:"payment"`
}

type ListPaymentsRequest struct {
	EventID string `json:"eventId"`
}

type ListPaymentsResponse struct {
	Payments []Payment `json:"payments"`
}

type ExportEventRequest struct {
	EventID string `json:"eventId"`
	// Format is text (default), json or csv.
	Format string `json:"format,omitempty"`
}

type ExportEventResponse struct {
	Format      string `json:"format"`
	ContentType string `json:"contentType"`
	Filename    string `json:"filename"`
	Body        string `json:"body"`
}
