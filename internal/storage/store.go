// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/walican/walican/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations the services need.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Lists preserve insertion order: equal-split remainders are handed out in
// participant order, so the order is part of the data.
type Store interface {
	// CreateEvent persists a new event. ID and CreatedAt are filled in when empty.
	CreateEvent(ctx context.Context, event *models.Event) error

	// GetEvent retrieves an event by ID.
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// AddParticipant persists a new participant of an existing event.
	AddParticipant(ctx context.Context, participant *models.Participant) error

	// GetParticipant retrieves a participant by ID.
	GetParticipant(ctx context.Context, participantID string) (*models.Participant, error)

	// RenameParticipant changes a participant's display name. The ID is kept.
	RenameParticipant(ctx context.Context, participantID, name string) error

	// ListParticipants returns an event's participants in the order they joined.
	ListParticipants(ctx context.Context, eventID string) ([]models.Participant, error)

	// CreateExpense persists an expense together with its split rows.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense and its split rows.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses returns an event's expenses with split rows, oldest first.
	ListExpenses(ctx context.Context, eventID string) ([]models.Expense, error)

	// DeleteExpense removes an expense and its split rows.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreatePayment records money handed between two participants.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// ListPayments returns an event's recorded payments, oldest first.
	ListPayments(ctx context.Context, eventID string) ([]models.Payment, error)

	// Close releases any resources held by the store.
	Close() error
}
