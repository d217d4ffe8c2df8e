package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/walican/walican/internal/models"
	"github.com/walican/walican/internal/storage"
)

// AddParticipant persists a new participant. The event must exist.
func (s *SQLiteStore) AddParticipant(ctx context.Context, participant *models.Participant) error {
	if _, err := s.GetEvent(ctx, participant.EventID); err != nil {
		return err
	}
	if participant.ID == "" {
		participant.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO participants (id, event_id, name) VALUES (?, ?, ?)",
		participant.ID, participant.EventID, participant.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

// GetParticipant retrieves a participant by ID.
func (s *SQLiteStore) GetParticipant(ctx context.Context, participantID string) (*models.Participant, error) {
	p := &models.Participant{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, event_id, name FROM participants WHERE id = ?",
		participantID,
	).Scan(&p.ID, &p.EventID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("participant %s: %w", participantID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// RenameParticipant updates a participant's name.
func (s *SQLiteStore) RenameParticipant(ctx context.Context, participantID, name string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE participants SET name = ? WHERE id = ?",
		name, participantID,
	)
	if err != nil {
		return fmt.Errorf("failed to rename participant: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rename result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("participant %s: %w", participantID, storage.ErrNotFound)
	}
	return nil
}

// ListParticipants returns an event's participants in join order.
func (s *SQLiteStore) ListParticipants(ctx context.Context, eventID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, event_id, name FROM participants WHERE event_id = ? ORDER BY rowid",
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.EventID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}
