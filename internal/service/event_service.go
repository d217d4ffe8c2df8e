package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/walican/walican/internal/models"
	"github.com/walican/walican/internal/money"
	"github.com/walican/walican/internal/storage"
	"github.com/walican/walican/pkg/api"
	"github.com/walican/walican/pkg/api/apiconnect"
)

// EventService implements the Connect EventService
type EventService struct {
	apiconnect.UnimplementedEventServiceHandler
	store           storage.Store
	logger          *slog.Logger
	defaultCurrency string
}

// NewEventService creates a new EventService. Events created without a
// currency use defaultCurrency.
func NewEventService(store storage.Store, logger *slog.Logger, defaultCurrency string) *EventService {
	return &EventService{
		store:           store,
		logger:          logger,
		defaultCurrency: money.Normalize(defaultCurrency),
	}
}

// CreateEvent creates a new event together with its initial participants.
func (s *EventService) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	s.logger.Info("CreateEvent request received",
		"name", req.Msg.Name,
		"participants_count", len(req.Msg.Participants),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("event name is required")
	}

	currency := s.defaultCurrency
	if req.Msg.Currency != "" {
		currency = money.Normalize(req.Msg.Currency)
	}
	if _, ok := money.Lookup(currency); !ok {
		return nil, invalidArgument("unsupported currency %q: must be one of %v", currency, money.Codes())
	}

	names := make([]string, len(req.Msg.Participants))
	for i, n := range req.Msg.Participants {
		names[i] = strings.TrimSpace(n)
		if names[i] == "" {
			return nil, invalidArgument("participant %d has an empty name", i+1)
		}
	}

	// Save to storage (generates ID and CreatedAt)
	event := &models.Event{Name: name, Currency: currency}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		s.logger.Error("CreateEvent failed", "error", err)
		return nil, toConnectError(err)
	}

	participants := make([]models.Participant, 0, len(names))
	for _, n := range names {
		p := &models.Participant{EventID: event.ID, Name: n}
		if err := s.store.AddParticipant(ctx, p); err != nil {
			s.logger.Error("CreateEvent: failed to add participant", "event_id", event.ID, "error", err)
			return nil, toConnectError(err)
		}
		participants = append(participants, *p)
	}

	s.logger.Info("Event created", "event_id", event.ID, "currency", currency)

	return connect.NewResponse(&api.CreateEventResponse{
		Event: toAPIEvent(event, participants),
	}), nil
}

// GetEvent retrieves an event and its participants.
func (s *EventService) GetEvent(ctx context.Context, req *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	s.logger.Info("GetEvent request received", "event_id", req.Msg.EventID)

	event, err := s.store.GetEvent(ctx, req.Msg.EventID)
	if err != nil {
		s.logger.Error("GetEvent failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	participants, err := s.store.ListParticipants(ctx, event.ID)
	if err != nil {
		s.logger.Error("GetEvent: failed to list participants", "event_id", event.ID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetEventResponse{
		Event: toAPIEvent(event, participants),
	}), nil
}

// AddParticipant adds a person to an existing event.
func (s *EventService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	s.logger.Info("AddParticipant request received", "event_id", req.Msg.EventID)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("participant name is required")
	}

	p := &models.Participant{EventID: req.Msg.EventID, Name: name}
	if err := s.store.AddParticipant(ctx, p); err != nil {
		s.logger.Error("AddParticipant failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Participant added", "event_id", p.EventID, "participant_id", p.ID)

	return connect.NewResponse(&api.AddParticipantResponse{
		Participant: toAPIParticipant(*p),
	}), nil
}

// RenameParticipant changes a participant's display name; the ID is kept.
func (s *EventService) RenameParticipant(ctx context.Context, req *connect.Request[api.RenameParticipantRequest]) (*connect.Response[api.RenameParticipantResponse], error) {
	s.logger.Info("RenameParticipant request received", "participant_id", req.Msg.ParticipantID)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("participant name is required")
	}

	if err := s.store.RenameParticipant(ctx, req.Msg.ParticipantID, name); err != nil {
		s.logger.Error("RenameParticipant failed", "participant_id", req.Msg.ParticipantID, "error", err)
		return nil, toConnectError(err)
	}

	p, err := s.store.GetParticipant(ctx, req.Msg.ParticipantID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.RenameParticipantResponse{
		Participant: toAPIParticipant(*p),
	}), nil
}
