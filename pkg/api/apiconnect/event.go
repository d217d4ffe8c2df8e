package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/walican/walican/pkg/api"
)

// EventServiceName is the fully-qualified name of the EventService service.
const EventServiceName = "walican.v1.EventService"

const (
	EventServiceCreateEventProcedure       = "/walican.v1.EventService/CreateEvent"
	EventServiceGetEventProcedure          = "/walican.v1.EventService/GetEvent"
	EventServiceAddParticipantProcedure    = "/walican.v1.EventService/AddParticipant"
	EventServiceRenameParticipantProcedure = "/walican.v1.EventService/RenameParticipant"
)

// EventServiceClient is a client for the walican.v1.EventService service.
type EventServiceClient interface {
	CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error)
	GetEvent(context.Context, *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	RenameParticipant(context.Context, *connect.Request[api.RenameParticipantRequest]) (*connect.Response[api.RenameParticipantResponse], error)
}

// NewEventServiceClient constructs a client for the walican.v1.EventService
// service. baseURL is the server root, e.g. http://localhost:8080.
func NewEventServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) EventServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &eventServiceClient{
		createEvent:       connect.NewClient[api.CreateEventRequest, api.CreateEventResponse](httpClient, baseURL+EventServiceCreateEventProcedure, opts...),
		getEvent:          connect.NewClient[api.GetEventRequest, api.GetEventResponse](httpClient, baseURL+EventServiceGetEventProcedure, opts...),
		addParticipant:    connect.NewClient[api.AddParticipantRequest, api.AddParticipantResponse](httpClient, baseURL+EventServiceAddParticipantProcedure, opts...),
		renameParticipant: connect.NewClient[api.RenameParticipantRequest, api.RenameParticipantResponse](httpClient, baseURL+EventServiceRenameParticipantProcedure, opts...),
	}
}

type eventServiceClient struct {
	createEvent       *connect.Client[api.CreateEventRequest, api.CreateEventResponse]
	getEvent          *connect.Client[api.GetEventRequest, api.GetEventResponse]
	addParticipant    *connect.Client[api.AddParticipantRequest, api.AddParticipantResponse]
	renameParticipant *connect.Client[api.RenameParticipantRequest, api.RenameParticipantResponse]
}

func (c *eventServiceClient) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	return c.createEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) GetEvent(ctx context.Context, req *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	return c.getEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *eventServiceClient) RenameParticipant(ctx context.Context, req *connect.Request[api.RenameParticipantRequest]) (*connect.Response[api.RenameParticipantResponse], error) {
	return c.renameParticipant.CallUnary(ctx, req)
}

// EventServiceHandler is implemented by the walican.v1.EventService server.
type EventServiceHandler interface {
	CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error)
	GetEvent(context.Context, *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	RenameParticipant(context.Context, *connect.Request[api.RenameParticipantRequest]) (*connect.Response[api.RenameParticipantResponse], error)
}

// NewEventServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewEventServiceHandler(svc EventServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createEvent := connect.NewUnaryHandler(EventServiceCreateEventProcedure, svc.CreateEvent, opts...)
	getEvent := connect.NewUnaryHandler(EventServiceGetEventProcedure, svc.GetEvent, opts...)
	addParticipant := connect.NewUnaryHandler(EventServiceAddParticipantProcedure, svc.AddParticipant, opts...)
	renameParticipant := connect.NewUnaryHandler(EventServiceRenameParticipantProcedure, svc.RenameParticipant, opts...)
	return "/" + EventServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case EventServiceCreateEventProcedure:
			createEvent.ServeHTTP(w, r)
		case EventServiceGetEventProcedure:
			getEvent.ServeHTTP(w, r)
		case EventServiceAddParticipantProcedure:
			addParticipant.ServeHTTP(w, r)
		case EventServiceRenameParticipantProcedure:
			renameParticipant.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedEventServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedEventServiceHandler struct{}

func (UnimplementedEventServiceHandler) CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("walican.v1.EventService.CreateEvent is not implemented"))
}

func (UnimplementedEventServiceHandler) GetEvent(context.Context, *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("walican.v1.EventService.GetEvent is not implemented"))
}

func (UnimplementedEventServiceHandler) AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("walican.v1.EventService.AddParticipant is not implemented"))
}

func (UnimplementedEventServiceHandler) RenameParticipant(context.Context, *connect.Request[api.RenameParticipantRequest]) (*connect.Response[api.RenameParticipantResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("walican.v1.EventService.RenameParticipant is not implemented"))
}
