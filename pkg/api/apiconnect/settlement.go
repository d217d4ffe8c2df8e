package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/walican/walican/pkg/api"
)

// SettlementServiceName is the fully-qualified name of the SettlementService service.
const SettlementServiceName = "walican.v1.SettlementService"

const (
	SettlementServiceGetBalancesProcedure    = "/walican.v1.SettlementService/GetBalances"
	SettlementServiceGetSettlementsProcedure = "/walican.v1.SettlementService/GetSettlements"
	SettlementServiceRecordPaymentProcedure  = "/walican.v1.SettlementService/RecordPayment"
	SettlementServiceListPaymentsProcedure   = "/walican.v1.SettlementService/ListPayments"
	SettlementServiceExportEventProcedure    = "/walican.v1.SettlementService/ExportEvent"
)

// SettlementServiceClient is a client for the walican.v1.SettlementService service.
type SettlementServiceClient interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlements(context.Context, *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	ExportEvent(context.Context, *connect.Request[api.ExportEventRequest]) (*connect.Response[api.ExportEventResponse], error)
}

// NewSettlementServiceClient constructs a client for the walican.v1.SettlementService service.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &settlementServiceClient{
		getBalances:    connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+SettlementServiceGetBalancesProcedure, opts...),
		getSettlements: connect.NewClient[api.GetSettlementsRequest, api.GetSettlementsResponse](httpClient, baseURL+SettlementServiceGetSettlementsProcedure, opts...),
		recordPayment:  connect.NewClient[api.RecordPaymentRequest, api.RecordPaymentResponse](httpClient, baseURL+SettlementServiceRecordPaymentProcedure, opts...),
		listPayments:   connect.NewClient[api.ListPaymentsRequest, api.ListPaymentsResponse](httpClient, baseURL+SettlementServiceListPaymentsProcedure, opts...),
		exportEvent:    connect.NewClient[api.ExportEventRequest, api.ExportEventResponse](httpClient, baseURL+SettlementServiceExportEventProcedure, opts...),
	}
}

type settlementServiceClient struct {
	getBalances    *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	getSettlements *connect.Client[api.GetSettlementsRequest, api.GetSettlementsResponse]
	recordPayment  *connect.Client[api.RecordPaymentRequest, api.RecordPaymentResponse]
	listPayments   *connect.Client[api.ListPaymentsRequest, api.ListPaymentsResponse]
	exportEvent    *connect.Client[api.ExportEventRequest, api.ExportEventResponse]
}

func (c *settlementServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetSettlements(ctx context.Context, req *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error) {
	return c.getSettlements.CallUnary(ctx, req)
}

func (c *settlementServiceClient) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ExportEvent(ctx context.Context, req *connect.Request[api.ExportEventRequest]) (*connect.Response[api.ExportEventResponse], error) {
	return c.exportEvent.CallUnary(ctx, req)
}

// SettlementServiceHandler is implemented by the walican.v1.SettlementService server.
type SettlementServiceHandler interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlements(context.Context, *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	ExportEvent(context.Context, *connect.Request[api.ExportEventRequest]) (*connect.Response[api.ExportEventResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getBalances := connect.NewUnaryHandler(SettlementServiceGetBalancesProcedure, svc.GetBalances, opts...)
	getSettlements := connect.NewUnaryHandler(SettlementServiceGetSettlementsProcedure, svc.GetSettlements, opts...)
	recordPayment := connect.NewUnaryHandler(SettlementServiceRecordPaymentProcedure, svc.RecordPayment, opts...)
	listPayments := connect.NewUnaryHandler(SettlementServiceListPaymentsProcedure, svc.ListPayments, opts...)
	exportEvent := connect.NewUnaryHandler(SettlementServiceExportEventProcedure, svc.ExportEvent, opts...)
	return "/" + SettlementServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SettlementServiceGetBalancesProcedure:
			getBalances.ServeHTTP(w, r)
		case SettlementServiceGetSettlementsProcedure:
			getSettlements.ServeHTTP(w, r)
		case SettlementServiceRecordPaymentProcedure:
			recordPayment.ServeHTTP(w, r)
		case SettlementServiceListPaymentsProcedure:
			listPayments.ServeHTTP(w, r)
		case SettlementServiceExportEventProcedure:
			exportEvent.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedSettlementServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSettlementServiceHandler struct{}

func (UnimplementedSettlementServiceHandler) GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("walican.v1.SettlementService.GetBalances is not implemented"))
}

func (UnimplementedSettlementServiceHandler) GetSettlements(context.Context, *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("walican.v1.SettlementService.GetSettlements is not implemented"))
}

func (UnimplementedSettlementServiceHandler) RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("walican.v1.SettlementService.RecordPayment is not implemented"))
}

func (UnimplementedSettlementServiceHandler) ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("walican.v1.SettlementService.ListPayments is not implemented"))
}

func (UnimplementedSettlementServiceHandler) ExportEvent(context.Context, *connect.Request[api.ExportEventRequest]) (*connect.Response[api.ExportEventResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("walican.v1.SettlementService.ExportEvent is not implemented"))
}
