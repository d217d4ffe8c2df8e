package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/walican/walican/pkg/api"
)

// seedDinner records Alice paying 30.00 shared by all three.
func seedDinner(t *testing.T, c *testClients) api.Event {
	t.Helper()

	event := createTrio(t, c, "USD")
	_, err := c.expenses.CreateExpense(context.Background(), connect.NewRequest(&api.CreateExpenseRequest{
		EventID:  event.ID,
		PayerID:  event.Participants[0].ID,
		Amount:   dec("30.00"),
		Category: "food",
	}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	return event
}

func TestGetBalances(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	event := seedDinner(t, c)

	resp, err := c.settlements.GetBalances(context.Background(), connect.NewRequest(&api.GetBalancesRequest{EventID: event.ID}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if resp.Msg.Currency != "USD" {
		t.Errorf("currency = %s, want USD", resp.Msg.Currency)
	}

	want := []struct {
		name    string
		paid    string
		net     string
		display string
	}{
		{"Alice", "30.00", "20.00", "$20.00"},
		{"Bob", "0.00", "-10.00", "-$10.00"},
		{"Charlie", "0.00", "-10.00", "-$10.00"},
	}
	if len(resp.Msg.Balances) != len(want) {
		t.Fatalf("expected %d balances, got %d", len(want), len(resp.Msg.Balances))
	}
	for i, w := range want {
		b := resp.Msg.Balances[i]
		if b.Participant.Name != w.name || b.Paid.StringFixed(2) != w.paid || b.Net.StringFixed(2) != w.net || b.Display != w.display {
			t.Errorf("balance %d = %+v, want %+v", i, b, w)
		}
	}
}

func TestGetSettlements(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	event := seedDinner(t, c)

	resp, err := c.settlements.GetSettlements(context.Background(), connect.NewRequest(&api.GetSettlementsRequest{EventID: event.ID}))
	if err != nil {
		t.Fatalf("GetSettlements failed: %v", err)
	}

	got := resp.Msg.Settlements
	if len(got) != 2 {
		t.Fatalf("expected 2 settlements, got %d", len(got))
	}
	if got[0].From.Name != "Bob" || got[1].From.Name != "Charlie" {
		t.Errorf("unexpected debtor order: %s, %s", got[0].From.Name, got[1].From.Name)
	}
	for _, s := range got {
		if s.To.Name != "Alice" || s.Amount.StringFixed(2) != "10.00" {
			t.Errorf("unexpected settlement: %+v", s)
		}
	}

	if counts := c.observer.snapshot(); len(counts) != 1 || counts[0] != 2 {
		t.Errorf("observer counts = %v, want [2]", counts)
	}
}

func TestGetSettlements_EmptyEvent(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	event := createTrio(t, c, "USD")

	resp, err := c.settlements.GetSettlements(context.Background(), connect.NewRequest(&api.GetSettlementsRequest{EventID: event.ID}))
	if err != nil {
		t.Fatalf("GetSettlements failed: %v", err)
	}
	if len(resp.Msg.Settlements) != 0 {
		t.Errorf("expected no settlements, got %+v", resp.Msg.Settlements)
	}
}

func TestGetSettlements_NotFound(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	_, err := c.settlements.GetSettlements(context.Background(), connect.NewRequest(&api.GetSettlementsRequest{EventID: "missing"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestRecordPayment_ReducesSettlements(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	event := seedDinner(t, c)
	alice, bob := event.Participants[0], event.Participants[1]

	resp, err := c.settlements.RecordPayment(ctx, connect.NewRequest(&api.RecordPaymentRequest{
		EventID: event.ID,
		FromID:  bob.ID,
		ToID:    alice.ID,
		Amount:  dec("10"),
		Note:    "cash",
	}))
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if resp.Msg.Payment.ID == "" || resp.Msg.Payment.Note != "cash" {
		t.Errorf("unexpected payment: %+v", resp.Msg.Payment)
	}

	settlements, err := c.settlements.GetSettlements(ctx, connect.NewRequest(&api.GetSettlementsRequest{EventID: event.ID}))
	if err != nil {
		t.Fatalf("GetSettlements failed: %v", err)
	}
	if len(settlements.Msg.Settlements) != 1 || settlements.Msg.Settlements[0].From.Name != "Charlie" {
		t.Errorf("expected only Charlie to owe, got %+v", settlements.Msg.Settlements)
	}

	payments, err := c.settlements.ListPayments(ctx, connect.NewRequest(&api.ListPaymentsRequest{EventID: event.ID}))
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments.Msg.Payments) != 1 || payments.Msg.Payments[0].Amount.StringFixed(2) != "10.00" {
		t.Errorf("unexpected payments: %+v", payments.Msg.Payments)
	}
}

func TestRecordPayment_Validation(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	event := createTrio(t, c, "USD")
	alice, bob := event.Participants[0].ID, event.Participants[1].ID

	tests := []struct {
		name string
		req  *api.RecordPaymentRequest
		code connect.Code
	}{
		{"zero amount", &api.RecordPaymentRequest{EventID: event.ID, FromID: bob, ToID: alice, Amount: dec("0")}, connect.CodeInvalidArgument},
		{"below smallest unit", &api.RecordPaymentRequest{EventID: event.ID, FromID: bob, ToID: alice, Amount: dec("0.001")}, connect.CodeInvalidArgument},
		{"same participant", &api.RecordPaymentRequest{EventID: event.ID, FromID: bob, ToID: bob, Amount: dec("1")}, connect.CodeInvalidArgument},
		{"stranger", &api.RecordPaymentRequest{EventID: event.ID, FromID: "stranger", ToID: alice, Amount: dec("1")}, connect.CodeInvalidArgument},
		{"unknown event", &api.RecordPaymentRequest{EventID: "missing", FromID: bob, ToID: alice, Amount: dec("1")}, connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.settlements.RecordPayment(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, tt.code)
		})
	}
}

func TestExportEvent(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	event := seedDinner(t, c)

	text, err := c.settlements.ExportEvent(ctx, connect.NewRequest(&api.ExportEventRequest{EventID: event.ID}))
	if err != nil {
		t.Fatalf("ExportEvent failed: %v", err)
	}
	if text.Msg.Format != "text" || !strings.HasSuffix(text.Msg.Filename, ".txt") {
		t.Errorf("unexpected text export metadata: %+v", text.Msg)
	}
	for _, want := range []string{"Event: Weekend trip", "Bob -> Alice: $10.00", "Generated at: 2024-04-01 09:00:00 UTC"} {
		if !strings.Contains(text.Msg.Body, want) {
			t.Errorf("text export missing %q:\n%s", want, text.Msg.Body)
		}
	}

	js, err := c.settlements.ExportEvent(ctx, connect.NewRequest(&api.ExportEventRequest{EventID: event.ID, Format: "json"}))
	if err != nil {
		t.Fatalf("ExportEvent(json) failed: %v", err)
	}
	var doc struct {
		Participants []string `json:"participants"`
	}
	if err := json.Unmarshal([]byte(js.Msg.Body), &doc); err != nil {
		t.Fatalf("json export is not valid JSON: %v", err)
	}
	if len(doc.Participants) != 3 {
		t.Errorf("expected 3 participants in json export, got %v", doc.Participants)
	}

	_, err = c.settlements.ExportEvent(ctx, connect.NewRequest(&api.ExportEventRequest{EventID: event.ID, Format: "pdf"}))
	assertCode(t, err, connect.CodeInvalidArgument)
}
