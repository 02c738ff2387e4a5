package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/gohye/cardtrade/internal/domain/trading"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
)

func TestHandleError(t *testing.T) {
	if err := handleError("select", "trade", 1, nil); err != nil {
		t.Fatalf("nil error mapped to %v", err)
	}

	err := handleError("select", "trade", 7, fmt.Errorf("scan: %w", sql.ErrNoRows))
	if !errors.Is(err, appErrors.ErrNotFound) {
		t.Fatalf("no rows should map to not found, got %v", err)
	}

	if err := handleError("update", "ownership", "k", appErrors.ErrInsufficientOwnership); !errors.Is(err, appErrors.ErrInsufficientOwnership) {
		t.Fatalf("domain errors pass through, got %v", err)
	}

	boom := errors.New("connection reset")
	err = handleError("insert", "trade", 9, boom)
	var repoErr *RepositoryError
	if !errors.As(err, &repoErr) || repoErr.Operation != "insert" || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}

func TestUniqueViolation_IgnoresOtherErrors(t *testing.T) {
	if uniqueViolation(nil, "") {
		t.Fatal("nil is not a violation")
	}
	if uniqueViolation(errors.New("duplicate key"), "") {
		t.Fatal("plain errors are not violations")
	}
}

func TestTradeConversionRoundTrip(t *testing.T) {
	reqID := snowflake.ID(99)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	in := &trading.Trade{
		ID:              snowflake.ID(1234),
		InitiatorUserID: "alice",
		ReceiverUserID:  "bob",
		InitiatorCards:  []trading.CardRef{{CardID: 1, Quantity: 2}},
		ReceiverCards:   []trading.CardRef{},
		TradeType:       trading.TradePrivate,
		Status:          trading.TradeAccepted,
		PrivateRoomCode: "ABC123",
		RequestID:       &reqID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	m := tradeToModel(in)
	if m.ReceiverCards == nil {
		t.Fatal("empty card list must stay non-nil for the jsonb column")
	}
	out := tradeFromModel(m)
	if out.ID != in.ID || out.Status != in.Status || out.PrivateRoomCode != in.PrivateRoomCode {
		t.Fatalf("round trip changed trade: %+v", out)
	}
	if out.RequestID == nil || *out.RequestID != reqID {
		t.Fatalf("request id lost: %v", out.RequestID)
	}
	if len(out.InitiatorCards) != 1 || out.InitiatorCards[0] != in.InitiatorCards[0] {
		t.Fatalf("cards = %v", out.InitiatorCards)
	}
}

func TestRequestToModel_WantCardID(t *testing.T) {
	req := &trading.TradeRequest{ID: 1, FromUserID: "a", ToUserID: "b", Want: &trading.CardRef{CardID: 42, Quantity: 1}}
	if m := requestToModel(req); m.WantCardID != 42 {
		t.Fatalf("want_card_id = %d, want 42", m.WantCardID)
	}
	manual := &trading.TradeRequest{ID: 2, FromUserID: "a", ToUserID: "b", IsManual: true, Note: "x"}
	if m := requestToModel(manual); m.WantCardID != 0 || m.Want != nil {
		t.Fatalf("manual request model = %+v", m)
	}
}

func TestOrderPair(t *testing.T) {
	if a, b := orderPair("zed", "amy"); a != "amy" || b != "zed" {
		t.Fatalf("orderPair = %s, %s", a, b)
	}
}
