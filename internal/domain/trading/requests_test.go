package trading_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gohye/cardtrade/internal/domain/trading"
	"github.com/gohye/cardtrade/internal/domain/trading/mock"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
	"go.uber.org/mock/gomock"
)

func TestRequestService_Create(t *testing.T) {
	f := newFixture(t, trading.AcceptIntoPending, nil, nil)
	f.give(t, "alice", pikachu, 1)
	ctx := context.Background()

	offer := ref(pikachu, 1)
	want := ref(charizard, 1)

	req, err := f.requests.Create(ctx, "alice", "bob", trading.Proposal{Offer: &offer, Want: &want, Note: " swap? "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if req.Status != trading.RequestPending || req.Note != "swap?" {
		t.Fatalf("unexpected request %+v", req)
	}

	tests := []struct {
		name string
		from string
		to   string
		p    trading.Proposal
		want error
	}{
		{"duplicate", "alice", "bob", trading.Proposal{Offer: &offer, Want: &want, Note: "swap?"}, appErrors.ErrDuplicateRequest},
		{"self", "alice", "alice", trading.Proposal{Want: &want}, appErrors.ErrSelfTradeNotAllowed},
		{"unknown recipient", "alice", "zed", trading.Proposal{Want: &want}, appErrors.ErrRecipientNotFound},
		{"offer not owned", "carol", "bob", trading.Proposal{Offer: &offer}, appErrors.ErrInsufficientOwnership},
		{"malformed ref", "alice", "bob", trading.Proposal{Want: &trading.CardRef{CardID: 2, Quantity: -1}}, appErrors.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.requests.Create(ctx, tt.from, tt.to, tt.p)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}

	// a different note is a different request
	if _, err := f.requests.Create(ctx, "alice", "bob", trading.Proposal{Offer: &offer, Want: &want, Note: "please"}); err != nil {
		t.Fatalf("Create with other note: %v", err)
	}
}

func TestRequestService_DuplicateAllowedAfterAnswer(t *testing.T) {
	f := newFixture(t, trading.AcceptIntoPending, nil, nil)
	ctx := context.Background()
	want := ref(charizard, 1)

	req, err := f.requests.Create(ctx, "alice", "bob", trading.Proposal{Want: &want})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.requests.Reject(ctx, req.ID, "bob"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if _, err := f.requests.Create(ctx, "alice", "bob", trading.Proposal{Want: &want}); err != nil {
		t.Fatalf("Create after reject: %v", err)
	}
}

func TestRequestService_AcceptPolicy(t *testing.T) {
	tests := []struct {
		policy trading.AcceptPolicy
		want   trading.TradeStatus
	}{
		{trading.AcceptIntoPending, trading.TradePending},
		{trading.AcceptIntoAccepted, trading.TradeAccepted},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			f := newFixture(t, tt.policy, nil, nil)
			f.give(t, "alice", pikachu, 1)
			ctx := context.Background()
			offer := ref(pikachu, 1)
			want := ref(charizard, 1)

			req, err := f.requests.Create(ctx, "alice", "bob", trading.Proposal{Offer: &offer, Want: &want})
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			accepted, trade, err := f.requests.Accept(ctx, req.ID, "bob")
			if err != nil {
				t.Fatalf("Accept: %v", err)
			}
			if trade.Status != tt.want {
				t.Fatalf("trade status = %s, want %s", trade.Status, tt.want)
			}
			if accepted.Status != trading.RequestAccepted || accepted.TradeID == nil || *accepted.TradeID != trade.ID {
				t.Fatalf("request not linked: %+v", accepted)
			}
			if trade.RequestID == nil || *trade.RequestID != req.ID {
				t.Fatalf("trade not linked: %+v", trade)
			}
			if trade.InitiatorUserID != "alice" || trade.ReceiverUserID != "bob" {
				t.Fatalf("participants = %s/%s", trade.InitiatorUserID, trade.ReceiverUserID)
			}
			if len(trade.InitiatorCards) != 1 || trade.InitiatorCards[0] != offer {
				t.Fatalf("initiator cards = %v", trade.InitiatorCards)
			}
			if len(trade.ReceiverCards) != 1 || trade.ReceiverCards[0] != want {
				t.Fatalf("receiver cards = %v", trade.ReceiverCards)
			}

			if _, _, err := f.requests.Accept(ctx, req.ID, "bob"); !errors.Is(err, appErrors.ErrInvalidTransition) {
				t.Fatalf("second accept: expected invalid transition, got %v", err)
			}
			if _, err := f.requests.Reject(ctx, req.ID, "bob"); !errors.Is(err, appErrors.ErrInvalidTransition) {
				t.Fatalf("reject after accept: expected invalid transition, got %v", err)
			}
		})
	}
}

func TestRequestService_OnlyRecipientAnswers(t *testing.T) {
	f := newFixture(t, trading.AcceptIntoPending, nil, nil)
	ctx := context.Background()
	want := ref(charizard, 1)

	req, err := f.requests.Create(ctx, "alice", "bob", trading.Proposal{Want: &want})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, actor := range []string{"alice", "carol"} {
		if _, _, err := f.requests.Accept(ctx, req.ID, actor); !errors.Is(err, appErrors.ErrForbidden) {
			t.Errorf("accept by %s: expected forbidden, got %v", actor, err)
		}
		if _, err := f.requests.Reject(ctx, req.ID, actor); !errors.Is(err, appErrors.ErrForbidden) {
			t.Errorf("reject by %s: expected forbidden, got %v", actor, err)
		}
	}
	if _, _, err := f.requests.Accept(ctx, 424242, "bob"); !errors.Is(err, appErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRequestService_Lists(t *testing.T) {
	f := newFixture(t, trading.AcceptIntoPending, nil, nil)
	ctx := context.Background()
	want := ref(charizard, 1)

	if _, err := f.requests.Create(ctx, "alice", "bob", trading.Proposal{Want: &want}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.requests.Create(ctx, "carol", "bob", trading.Proposal{IsManual: true, Note: "any energy"}); err != nil {
		t.Fatalf("Create manual: %v", err)
	}

	incoming, err := f.requests.ListIncoming(ctx, "bob")
	if err != nil {
		t.Fatalf("ListIncoming: %v", err)
	}
	if len(incoming) != 2 {
		t.Fatalf("incoming = %d, want 2", len(incoming))
	}
	outgoing, err := f.requests.ListOutgoing(ctx, "alice")
	if err != nil {
		t.Fatalf("ListOutgoing: %v", err)
	}
	if len(outgoing) != 1 || outgoing[0].ToUserID != "bob" {
		t.Fatalf("outgoing = %v", outgoing)
	}
}

func TestRequestService_RecipientLookupFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mock.NewMockUsers(ctrl)
	boom := errors.New("users unavailable")
	users.EXPECT().Exists(gomock.Any(), "bob").Return(false, boom)

	f := newFixture(t, trading.AcceptIntoPending, nil, nil)
	svc := trading.NewRequestService(f.store, users, nil, trading.NewIDGenerator(0), trading.AcceptIntoPending)
	want := ref(charizard, 1)

	if _, err := svc.Create(context.Background(), "alice", "bob", trading.Proposal{Want: &want}); !errors.Is(err, boom) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestParseAcceptPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    trading.AcceptPolicy
		wantErr bool
	}{
		{"", trading.AcceptIntoPending, false},
		{"pending", trading.AcceptIntoPending, false},
		{" Accepted ", trading.AcceptIntoAccepted, false},
		{"instant", "", true},
	}
	for _, tt := range tests {
		got, err := trading.ParseAcceptPolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseAcceptPolicy(%q) = %q, %v", tt.in, got, err)
		}
	}
}
