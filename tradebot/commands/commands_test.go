package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/gohye/cardtrade/internal/domain/cards"
	"github.com/gohye/cardtrade/internal/domain/cards/mock"
	"github.com/gohye/cardtrade/internal/domain/ownership"
	"github.com/gohye/cardtrade/internal/domain/trading"
	"github.com/gohye/cardtrade/internal/gateways/memory"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
	"go.uber.org/mock/gomock"
)

func catalog(t *testing.T) cards.Service {
	t.Helper()
	store := memory.NewStore()
	store.PutCards(
		cards.Card{ID: 1, Name: "Pikachu", SetID: "base1", Rarity: cards.RarityCommon},
		cards.Card{ID: 2, Name: "Charizard", SetID: "base1", Rarity: cards.RarityRareHolo},
		cards.Card{ID: 3, Name: "Mewtwo", SetID: "base1", Rarity: cards.RarityRare},
	)
	return cards.NewService(store)
}

func TestParseCardList(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []cardQuery
		wantErr bool
	}{
		{name: "Single", in: "Pikachu", want: []cardQuery{{"Pikachu", 1}}},
		{name: "Quantities", in: "Pikachu x2, Charizard x1", want: []cardQuery{{"Pikachu", 2}, {"Charizard", 1}}},
		{name: "BlankParts", in: " , Mewtwo ,", want: []cardQuery{{"Mewtwo", 1}}},
		{name: "NameWithX", in: "Mr. Mime xy", want: []cardQuery{{"Mr. Mime xy", 1}}},
		{name: "ZeroQuantity", in: "Pikachu x0", wantErr: true},
		{name: "Empty", in: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCardList(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCardList() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("parseCardList() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveCards(t *testing.T) {
	svc := catalog(t)

	refs, found, err := resolveCards(context.Background(), svc, "charizard x3, pikachu")
	if err != nil {
		t.Fatalf("resolveCards() error = %v", err)
	}
	want := []trading.CardRef{{CardID: 2, Quantity: 3}, {CardID: 1, Quantity: 1}}
	if fmt.Sprint(refs) != fmt.Sprint(want) {
		t.Errorf("refs = %v, want %v", refs, want)
	}
	if found[0].Name != "Charizard" {
		t.Errorf("found[0] = %s", found[0].Name)
	}

	_, _, err = resolveCards(context.Background(), svc, "qqqqqq")
	if appErrors.CodeOf(err) != appErrors.CodeNotFound {
		t.Errorf("unknown card code = %s", appErrors.CodeOf(err))
	}
}

func TestResolveCards_CatalogFailureIsNotNotFound(t *testing.T) {
	repo := mock.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().GetAll(gomock.Any()).Return(nil, errors.New("connection refused"))

	_, _, err := resolveCards(context.Background(), cards.NewService(repo), "pikachu")
	if err == nil {
		t.Fatal("resolveCards() should fail when the catalog is unavailable")
	}
	if code := appErrors.CodeOf(err); code != appErrors.CodeUnknown {
		t.Errorf("catalog failure code = %s, want %s", code, appErrors.CodeUnknown)
	}
	if strings.Contains(userMessage(err), "pikachu") {
		t.Errorf("userMessage() leaked detail: %q", userMessage(err))
	}
}

func TestFormatRefs(t *testing.T) {
	svc := catalog(t)
	got := formatRefs(context.Background(), svc, []trading.CardRef{{CardID: 2, Quantity: 1}, {CardID: 42, Quantity: 2}})
	if !strings.Contains(got, "Charizard") || !strings.Contains(got, "#42 ×2") {
		t.Errorf("formatRefs() = %q", got)
	}
	if formatRefs(context.Background(), svc, nil) != "*nothing*" {
		t.Error("empty side should render as nothing")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"Forbidden", appErrors.ErrForbidden, "not part of that trade"},
		{"NotFriends", appErrors.ErrNotFriends, "/friend add"},
		{"Insufficient", appErrors.ErrInsufficient("u1", 5, 1, 2), "owns 1 of card 5"},
		{"Transition", appErrors.InvalidTransition("completed", "cancelled"), "cannot move from completed to cancelled"},
		{"Wrapped", fmt.Errorf("outer: %w", appErrors.ErrSelfTradeNotAllowed), "yourself"},
		{"RateLimited", appErrors.RateLimited(time.Unix(1700000000, 0)), "<t:1700000000:R>"},
		{"Unknown", errors.New("connection reset"), "Something went wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := userMessage(tt.err); !strings.Contains(got, tt.want) {
				t.Errorf("userMessage() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage_HidesInternalDetail(t *testing.T) {
	err := appErrors.Internal("room codes exhausted", errors.New("pq: secret detail"))
	if got := userMessage(err); strings.Contains(got, "secret") {
		t.Errorf("userMessage() leaked cause: %q", got)
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID("trade", "1234567890"); err != nil || id != snowflake.ID(1234567890) {
		t.Fatalf("parseID() = %v, %v", id, err)
	}
	for _, raw := range []string{"", "abc", "0"} {
		if _, err := parseID("trade", raw); appErrors.CodeOf(err) != appErrors.CodeInvalidArgument {
			t.Errorf("parseID(%q) code = %s", raw, appErrors.CodeOf(err))
		}
	}
}

func TestTradeButtonsFor(t *testing.T) {
	tests := []struct {
		status  trading.TradeStatus
		wantRow bool
	}{
		{trading.TradePending, true},
		{trading.TradeAccepted, true},
		{trading.TradeCompleted, false},
		{trading.TradeRejected, false},
		{trading.TradeCancelled, false},
	}
	for _, tt := range tests {
		_, ok := tradeButtonsFor(&trading.Trade{ID: 9, Status: tt.status})
		if ok != tt.wantRow {
			t.Errorf("tradeButtonsFor(%s) row = %v, want %v", tt.status, ok, tt.wantRow)
		}
	}
}

func TestInboxLines(t *testing.T) {
	incoming := []*trading.TradeRequest{{ID: 1, FromUserID: "bob", Note: strings.Repeat("é", 50)}}
	outgoing := []*trading.TradeRequest{{ID: 2, ToUserID: "carol"}}
	trades := []*trading.Trade{{
		ID: 3, InitiatorUserID: "bob", ReceiverUserID: "alice",
		TradeType: trading.TradePrivate, Status: trading.TradePending, PrivateRoomCode: "ABC123",
	}}

	lines := inboxLines("alice", incoming, outgoing, trades)
	if len(lines) != 3 {
		t.Fatalf("inboxLines() = %d lines, want 3", len(lines))
	}
	if !strings.Contains(lines[0], "<@bob>") || !strings.HasSuffix(lines[0], "…") {
		t.Errorf("incoming line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "<@carol>") {
		t.Errorf("outgoing line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "<@bob>") || !strings.Contains(lines[2], "ABC123") {
		t.Errorf("trade line = %q", lines[2])
	}
}

func TestCollectionLines(t *testing.T) {
	svc := catalog(t)
	lines := collectionLines(context.Background(), svc, []ownership.Record{
		{OwnerID: "alice", CardID: 3, Quantity: 2, Tradeable: true},
		{OwnerID: "alice", CardID: 1, Quantity: 1},
	})
	if lines[0] != "Mewtwo [Rare] ×2" {
		t.Errorf("lines[0] = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "(locked)") {
		t.Errorf("lines[1] = %q", lines[1])
	}
}
