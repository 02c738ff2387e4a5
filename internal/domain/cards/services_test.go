package cards_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gohye/cardtrade/internal/domain/cards"
	"github.com/gohye/cardtrade/internal/domain/cards/mock"
	"go.uber.org/mock/gomock"
)

func repoMock(t *testing.T) *mock.MockRepository {
	return mock.NewMockRepository(gomock.NewController(t))
}

func Test_service_Pool_CachesPerSet(t *testing.T) {
	repo := repoMock(t)
	repo.EXPECT().
		GetBySet(gomock.Any(), "base1").
		Return(mock.Cards, nil).
		Times(1)

	s := cards.NewService(repo)

	for i := 0; i < 3; i++ {
		pool, err := s.Pool(context.Background(), "base1")
		if err != nil {
			t.Fatalf("Pool() error = %v", err)
		}
		if len(pool) != len(mock.Cards) {
			t.Fatalf("Pool() len = %d, want %d", len(pool), len(mock.Cards))
		}
	}
}

func Test_service_Pool_ExpiredEntryReloads(t *testing.T) {
	repo := repoMock(t)
	repo.EXPECT().
		GetBySet(gomock.Any(), "base1").
		Return(mock.Cards, nil).
		Times(2)

	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s := cards.NewService(repo)
	cards.SetClock(s, func() time.Time { return now })

	if _, err := s.Pool(context.Background(), "base1"); err != nil {
		t.Fatalf("Pool() error = %v", err)
	}
	now = now.Add(cards.PoolCacheExpiry + time.Second)
	if _, err := s.Pool(context.Background(), "base1"); err != nil {
		t.Fatalf("Pool() error = %v", err)
	}
}

func Test_service_Pool_ReturnsCopy(t *testing.T) {
	repo := repoMock(t)
	repo.EXPECT().GetBySet(gomock.Any(), "base1").Return(mock.Cards, nil)

	s := cards.NewService(repo)
	first, _ := s.Pool(context.Background(), "base1")
	first[0].Name = "mutated"

	second, _ := s.Pool(context.Background(), "base1")
	if second[0].Name == "mutated" {
		t.Fatalf("Pool() leaked cached slice to caller")
	}
}

func Test_service_Pool_Error(t *testing.T) {
	repo := repoMock(t)
	repo.EXPECT().GetBySet(gomock.Any(), "nope").Return(nil, errors.New("db down"))

	s := cards.NewService(repo)
	if _, err := s.Pool(context.Background(), "nope"); err == nil {
		t.Fatalf("Pool() expected error")
	}
}

func Test_service_FindByName(t *testing.T) {
	errDB := errors.New("connection refused")
	tests := []struct {
		name    string
		query   string
		repoErr error
		wantID  int64
		wantErr error
	}{
		{name: "Exact", query: "Charizard", wantID: 2},
		{name: "CaseInsensitive", query: "professor oak", wantID: 3},
		{name: "Fuzzy", query: "pkchu", wantID: 1},
		{name: "NoMatch", query: "zzzzzz", wantErr: cards.ErrNoMatch},
		{name: "Empty", query: "   ", wantErr: cards.ErrNoMatch},
		{name: "RepositoryFailure", query: "Charizard", repoErr: errDB, wantErr: errDB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repoMock(t)
			if tt.repoErr != nil {
				repo.EXPECT().GetAll(gomock.Any()).Return(nil, tt.repoErr)
			} else {
				repo.EXPECT().GetAll(gomock.Any()).Return(mock.Cards, nil).AnyTimes()
			}

			s := cards.NewService(repo)
			got, err := s.FindByName(context.Background(), tt.query)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FindByName() error = %v, want %v", err, tt.wantErr)
				}
				if tt.repoErr != nil && errors.Is(err, cards.ErrNoMatch) {
					t.Fatalf("repository failure reported as no match: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindByName() error = %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("FindByName() got = %d, want %d", got.ID, tt.wantID)
			}
		})
	}
}

func Test_service_Rarity(t *testing.T) {
	repo := repoMock(t)
	repo.EXPECT().GetByID(gomock.Any(), int64(2)).Return(mock.Cards[1], nil)

	s := cards.NewService(repo)
	got, err := s.Rarity(context.Background(), 2)
	if err != nil {
		t.Fatalf("Rarity() error = %v", err)
	}
	if got != cards.RarityRareHolo {
		t.Errorf("Rarity() = %v, want %v", got, cards.RarityRareHolo)
	}
}

func TestParseRarity(t *testing.T) {
	tests := []struct {
		in     string
		want   cards.Rarity
		wantOK bool
	}{
		{"Common", cards.RarityCommon, true},
		{" rare ", cards.RarityRare, true},
		{"Rare Holo", cards.RarityRareHolo, true},
		{"Rare Secret", cards.RarityHyperRare, true},
		{"Promo", cards.RarityUnknown, false},
	}
	for _, tt := range tests {
		got, ok := cards.ParseRarity(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseRarity(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
	if !cards.RarityUltraRare.AtLeast(cards.RarityRare) || cards.RarityUncommon.AtLeast(cards.RarityRare) {
		t.Errorf("AtLeast ordering broken")
	}
}

func Test_service_Card(t *testing.T) {
	repo := repoMock(t)
	repo.EXPECT().GetByID(gomock.Any(), int64(3)).Return(mock.Cards[2], nil)
	repo.EXPECT().GetByID(gomock.Any(), int64(99)).Return(nil, errors.New("card 99 not found"))

	s := cards.NewService(repo)
	got, err := s.Card(context.Background(), 3)
	if err != nil || got.Name != "Professor Oak" {
		t.Fatalf("Card() = %v, %v", got, err)
	}
	if _, err := s.Card(context.Background(), 99); err == nil {
		t.Fatal("Card() expected error")
	}
}
