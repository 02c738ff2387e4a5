package importer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gohye/cardtrade/internal/domain/cards"
	"github.com/gohye/cardtrade/internal/domain/ownership"
	"github.com/gohye/cardtrade/internal/gateways/memory"
	"go.mongodb.org/mongo-driver/bson"
)

func dump(t *testing.T, docs ...any) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	for _, d := range docs {
		raw, err := bson.Marshal(d)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		buf.Write(raw)
	}
	return &buf
}

func TestReadBSON(t *testing.T) {
	buf := dump(t, bson.M{"n": 1}, bson.M{"n": 2}, bson.M{"n": 3})

	var seen []int32
	err := ReadBSON(buf, func(doc []byte) error {
		var v struct {
			N int32 `bson:"n"`
		}
		if err := bson.Unmarshal(doc, &v); err != nil {
			return err
		}
		seen = append(seen, v.N)
		return nil
	})
	if err != nil {
		t.Fatalf("ReadBSON() error = %v", err)
	}
	if len(seen) != 3 || seen[2] != 3 {
		t.Errorf("seen = %v", seen)
	}
}

func TestReadBSON_Truncated(t *testing.T) {
	buf := dump(t, bson.M{"name": "Pikachu"})
	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()-3])

	if err := ReadBSON(truncated, func([]byte) error { return nil }); err == nil {
		t.Fatal("ReadBSON() expected error on truncated document")
	}
}

func TestImportCardsBSON(t *testing.T) {
	store := memory.NewStore()
	im := New(store, store)
	im.SetBatchSize(1)

	buf := dump(t,
		MongoCard{ID: 1, Name: "Pikachu", SetID: "base1", Rarity: "Common", Supertype: "Pokémon"},
		MongoCard{ID: 2, Name: "Charizard", SetID: "base1", Rarity: "Rare Holo", Supertype: "Pokemon"},
		MongoCard{ID: 3, Name: "Mystery", SetID: "base1", Rarity: "Promo", Supertype: "Pokemon"},
		MongoCard{ID: 0, Name: "Broken", SetID: "base1", Rarity: "Common", Supertype: "Pokemon"},
	)

	stats, err := im.ImportCardsBSON(context.Background(), buf)
	if err != nil {
		t.Fatalf("ImportCardsBSON() error = %v", err)
	}
	if stats.Read != 4 || stats.Imported != 2 || stats.Skipped != 2 {
		t.Errorf("stats = %+v", stats)
	}

	got, err := store.GetByID(context.Background(), 2)
	if err != nil || got.Rarity != cards.RarityRareHolo {
		t.Errorf("GetByID(2) = %+v, %v", got, err)
	}
}

func TestImportCardsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	content := `[
		{"id": 10, "name": "Bill", "set_id": "base1", "rarity": "Uncommon", "supertype": "Trainer"},
		{"id": 11, "name": "", "set_id": "base1", "rarity": "Common", "supertype": "Energy"}
	]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	store := memory.NewStore()
	stats, err := New(store, store).ImportCardsJSON(context.Background(), path)
	if err != nil {
		t.Fatalf("ImportCardsJSON() error = %v", err)
	}
	if stats.Imported != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v", stats)
	}
	pool, _ := store.GetBySet(context.Background(), "base1")
	if len(pool) != 1 || pool[0].Supertype != cards.SupertypeTrainer {
		t.Errorf("pool = %+v", pool)
	}
}

func TestImportHoldingsBSON(t *testing.T) {
	store := memory.NewStore()
	im := New(store, store)

	card := func(id int64) *int64 { return &id }
	buf := dump(t,
		MongoUserCard{UserID: "alice", CardID: card(1), Amount: 2},
		MongoUserCard{UserID: "alice", CardID: card(2), Amount: 1},
		MongoUserCard{UserID: "bob", CardID: card(1), Amount: 3},
		MongoUserCard{UserID: "bob", CardID: nil, Amount: 1},
		MongoUserCard{UserID: "carol", CardID: card(1), Amount: 0},
		MongoUserCard{UserID: "carol", CardID: card(2), Amount: 10_000_000_000},
		MongoUserCard{UserID: "dave", CardID: card(3), Amount: MaxHoldingAmount},
		MongoUserCard{UserID: "dave", CardID: card(3), Amount: 1},
	)

	stats, err := im.ImportHoldingsBSON(context.Background(), buf)
	if err != nil {
		t.Fatalf("ImportHoldingsBSON() error = %v", err)
	}
	if stats.Read != 8 || stats.Imported != 6+MaxHoldingAmount || stats.Skipped != 4 {
		t.Errorf("stats = %+v", stats)
	}

	repo := store.Ownership()
	for _, tc := range []struct {
		owner string
		card  int64
		want  int64
	}{
		{"alice", 1, 2},
		{"alice", 2, 1},
		{"bob", 1, 3},
		{"carol", 2, 0},
		{"dave", 3, MaxHoldingAmount},
	} {
		got, err := repo.Quantity(context.Background(), ownership.Key{OwnerID: tc.owner, CardID: tc.card, Bucket: ownership.BucketCollection})
		if err != nil || got != tc.want {
			t.Errorf("Quantity(%s, %d) = %d, %v; want %d", tc.owner, tc.card, got, err, tc.want)
		}
	}
}
