// Package importer loads the card catalog and legacy holdings from export
// files: a JSON card list, or BSON dumps of the old cards and usercards
// collections.
package importer

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gohye/cardtrade/internal/domain/cards"
	"github.com/gohye/cardtrade/internal/domain/ownership"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	defaultBatchSize = 500
	// maxDocumentSize is MongoDB's BSON document limit.
	maxDocumentSize = 16 * 1024 * 1024
)

// MaxHoldingAmount caps the copies of one card a legacy holding may carry.
const MaxHoldingAmount = 10_000

var ErrDocumentTooLarge = errors.New("bson document exceeds 16MiB")

// CatalogWriter stores catalog cards, replacing existing ones by id.
type CatalogWriter interface {
	BulkUpsert(ctx context.Context, list []cards.Card) (int, error)
}

type Stats struct {
	Read     int
	Imported int
	Skipped  int
	Took     time.Duration
}

type Importer struct {
	catalog   CatalogWriter
	granter   ownership.Granter
	batchSize int
}

func New(catalog CatalogWriter, granter ownership.Granter) *Importer {
	return &Importer{catalog: catalog, granter: granter, batchSize: defaultBatchSize}
}

func (im *Importer) SetBatchSize(size int) {
	if size > 0 {
		im.batchSize = size
	}
}

// JSONCard is one entry of a cards.json catalog export.
type JSONCard struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SetID     string `json:"set_id"`
	Rarity    string `json:"rarity"`
	Supertype string `json:"supertype"`
}

// MongoCard is a document of the legacy cards collection.
type MongoCard struct {
	ID        int64  `bson:"id"`
	Name      string `bson:"name"`
	SetID     string `bson:"set"`
	Rarity    string `bson:"rarity"`
	Supertype string `bson:"supertype"`
}

// MongoUserCard is a document of the legacy usercards collection.
type MongoUserCard struct {
	UserID string `bson:"userid"`
	CardID *int64 `bson:"cardid"`
	Amount int64  `bson:"amount"`
}

func (im *Importer) ImportCardsJSON(ctx context.Context, path string) (Stats, error) {
	start := time.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var entries []JSONCard
	if err := json.Unmarshal(data, &entries); err != nil {
		return Stats{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	stats := Stats{Read: len(entries)}
	list := make([]cards.Card, 0, len(entries))
	for _, e := range entries {
		c, ok := convertCard(e.ID, e.Name, e.SetID, e.Rarity, e.Supertype)
		if !ok {
			stats.Skipped++
			continue
		}
		list = append(list, c)
	}
	if err := im.writeCards(ctx, list, &stats); err != nil {
		return stats, err
	}
	stats.Took = time.Since(start)
	logStats("cards.json", stats)
	return stats, nil
}

func (im *Importer) ImportCardsBSON(ctx context.Context, r io.Reader) (Stats, error) {
	start := time.Now()
	var stats Stats
	var list []cards.Card
	err := ReadBSON(r, func(doc []byte) error {
		stats.Read++
		var mc MongoCard
		if err := bson.Unmarshal(doc, &mc); err != nil {
			stats.Skipped++
			return nil
		}
		c, ok := convertCard(mc.ID, mc.Name, mc.SetID, mc.Rarity, mc.Supertype)
		if !ok {
			stats.Skipped++
			return nil
		}
		list = append(list, c)
		return nil
	})
	if err != nil {
		return stats, err
	}
	if err := im.writeCards(ctx, list, &stats); err != nil {
		return stats, err
	}
	stats.Took = time.Since(start)
	logStats("cards.bson", stats)
	return stats, nil
}

// ImportHoldingsBSON grants every user the copies recorded in a usercards
// dump. Rows without a card id, with a non-positive amount or with more than
// MaxHoldingAmount copies are skipped.
func (im *Importer) ImportHoldingsBSON(ctx context.Context, r io.Reader) (Stats, error) {
	start := time.Now()
	var stats Stats
	holdings := make(map[string]map[int64]int64)
	err := ReadBSON(r, func(doc []byte) error {
		stats.Read++
		var uc MongoUserCard
		if err := bson.Unmarshal(doc, &uc); err != nil || uc.CardID == nil || uc.UserID == "" ||
			uc.Amount <= 0 || uc.Amount > MaxHoldingAmount {
			stats.Skipped++
			return nil
		}
		counts := holdings[uc.UserID]
		if counts == nil {
			counts = make(map[int64]int64)
			holdings[uc.UserID] = counts
		}
		if counts[*uc.CardID]+uc.Amount > MaxHoldingAmount {
			stats.Skipped++
			return nil
		}
		counts[*uc.CardID] += uc.Amount
		return nil
	})
	if err != nil {
		return stats, err
	}

	users := make([]string, 0, len(holdings))
	for u := range holdings {
		users = append(users, u)
	}
	sort.Strings(users)
	for _, u := range users {
		if err := im.granter.GrantCounts(ctx, u, holdings[u]); err != nil {
			return stats, fmt.Errorf("failed to grant holdings of %s: %w", u, err)
		}
		for _, n := range holdings[u] {
			stats.Imported += int(n)
		}
	}
	stats.Took = time.Since(start)
	logStats("usercards.bson", stats)
	return stats, nil
}

func (im *Importer) writeCards(ctx context.Context, list []cards.Card, stats *Stats) error {
	for i := 0; i < len(list); i += im.batchSize {
		end := min(i+im.batchSize, len(list))
		n, err := im.catalog.BulkUpsert(ctx, list[i:end])
		if err != nil {
			return fmt.Errorf("failed to store cards %d-%d: %w", i, end, err)
		}
		stats.Imported += n
	}
	return nil
}

// ReadBSON walks a mongodump file, passing each complete document to fn.
func ReadBSON(r io.Reader, fn func(doc []byte) error) error {
	reader := bufio.NewReader(r)
	lengthBytes := make([]byte, 4)
	for {
		if _, err := io.ReadFull(reader, lengthBytes); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("failed to read document length: %w", err)
		}
		length := int(binary.LittleEndian.Uint32(lengthBytes))
		if length < 5 {
			return fmt.Errorf("invalid bson document length %d", length)
		}
		if length > maxDocumentSize {
			return ErrDocumentTooLarge
		}

		doc := make([]byte, length)
		copy(doc, lengthBytes)
		if _, err := io.ReadFull(reader, doc[4:]); err != nil {
			return fmt.Errorf("failed to read document body: %w", err)
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
}

func convertCard(id int64, name, setID, rarity, supertype string) (cards.Card, bool) {
	name = strings.TrimSpace(name)
	if id <= 0 || name == "" || setID == "" {
		return cards.Card{}, false
	}
	r, ok := cards.ParseRarity(rarity)
	if !ok {
		return cards.Card{}, false
	}
	st, err := cards.ParseSupertype(supertype)
	if err != nil {
		return cards.Card{}, false
	}
	return cards.Card{ID: id, Name: name, SetID: setID, Rarity: r, Supertype: st}, true
}

func logStats(source string, s Stats) {
	slog.Info("Import finished",
		slog.String("type", "sys"),
		slog.String("source", source),
		slog.Int("read", s.Read),
		slog.Int("imported", s.Imported),
		slog.Int("skipped", s.Skipped),
		slog.Duration("took", s.Took))
}
