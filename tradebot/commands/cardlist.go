package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gohye/cardtrade/internal/domain/cards"
	"github.com/gohye/cardtrade/internal/domain/trading"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
)

type cardQuery struct {
	Name     string
	Quantity int64
}

// parseCardList reads "Pikachu x2, Charizard" into name and quantity pairs.
// A missing quantity means one copy.
func parseCardList(input string) ([]cardQuery, error) {
	var out []cardQuery
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		q := cardQuery{Name: part, Quantity: 1}
		if i := strings.LastIndex(part, " x"); i > 0 {
			if n, err := strconv.ParseInt(part[i+2:], 10, 64); err == nil {
				if n <= 0 {
					return nil, appErrors.Newf(appErrors.CodeInvalidArgument, "quantity for %q must be positive", part[:i])
				}
				q.Name = strings.TrimSpace(part[:i])
				q.Quantity = n
			}
		}
		out = append(out, q)
	}
	return out, nil
}

// resolveCards turns typed card names into references, using the catalog's
// fuzzy name lookup.
func resolveCards(ctx context.Context, svc cards.Service, input string) ([]trading.CardRef, []*cards.Card, error) {
	queries, err := parseCardList(input)
	if err != nil {
		return nil, nil, err
	}

	refs := make([]trading.CardRef, 0, len(queries))
	found := make([]*cards.Card, 0, len(queries))
	for _, q := range queries {
		card, err := svc.FindByName(ctx, q.Name)
		if errors.Is(err, cards.ErrNoMatch) {
			return nil, nil, appErrors.Wrap(appErrors.CodeNotFound, fmt.Sprintf("no card matches %q", q.Name), err)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve %q: %w", q.Name, err)
		}
		refs = append(refs, trading.CardRef{CardID: card.ID, Quantity: q.Quantity})
		found = append(found, card)
	}
	return refs, found, nil
}

func formatRefs(ctx context.Context, svc cards.Service, refs []trading.CardRef) string {
	if len(refs) == 0 {
		return "*nothing*"
	}
	var sb strings.Builder
	for _, r := range refs {
		name := fmt.Sprintf("#%d", r.CardID)
		if card, err := svc.Card(ctx, r.CardID); err == nil {
			name = fmt.Sprintf("%s [%s]", card.Name, card.Rarity)
		}
		fmt.Fprintf(&sb, "• %s ×%d\n", name, r.Quantity)
	}
	return sb.String()
}
