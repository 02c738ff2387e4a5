package trading

import (
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
)

const maxNoteLength = 200

// CardRef names a quantity of one catalog card.
type CardRef struct {
	CardID   int64 `json:"card_id"`
	Quantity int64 `json:"quantity"`
}

func (r CardRef) Validate() error {
	if r.CardID <= 0 {
		return appErrors.Newf(appErrors.CodeInvalidArgument, "card reference has invalid card id %d", r.CardID)
	}
	if r.Quantity <= 0 {
		return appErrors.Newf(appErrors.CodeInvalidArgument, "card reference %d has invalid quantity %d", r.CardID, r.Quantity)
	}
	return nil
}

func ValidateRefs(refs []CardRef) error {
	for _, r := range refs {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AggregateRefs sums quantities per card, keeping first-seen order.
func AggregateRefs(refs []CardRef) []CardRef {
	index := make(map[int64]int, len(refs))
	out := make([]CardRef, 0, len(refs))
	for _, r := range refs {
		if i, ok := index[r.CardID]; ok {
			out[i].Quantity += r.Quantity
			continue
		}
		index[r.CardID] = len(out)
		out = append(out, r)
	}
	return out
}

type TradeType string

const (
	TradePublic  TradeType = "public"
	TradePrivate TradeType = "private"
)

type Trade struct {
	ID              snowflake.ID
	InitiatorUserID string
	ReceiverUserID  string
	InitiatorCards  []CardRef
	ReceiverCards   []CardRef
	TradeType       TradeType
	Status          TradeStatus
	PrivateRoomCode string
	RequestID       *snowflake.ID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (t *Trade) IsParticipant(userID string) bool {
	return userID == t.InitiatorUserID || userID == t.ReceiverUserID
}

// Counterparty returns the other participant.
func (t *Trade) Counterparty(userID string) string {
	if userID == t.InitiatorUserID {
		return t.ReceiverUserID
	}
	return t.InitiatorUserID
}

func (t *Trade) Clone() *Trade {
	c := *t
	c.InitiatorCards = append([]CardRef(nil), t.InitiatorCards...)
	c.ReceiverCards = append([]CardRef(nil), t.ReceiverCards...)
	if t.RequestID != nil {
		id := *t.RequestID
		c.RequestID = &id
	}
	return &c
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// Proposal is what a user sends with a trade request. Manual requests carry
// a free-form note instead of (or in addition to) card references.
type Proposal struct {
	Offer    *CardRef
	Want     *CardRef
	IsManual bool
	Note     string
}

func (p Proposal) Validate() error {
	if p.Offer != nil {
		if err := p.Offer.Validate(); err != nil {
			return err
		}
	}
	if p.Want != nil {
		if err := p.Want.Validate(); err != nil {
			return err
		}
	}
	note := strings.TrimSpace(p.Note)
	if len(note) > maxNoteLength {
		return appErrors.Newf(appErrors.CodeInvalidArgument, "note exceeds %d characters", maxNoteLength)
	}
	if p.IsManual && note == "" {
		return appErrors.InvalidArg("manual requests need a note")
	}
	if !p.IsManual && p.Offer == nil && p.Want == nil {
		return appErrors.InvalidArg("proposal names no cards")
	}
	return nil
}

type TradeRequest struct {
	ID         snowflake.ID
	FromUserID string
	ToUserID   string
	Offer      *CardRef
	Want       *CardRef
	IsManual   bool
	Note       string
	Status     RequestStatus
	TradeID    *snowflake.ID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RequestKey is the de-duplication identity of a pending request.
type RequestKey struct {
	FromUserID string
	ToUserID   string
	WantCardID int64
	IsManual   bool
	Note       string
}

func (r *TradeRequest) Key() RequestKey {
	var want int64
	if r.Want != nil {
		want = r.Want.CardID
	}
	return RequestKey{
		FromUserID: r.FromUserID,
		ToUserID:   r.ToUserID,
		WantCardID: want,
		IsManual:   r.IsManual,
		Note:       r.Note,
	}
}

func (k RequestKey) String() string {
	return fmt.Sprintf("%s->%s want=%d manual=%t note=%q", k.FromUserID, k.ToUserID, k.WantCardID, k.IsManual, k.Note)
}

type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteRejected InviteStatus = "rejected"
)

type RoomInvite struct {
	ID              snowflake.ID
	FromUserID      string
	ToUserID        string
	Status          InviteStatus
	TradeID         *snowflake.ID
	PrivateRoomCode string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
