package trading

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
)

const maxRoomCodeAttempts = 8

// ErrRoomCodeTaken is returned by a TradeRepository when a concurrent
// transaction claimed the same room code first.
var ErrRoomCodeTaken = stderrors.New("room code already in use")

var errRoomCodesExhausted = appErrors.Internal("could not allocate a free room code", nil)

// RoomService runs the friend invite flow that opens private trade rooms.
type RoomService struct {
	store    Store
	friends  FriendGraph
	notifier Notifier
	ids      *IDGenerator
	codes    RoomCodeGenerator
	now      func() time.Time
}

func NewRoomService(store Store, friends FriendGraph, notifier Notifier, ids *IDGenerator, codes RoomCodeGenerator) *RoomService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if codes == nil {
		codes = RandomRoomCodes{Length: DefaultRoomCodeLength}
	}
	return &RoomService{
		store:    store,
		friends:  friends,
		notifier: notifier,
		ids:      ids,
		codes:    codes,
		now:      time.Now,
	}
}

func (s *RoomService) Invite(ctx context.Context, from, to string) (*RoomInvite, error) {
	if from == to {
		return nil, appErrors.ErrSelfInvite
	}
	ok, err := s.friends.AreFriends(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErrors.ErrNotFriends
	}

	now := s.now()
	inv := &RoomInvite{
		ID:         s.ids.Next(),
		FromUserID: from,
		ToUserID:   to,
		Status:     InvitePending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		pending, err := tx.Invites().PendingBetween(ctx, from, to)
		if err != nil {
			return err
		}
		if pending {
			return appErrors.ErrDuplicateInvite
		}
		return tx.Invites().Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, Event{
		Type:        EventInviteReceived,
		RecipientID: to,
		ActorID:     from,
		InviteID:    inv.ID,
		At:          now,
	})
	return inv, nil
}

// Accept opens a private trade room for an invite. A room code clash with a
// concurrent transaction restarts the whole transaction with a fresh code.
func (s *RoomService) Accept(ctx context.Context, inviteID snowflake.ID, actor string) (*RoomInvite, *Trade, error) {
	var (
		inv   *RoomInvite
		trade *Trade
		err   error
	)
	for attempt := 0; attempt < maxRoomCodeAttempts; attempt++ {
		inv, trade, err = s.accept(ctx, inviteID, actor)
		if !stderrors.Is(err, ErrRoomCodeTaken) {
			break
		}
	}
	if stderrors.Is(err, ErrRoomCodeTaken) {
		err = errRoomCodesExhausted
	}
	if err != nil {
		return nil, nil, err
	}

	slog.Info("Trade room opened",
		slog.String("type", "trade"),
		slog.String("invite_id", inv.ID.String()),
		slog.String("trade_id", trade.ID.String()),
		slog.String("room_code", trade.PrivateRoomCode))
	s.notifier.Notify(ctx, Event{
		Type:        EventInviteAccepted,
		RecipientID: inv.FromUserID,
		ActorID:     actor,
		InviteID:    inv.ID,
		TradeID:     trade.ID,
		RoomCode:    trade.PrivateRoomCode,
		At:          inv.UpdatedAt,
	})
	return inv, trade, nil
}

func (s *RoomService) accept(ctx context.Context, inviteID snowflake.ID, actor string) (*RoomInvite, *Trade, error) {
	var (
		inv   *RoomInvite
		trade *Trade
	)
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		i, err := s.lockAnswerable(ctx, tx, inviteID, actor, InviteAccepted)
		if err != nil {
			return err
		}
		code, err := s.freeCode(ctx, tx)
		if err != nil {
			return err
		}
		now := s.now()
		t := &Trade{
			ID:              s.ids.Next(),
			InitiatorUserID: i.FromUserID,
			ReceiverUserID:  i.ToUserID,
			InitiatorCards:  []CardRef{},
			ReceiverCards:   []CardRef{},
			TradeType:       TradePrivate,
			Status:          TradePending,
			PrivateRoomCode: code,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.Trades().Create(ctx, t); err != nil {
			return err
		}
		i.Status = InviteAccepted
		i.TradeID = &t.ID
		i.PrivateRoomCode = code
		i.UpdatedAt = now
		if err := tx.Invites().Update(ctx, i); err != nil {
			return err
		}
		inv, trade = i, t
		return nil
	})
	return inv, trade, err
}

func (s *RoomService) freeCode(ctx context.Context, tx Tx) (string, error) {
	for attempt := 0; attempt < maxRoomCodeAttempts; attempt++ {
		code, err := s.codes.Generate()
		if err != nil {
			return "", err
		}
		used, err := tx.Trades().RoomCodeInUse(ctx, code)
		if err != nil {
			return "", err
		}
		if !used {
			return code, nil
		}
	}
	return "", errRoomCodesExhausted
}

func (s *RoomService) Reject(ctx context.Context, inviteID snowflake.ID, actor string) (*RoomInvite, error) {
	var inv *RoomInvite
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		i, err := s.lockAnswerable(ctx, tx, inviteID, actor, InviteRejected)
		if err != nil {
			return err
		}
		i.Status = InviteRejected
		i.UpdatedAt = s.now()
		if err := tx.Invites().Update(ctx, i); err != nil {
			return err
		}
		inv = i
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, Event{
		Type:        EventInviteRejected,
		RecipientID: inv.FromUserID,
		ActorID:     actor,
		InviteID:    inv.ID,
		At:          inv.UpdatedAt,
	})
	return inv, nil
}

func (s *RoomService) lockAnswerable(ctx context.Context, tx Tx, id snowflake.ID, actor string, to InviteStatus) (*RoomInvite, error) {
	i, err := tx.Invites().Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor != i.ToUserID {
		return nil, appErrors.Forbidden("only the invitee may answer a room invite")
	}
	if i.Status != InvitePending {
		return nil, appErrors.InvalidTransition(string(i.Status), string(to))
	}
	return i, nil
}
