package repositories

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/gohye/cardtrade/internal/domain/trading"
	"github.com/gohye/cardtrade/internal/gateways/database/models"
)

func refsToModel(refs []trading.CardRef) []models.CardRef {
	out := make([]models.CardRef, 0, len(refs))
	for _, r := range refs {
		out = append(out, models.CardRef{CardID: r.CardID, Quantity: r.Quantity})
	}
	return out
}

func refsFromModel(refs []models.CardRef) []trading.CardRef {
	out := make([]trading.CardRef, 0, len(refs))
	for _, r := range refs {
		out = append(out, trading.CardRef{CardID: r.CardID, Quantity: r.Quantity})
	}
	return out
}

func refToModel(r *trading.CardRef) *models.CardRef {
	if r == nil {
		return nil
	}
	return &models.CardRef{CardID: r.CardID, Quantity: r.Quantity}
}

func refFromModel(r *models.CardRef) *trading.CardRef {
	if r == nil {
		return nil
	}
	return &trading.CardRef{CardID: r.CardID, Quantity: r.Quantity}
}

func idToModel(id *snowflake.ID) *int64 {
	if id == nil {
		return nil
	}
	v := int64(*id)
	return &v
}

func idFromModel(v *int64) *snowflake.ID {
	if v == nil {
		return nil
	}
	id := snowflake.ID(*v)
	return &id
}

func tradeToModel(t *trading.Trade) *models.Trade {
	return &models.Trade{
		ID:              int64(t.ID),
		InitiatorUserID: t.InitiatorUserID,
		ReceiverUserID:  t.ReceiverUserID,
		InitiatorCards:  refsToModel(t.InitiatorCards),
		ReceiverCards:   refsToModel(t.ReceiverCards),
		TradeType:       string(t.TradeType),
		Status:          string(t.Status),
		PrivateRoomCode: t.PrivateRoomCode,
		RequestID:       idToModel(t.RequestID),
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func tradeFromModel(m *models.Trade) *trading.Trade {
	return &trading.Trade{
		ID:              snowflake.ID(m.ID),
		InitiatorUserID: m.InitiatorUserID,
		ReceiverUserID:  m.ReceiverUserID,
		InitiatorCards:  refsFromModel(m.InitiatorCards),
		ReceiverCards:   refsFromModel(m.ReceiverCards),
		TradeType:       trading.TradeType(m.TradeType),
		Status:          trading.TradeStatus(m.Status),
		PrivateRoomCode: m.PrivateRoomCode,
		RequestID:       idFromModel(m.RequestID),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func requestToModel(r *trading.TradeRequest) *models.TradeRequest {
	return &models.TradeRequest{
		ID:         int64(r.ID),
		FromUserID: r.FromUserID,
		ToUserID:   r.ToUserID,
		Offer:      refToModel(r.Offer),
		Want:       refToModel(r.Want),
		WantCardID: r.Key().WantCardID,
		IsManual:   r.IsManual,
		Note:       r.Note,
		Status:     string(r.Status),
		TradeID:    idToModel(r.TradeID),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func requestFromModel(m *models.TradeRequest) *trading.TradeRequest {
	return &trading.TradeRequest{
		ID:         snowflake.ID(m.ID),
		FromUserID: m.FromUserID,
		ToUserID:   m.ToUserID,
		Offer:      refFromModel(m.Offer),
		Want:       refFromModel(m.Want),
		IsManual:   m.IsManual,
		Note:       m.Note,
		Status:     trading.RequestStatus(m.Status),
		TradeID:    idFromModel(m.TradeID),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func inviteToModel(i *trading.RoomInvite) *models.RoomInvite {
	return &models.RoomInvite{
		ID:              int64(i.ID),
		FromUserID:      i.FromUserID,
		ToUserID:        i.ToUserID,
		Status:          string(i.Status),
		TradeID:         idToModel(i.TradeID),
		PrivateRoomCode: i.PrivateRoomCode,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

func inviteFromModel(m *models.RoomInvite) *trading.RoomInvite {
	return &trading.RoomInvite{
		ID:              snowflake.ID(m.ID),
		FromUserID:      m.FromUserID,
		ToUserID:        m.ToUserID,
		Status:          trading.InviteStatus(m.Status),
		TradeID:         idFromModel(m.TradeID),
		PrivateRoomCode: m.PrivateRoomCode,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
