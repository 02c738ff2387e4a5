package commands

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/gohye/cardtrade/tradebot"
	"github.com/gohye/cardtrade/tradebot/config"
	"github.com/gohye/cardtrade/tradebot/handlers"
)

var Commands = []discord.ApplicationCommandCreate{
	Pack,
	Trade,
	Request,
	Room,
	Friend,
	Inbox,
	Collection,
}

type route struct {
	path string
	h    func(b *tradebot.Bot) handler.CommandHandler
}

var routes = []route{
	{"/pack/open", PackOpenHandler},
	{"/pack/tokens", PackTokensHandler},
	{"/trade/offer", TradeOfferHandler},
	{"/trade/accept", TradeActionHandler(actionAccept)},
	{"/trade/reject", TradeActionHandler(actionReject)},
	{"/trade/cancel", TradeActionHandler(actionCancel)},
	{"/trade/complete", TradeActionHandler(actionComplete)},
	{"/trade/cards", TradeCardsHandler},
	{"/trade/view", TradeViewHandler},
	{"/request/send", RequestSendHandler},
	{"/request/accept", RequestAcceptHandler},
	{"/request/reject", RequestRejectHandler},
	{"/room/invite", RoomInviteHandler},
	{"/room/accept", RoomAcceptHandler},
	{"/room/reject", RoomRejectHandler},
	{"/room/view", RoomViewHandler},
	{"/friend/add", FriendAddHandler},
	{"/inbox", InboxHandler},
	{"/collection", CollectionHandler},
}

// Register mounts every command and button handler on r.
func Register(r handler.Router, b *tradebot.Bot) {
	for _, rt := range routes {
		r.Command(rt.path, handlers.WrapWithLogging(rt.path[1:], registered(b, rt.h(b))))
	}
	r.Component("/trade-btn/{action}/{id}", handlers.WrapComponentWithLogging("trade-btn", TradeButtonHandler(b)))
}

// registered records the caller as a known user before running h, so other
// users can address them in trades.
func registered(b *tradebot.Bot, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()
		if err := b.Users.Register(ctx, e.User().ID.String(), e.User().Username); err != nil {
			return replyError(e, err)
		}
		return h(e)
	}
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
}
