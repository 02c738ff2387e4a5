package errors

type Code string

const (
	CodeUnknown               Code = "UNKNOWN"
	CodeInvalidArgument       Code = "INVALID_ARGUMENT"
	CodeNotFound              Code = "NOT_FOUND"
	CodeRecipientNotFound     Code = "RECIPIENT_NOT_FOUND"
	CodeForbidden             Code = "FORBIDDEN"
	CodeInvalidTransition     Code = "INVALID_TRANSITION"
	CodeDuplicateRequest      Code = "DUPLICATE_REQUEST"
	CodeDuplicateInvite       Code = "DUPLICATE_INVITE"
	CodeSelfTradeNotAllowed   Code = "SELF_TRADE_NOT_ALLOWED"
	CodeSelfInvite            Code = "SELF_INVITE"
	CodeNotFriends            Code = "NOT_FRIENDS"
	CodeInsufficientOwnership Code = "INSUFFICIENT_OWNERSHIP"
	CodeRateLimited           Code = "RATE_LIMITED"
	CodeInternal              Code = "INTERNAL"
)
