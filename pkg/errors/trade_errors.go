package errors

var (
	ErrNotFound              = NotFound("not found")
	ErrRecipientNotFound     = New(CodeRecipientNotFound, "recipient not found")
	ErrForbidden             = Forbidden("caller is not a participant")
	ErrInvalidTransition     = New(CodeInvalidTransition, "invalid state transition")
	ErrDuplicateRequest      = New(CodeDuplicateRequest, "an equivalent trade request is already pending")
	ErrDuplicateInvite       = New(CodeDuplicateInvite, "a room invite is already pending between these users")
	ErrSelfTradeNotAllowed   = New(CodeSelfTradeNotAllowed, "you cannot trade with yourself")
	ErrSelfInvite            = New(CodeSelfInvite, "you cannot invite yourself")
	ErrNotFriends            = New(CodeNotFriends, "users are not friends")
	ErrInsufficientOwnership = New(CodeInsufficientOwnership, "insufficient card ownership")
	ErrRateLimited           = New(CodeRateLimited, "no pack tokens left")
	ErrInvalidArgument       = InvalidArg("invalid argument")
)

func ErrInsufficient(ownerID string, cardID, has, needs int64) error {
	return Newf(CodeInsufficientOwnership, "%s owns %d of card %d, needs %d", ownerID, has, cardID, needs)
}

func ErrEntityNotFound(entity string, id any) error {
	return Newf(CodeNotFound, "%s %v not found", entity, id)
}
