package social

// Kind classifies a ledger failure. A Kind is itself an error so callers can
// match a whole class with errors.Is(err, social.KindConflict).
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindAuthorization
	KindConflict
	KindTransfer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	case KindTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

func (k Kind) Error() string { return k.String() + " error" }

// Error is a domain failure. Message is the stable text compatible callers
// match on; Err optionally carries the collaborator failure behind it.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the error's Kind, or another *Error with the same kind and message.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case *Error:
		return e.Kind == t.Kind && e.Message == t.Message
	}
	return false
}

var (
	ErrPostHashNotFound = newError(KindValidation, "PostHash Not Found")
	ErrCommentHashEmpty = newError(KindValidation, "Comment Hash Not Found")
	ErrInvalidTip       = newError(KindValidation, "Tip amount must be greater than zero")
	ErrEmptyCaller      = newError(KindValidation, "Caller address is empty")
	ErrTipTooLarge      = newError(KindValidation, "Tip amount exceeds the maximum")
	ErrTipTotalOverflow = newError(KindValidation, "Tip would overflow the post's tip total")

	ErrPostNotFound = newError(KindNotFound, "The post does not exist")

	ErrNotPostEditor  = newError(KindAuthorization, "Post can only be edited by owner")
	ErrNotPostDeleter = newError(KindAuthorization, "Post can only be deleted by owner")

	ErrAlreadyLiked    = newError(KindConflict, "User has Liked this Post Before")
	ErrAlreadyDisliked = newError(KindConflict, "User has DisLiked this Post Before")
	ErrPostDeleted     = newError(KindConflict, "Post has been deleted")
	ErrReentrantCall   = newError(KindConflict, "Reentrant call")
)

// ErrRewardTransfer wraps a failed reward payout.
func ErrRewardTransfer(err error) *Error {
	return &Error{Kind: KindTransfer, Message: "Reward transfer failed", Err: err}
}

// ErrTipTransfer wraps a failed tip payment.
func ErrTipTransfer(err error) *Error {
	return &Error{Kind: KindTransfer, Message: "Tip transfer failed", Err: err}
}
