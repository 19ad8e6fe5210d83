package social

import "time"

// Address identifies an account: a post author, a reacting user, or a token holder.
type Address string

// Post is one entry in the ledger. Posts are never physically removed;
// DeletePost only sets Deleted.
type Post struct {
	ID           int64
	Author       Address
	Fingerprint  string // opaque handle to off-ledger content
	Deleted      bool
	LikeCount    int64
	CommentCount int64
	TipTotal     uint64
	CreatedAt    time.Time
}

// Reaction is a user's state against a single post.
type Reaction int

const (
	ReactionNone Reaction = iota
	ReactionLiked
	ReactionDisliked
)

func (r Reaction) String() string {
	switch r {
	case ReactionLiked:
		return "liked"
	case ReactionDisliked:
		return "disliked"
	default:
		return "none"
	}
}

// Comment is an append-only remark on a post.
type Comment struct {
	ID          int64
	PostID      int64
	Author      Address
	Fingerprint string
	CreatedAt   time.Time
}

// Tip records one value transfer from a sender to a post's author.
type Tip struct {
	PostID    int64
	Sender    Address
	Recipient Address
	Amount    uint64
	CreatedAt time.Time
}

// Payout records one reward paid by the ledger.
type Payout struct {
	ID        int64
	Account   Address
	Action    Action
	PostID    int64
	Amount    uint64
	CreatedAt time.Time
}

// EventKind names a domain event.
type EventKind string

const (
	EventPostCreated  EventKind = "PostCreated"
	EventPostEdited   EventKind = "PostEdited"
	EventPostDeleted  EventKind = "PostDeleted"
	EventPostLiked    EventKind = "PostLiked"
	EventPostDisliked EventKind = "PostDisliked"
	EventCommentAdded EventKind = "CommentAdded"
	EventPostTipped   EventKind = "PostTipped"
)

// Event is emitted once per successful mutation. Seq is assigned by the
// ledger when the event is stored; ID is unique across ledgers.
type Event struct {
	Seq         int64     `json:"seq"`
	ID          string    `json:"id"`
	Kind        EventKind `json:"kind"`
	PostID      int64     `json:"post_id"`
	Account     Address   `json:"account"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Amount      uint64    `json:"amount,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// FetchOptions controls which posts FetchPosts returns.
type FetchOptions struct {
	IncludeDeleted bool
}
