package social

import (
	"context"
	"time"
)

// Ledger provides transactional storage for posts, reactions, comments,
// tips, payouts and events.
type Ledger interface {
	// Update runs fn inside a write transaction. The transaction commits only
	// if fn returns nil; any error discards every write fn made.
	Update(ctx context.Context, fn func(tx LedgerTx) error) error

	// View runs fn inside a read-only transaction.
	View(ctx context.Context, fn func(tx LedgerTx) error) error

	// Close closes the underlying storage.
	Close() error
}

// LedgerTx is the set of operations available inside a transaction.
// Lookups return nil (and a nil error) when the record does not exist.
type LedgerTx interface {
	// Post operations

	// InsertPost stores a new post and returns its ID. IDs are dense: the
	// first post is 1 and each insert takes the next integer.
	InsertPost(ctx context.Context, post *Post) (int64, error)

	// GetPost returns a post by ID, deleted or not.
	GetPost(ctx context.Context, id int64) (*Post, error)

	// ListPosts returns posts ordered by ID ascending.
	ListPosts(ctx context.Context, includeDeleted bool) ([]*Post, error)

	// CountPosts returns the number of posts ever created.
	CountPosts(ctx context.Context) (int64, error)

	UpdatePostFingerprint(ctx context.Context, id int64, fingerprint string) error
	MarkPostDeleted(ctx context.Context, id int64) error

	// AdjustLikeCount adds delta to the post's like count. A result below
	// zero is rejected.
	AdjustLikeCount(ctx context.Context, id int64, delta int64) error

	// Reaction operations

	// GetReaction returns ReactionNone when the account never reacted.
	GetReaction(ctx context.Context, postID int64, account Address) (Reaction, error)
	SetReaction(ctx context.Context, postID int64, account Address, r Reaction, at time.Time) error

	// Comment operations

	// InsertComment appends a comment and bumps the post's comment count.
	InsertComment(ctx context.Context, c *Comment) (int64, error)
	ListComments(ctx context.Context, postID int64) ([]*Comment, error)

	// Tip operations

	// InsertTip records a tip and adds its amount to the post's tip total.
	InsertTip(ctx context.Context, tip *Tip) error

	// Reward accounting

	InsertPayout(ctx context.Context, p *Payout) error
	ListPayouts(ctx context.Context, account Address) ([]*Payout, error)

	// Events

	// AppendEvent stores the event and sets its Seq.
	AppendEvent(ctx context.Context, e *Event) error
	ListEvents(ctx context.Context, afterSeq int64, limit int) ([]*Event, error)
}
