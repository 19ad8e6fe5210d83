package social

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DeletedPostPolicy decides whether reactions and comments may target a
// tombstoned post. Tips on deleted posts are always refused.
type DeletedPostPolicy string

const (
	DeletedPostsOpen   DeletedPostPolicy = "open"
	DeletedPostsClosed DeletedPostPolicy = "closed"
)

// SocialService is the single entry point to the ledger. Every operation
// runs validation, authorization, state mutation, the external token call
// and event recording, in that order, inside one ledger transaction. If any
// step fails the transaction is discarded and nothing is emitted.
//
// Calls are serialized by one mutex. A collaborator that calls back into
// the service while it is paying out is refused with ErrReentrantCall, but
// only if it passes on the ctx it was given. A callback on a fresh context
// (context.Background()) blocks forever on the mutex, so TokenClient and
// Wallet implementations must thread ctx through.
type SocialService struct {
	ledger Ledger
	events EventSink
	logger Logger
	clock  Clock
	idgen  IDGenerator

	posts     postLedger
	reactions reactionTracker
	comments  commentLog
	tips      tipRouter
	rewards   rewardPayer

	mu sync.Mutex
}

// NewSocialService creates a SocialService with the provided dependencies.
// The reward policy is fixed for the lifetime of the service.
func NewSocialService(ledger Ledger, token TokenClient, wallet Wallet, rewards RewardPolicy, events EventSink, logger Logger, clock Clock, idgen IDGenerator, deleted DeletedPostPolicy) *SocialService {
	return &SocialService{
		ledger:    ledger,
		events:    events,
		logger:    logger,
		clock:     clock,
		idgen:     idgen,
		reactions: reactionTracker{closedOnDelete: deleted == DeletedPostsClosed},
		comments:  commentLog{closedOnDelete: deleted == DeletedPostsClosed},
		tips:      tipRouter{wallet: wallet},
		rewards:   rewardPayer{policy: rewards, token: token},
	}
}

// txScope carries one operation's transaction, timestamp and pending events.
type txScope struct {
	ctx    context.Context
	tx     LedgerTx
	now    time.Time
	idgen  IDGenerator
	events []*Event
}

// emit stores an event in the ledger. It becomes visible to the sink only
// after the transaction commits.
func (sc *txScope) emit(kind EventKind, postID int64, account Address, fingerprint string, amount uint64) error {
	e := &Event{
		ID:          sc.idgen.New(),
		Kind:        kind,
		PostID:      postID,
		Account:     account,
		Fingerprint: fingerprint,
		Amount:      amount,
		CreatedAt:   sc.now,
	}
	if err := sc.tx.AppendEvent(sc.ctx, e); err != nil {
		return fmt.Errorf("recording %s event: %w", kind, err)
	}
	sc.events = append(sc.events, e)
	return nil
}

type inFlightKey struct{}

// enter takes the service lock. It refuses a context that is already inside
// a call on this service, which would otherwise deadlock.
func (s *SocialService) enter(ctx context.Context) (context.Context, func(), error) {
	if owner, _ := ctx.Value(inFlightKey{}).(*SocialService); owner == s {
		return nil, nil, ErrReentrantCall
	}
	s.mu.Lock()
	return context.WithValue(ctx, inFlightKey{}, s), s.mu.Unlock, nil
}

// mutate runs fn in a write transaction and publishes its events once the
// transaction has committed.
func (s *SocialService) mutate(ctx context.Context, fn func(sc *txScope) error) error {
	ctx, leave, err := s.enter(ctx)
	if err != nil {
		return err
	}
	defer leave()

	var committed []*Event
	err = s.ledger.Update(ctx, func(tx LedgerTx) error {
		sc := &txScope{ctx: ctx, tx: tx, now: s.clock.Now(), idgen: s.idgen}
		if err := fn(sc); err != nil {
			return err
		}
		committed = sc.events
		return nil
	})
	if err != nil {
		return err
	}

	if len(committed) > 0 {
		if err := s.events.Publish(ctx, committed); err != nil {
			s.logger.Warn("publishing events failed", "count", len(committed), "error", err)
		}
	}
	return nil
}

// view runs fn in a read transaction.
func (s *SocialService) view(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error {
	ctx, leave, err := s.enter(ctx)
	if err != nil {
		return err
	}
	defer leave()

	return s.ledger.View(ctx, func(tx LedgerTx) error {
		return fn(ctx, tx)
	})
}

func checkCaller(caller Address) error {
	if caller == "" {
		return ErrEmptyCaller
	}
	return nil
}

// CreatePost stores a new post by author and pays the post reward.
// Returns the new post's ID.
func (s *SocialService) CreatePost(ctx context.Context, author Address, fingerprint string) (int64, error) {
	if err := checkCaller(author); err != nil {
		return 0, err
	}
	if fingerprint == "" {
		return 0, ErrPostHashNotFound
	}

	var id int64
	err := s.mutate(ctx, func(sc *txScope) error {
		post, err := s.posts.create(sc, author, fingerprint)
		if err != nil {
			return err
		}
		if err := s.rewards.pay(sc, author, ActionPost, post.ID); err != nil {
			return err
		}
		id = post.ID
		return sc.emit(EventPostCreated, post.ID, author, fingerprint, 0)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("post created", "id", id, "author", string(author))
	return id, nil
}

// EditPost replaces the fingerprint of a post. Only the author may edit, and
// reactions, comments and tips are kept.
func (s *SocialService) EditPost(ctx context.Context, caller Address, id int64, fingerprint string) error {
	if err := checkCaller(caller); err != nil {
		return err
	}
	if fingerprint == "" {
		return ErrPostHashNotFound
	}

	err := s.mutate(ctx, func(sc *txScope) error {
		if err := s.posts.edit(sc, caller, id, fingerprint); err != nil {
			return err
		}
		return sc.emit(EventPostEdited, id, caller, fingerprint, 0)
	})
	if err != nil {
		return err
	}

	s.logger.Info("post edited", "id", id)
	return nil
}

// DeletePost tombstones a post. Only the author may delete. Rewards already
// paid are not reclaimed.
func (s *SocialService) DeletePost(ctx context.Context, caller Address, id int64) error {
	if err := checkCaller(caller); err != nil {
		return err
	}

	err := s.mutate(ctx, func(sc *txScope) error {
		if err := s.posts.remove(sc, caller, id); err != nil {
			return err
		}
		return sc.emit(EventPostDeleted, id, caller, "", 0)
	})
	if err != nil {
		return err
	}

	s.logger.Info("post deleted", "id", id)
	return nil
}

// LikePost records caller's like on a post and pays the like reward.
func (s *SocialService) LikePost(ctx context.Context, caller Address, id int64) error {
	if err := checkCaller(caller); err != nil {
		return err
	}

	err := s.mutate(ctx, func(sc *txScope) error {
		if err := s.reactions.like(sc, caller, id); err != nil {
			return err
		}
		if err := s.rewards.pay(sc, caller, ActionLike, id); err != nil {
			return err
		}
		return sc.emit(EventPostLiked, id, caller, "", 0)
	})
	if err != nil {
		return err
	}

	s.logger.Info("post liked", "id", id, "account", string(caller))
	return nil
}

// DislikePost records caller's dislike on a post, withdrawing a prior like.
// Disliking is not rewarded.
func (s *SocialService) DislikePost(ctx context.Context, caller Address, id int64) error {
	if err := checkCaller(caller); err != nil {
		return err
	}

	err := s.mutate(ctx, func(sc *txScope) error {
		if err := s.reactions.dislike(sc, caller, id); err != nil {
			return err
		}
		return sc.emit(EventPostDisliked, id, caller, "", 0)
	})
	if err != nil {
		return err
	}

	s.logger.Info("post disliked", "id", id, "account", string(caller))
	return nil
}

// CommentPost appends a comment to a post and pays the comment reward.
func (s *SocialService) CommentPost(ctx context.Context, caller Address, postID int64, fingerprint string) error {
	if err := checkCaller(caller); err != nil {
		return err
	}
	if fingerprint == "" {
		return ErrCommentHashEmpty
	}

	err := s.mutate(ctx, func(sc *txScope) error {
		if err := s.comments.append(sc, caller, postID, fingerprint); err != nil {
			return err
		}
		if err := s.rewards.pay(sc, caller, ActionComment, postID); err != nil {
			return err
		}
		return sc.emit(EventCommentAdded, postID, caller, fingerprint, 0)
	})
	if err != nil {
		return err
	}

	s.logger.Info("comment added", "post_id", postID, "account", string(caller))
	return nil
}

// TipPost sends amount from caller to the post's author and adds it to the
// post's tip total. Tipping one's own post is allowed.
func (s *SocialService) TipPost(ctx context.Context, caller Address, postID int64, amount uint64) error {
	if err := checkCaller(caller); err != nil {
		return err
	}
	if amount == 0 {
		return ErrInvalidTip
	}
	if amount > MaxAmount {
		return ErrTipTooLarge
	}

	err := s.mutate(ctx, func(sc *txScope) error {
		if err := s.tips.tip(sc, caller, postID, amount); err != nil {
			return err
		}
		return sc.emit(EventPostTipped, postID, caller, "", amount)
	})
	if err != nil {
		return err
	}

	s.logger.Info("post tipped", "post_id", postID, "account", string(caller), "amount", amount)
	return nil
}

// GetPostCount returns the number of posts ever created, deleted included.
func (s *SocialService) GetPostCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.view(ctx, func(ctx context.Context, tx LedgerTx) error {
		var err error
		n, err = tx.CountPosts(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("counting posts: %w", err)
	}
	return n, nil
}

// GetLikeCount returns the number of accounts currently liking a post.
func (s *SocialService) GetLikeCount(ctx context.Context, id int64) (int64, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return 0, err
	}
	return post.LikeCount, nil
}

// GetPost returns a single post, deleted or not.
func (s *SocialService) GetPost(ctx context.Context, id int64) (*Post, error) {
	s.logger.Debug("fetching post", "id", id)

	var post *Post
	err := s.view(ctx, func(ctx context.Context, tx LedgerTx) error {
		p, err := tx.GetPost(ctx, id)
		if err != nil {
			return fmt.Errorf("loading post: %w", err)
		}
		if p == nil {
			return ErrPostNotFound
		}
		post = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// FetchPosts returns a snapshot of the ledger ordered by ID ascending.
// The cost is linear in the number of posts ever created.
func (s *SocialService) FetchPosts(ctx context.Context, opts FetchOptions) ([]*Post, error) {
	s.logger.Debug("fetching posts", "include_deleted", opts.IncludeDeleted)

	var posts []*Post
	err := s.view(ctx, func(ctx context.Context, tx LedgerTx) error {
		var err error
		posts, err = tx.ListPosts(ctx, opts.IncludeDeleted)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching posts: %w", err)
	}
	return posts, nil
}

// GetComments returns a post's comments oldest first.
func (s *SocialService) GetComments(ctx context.Context, postID int64) ([]*Comment, error) {
	var comments []*Comment
	err := s.view(ctx, func(ctx context.Context, tx LedgerTx) error {
		p, err := tx.GetPost(ctx, postID)
		if err != nil {
			return fmt.Errorf("loading post: %w", err)
		}
		if p == nil {
			return ErrPostNotFound
		}
		comments, err = tx.ListComments(ctx, postID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// GetReaction returns account's current reaction to a post.
func (s *SocialService) GetReaction(ctx context.Context, postID int64, account Address) (Reaction, error) {
	var r Reaction
	err := s.view(ctx, func(ctx context.Context, tx LedgerTx) error {
		p, err := tx.GetPost(ctx, postID)
		if err != nil {
			return fmt.Errorf("loading post: %w", err)
		}
		if p == nil {
			return ErrPostNotFound
		}
		r, err = tx.GetReaction(ctx, postID, account)
		return err
	})
	if err != nil {
		return ReactionNone, err
	}
	return r, nil
}

// ListEvents returns stored events with Seq greater than afterSeq, oldest first.
func (s *SocialService) ListEvents(ctx context.Context, afterSeq int64, limit int) ([]*Event, error) {
	var events []*Event
	err := s.view(ctx, func(ctx context.Context, tx LedgerTx) error {
		var err error
		events, err = tx.ListEvents(ctx, afterSeq, limit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

// ListPayouts returns every reward paid to account. An empty account lists all payouts.
func (s *SocialService) ListPayouts(ctx context.Context, account Address) ([]*Payout, error) {
	var payouts []*Payout
	err := s.view(ctx, func(ctx context.Context, tx LedgerTx) error {
		var err error
		payouts, err = tx.ListPayouts(ctx, account)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing payouts: %w", err)
	}
	return payouts, nil
}

// Rewards returns the payout rates the service was constructed with.
func (s *SocialService) Rewards() RewardPolicy {
	return s.rewards.policy
}
