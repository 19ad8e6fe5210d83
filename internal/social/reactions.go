package social

import "fmt"

// reactionTracker keeps at most one active reaction per account per post and
// keeps each post's like count equal to its number of Liked records.
//
//	None     --like-->    Liked
//	None     --dislike--> Disliked
//	Liked    --dislike--> Disliked   (like count -1)
//	Disliked --like-->    Liked      (like count +1)
//
// Disliked -> Liked pays the like reward again, so alternating like and
// dislike farms rewards. Whether a re-like should pay is an open product question.
type reactionTracker struct {
	closedOnDelete bool
}

func (r reactionTracker) current(sc *txScope, account Address, postID int64) (Reaction, error) {
	post, err := loadPost(sc, postID)
	if err != nil {
		return ReactionNone, err
	}
	if r.closedOnDelete && post.Deleted {
		return ReactionNone, ErrPostDeleted
	}
	state, err := sc.tx.GetReaction(sc.ctx, postID, account)
	if err != nil {
		return ReactionNone, fmt.Errorf("loading reaction: %w", err)
	}
	return state, nil
}

func (r reactionTracker) like(sc *txScope, account Address, postID int64) error {
	state, err := r.current(sc, account, postID)
	if err != nil {
		return err
	}
	if state == ReactionLiked {
		return ErrAlreadyLiked
	}
	if err := sc.tx.SetReaction(sc.ctx, postID, account, ReactionLiked, sc.now); err != nil {
		return fmt.Errorf("recording like: %w", err)
	}
	if err := sc.tx.AdjustLikeCount(sc.ctx, postID, 1); err != nil {
		return fmt.Errorf("incrementing like count: %w", err)
	}
	return nil
}

func (r reactionTracker) dislike(sc *txScope, account Address, postID int64) error {
	state, err := r.current(sc, account, postID)
	if err != nil {
		return err
	}
	if state == ReactionDisliked {
		return ErrAlreadyDisliked
	}
	if err := sc.tx.SetReaction(sc.ctx, postID, account, ReactionDisliked, sc.now); err != nil {
		return fmt.Errorf("recording dislike: %w", err)
	}
	if state == ReactionLiked {
		if err := sc.tx.AdjustLikeCount(sc.ctx, postID, -1); err != nil {
			return fmt.Errorf("decrementing like count: %w", err)
		}
	}
	return nil
}
