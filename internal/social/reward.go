package social

import (
	"fmt"
	"math"
)

// MaxAmount is the largest tip, reward rate or running total the ledger stores.
const MaxAmount uint64 = math.MaxInt64

// Action is a rewarded (or unrewarded) participant action.
type Action string

const (
	ActionPost    Action = "post"
	ActionLike    Action = "like"
	ActionComment Action = "comment"
)

// RewardPolicy holds the payout rates fixed when the ledger is constructed.
// The zero value pays nothing.
type RewardPolicy struct {
	post    uint64
	like    uint64
	comment uint64
}

// NewRewardPolicy creates a policy paying the given amount per action.
func NewRewardPolicy(post, like, comment uint64) RewardPolicy {
	return RewardPolicy{post: post, like: like, comment: comment}
}

func (p RewardPolicy) PostReward() uint64    { return p.post }
func (p RewardPolicy) LikeReward() uint64    { return p.like }
func (p RewardPolicy) CommentReward() uint64 { return p.comment }

// RewardFor returns the rate for a single action.
func (p RewardPolicy) RewardFor(a Action) (uint64, error) {
	switch a {
	case ActionPost:
		return p.post, nil
	case ActionLike:
		return p.like, nil
	case ActionComment:
		return p.comment, nil
	default:
		return 0, fmt.Errorf("unknown action: %q", a)
	}
}
