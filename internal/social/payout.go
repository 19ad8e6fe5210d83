package social

import "fmt"

// rewardPayer pays exactly one policy rate per rewarded action. The payout
// row is written before the token is called so that a failed transfer
// discards both together.
type rewardPayer struct {
	policy RewardPolicy
	token  TokenClient
}

func (p rewardPayer) pay(sc *txScope, to Address, action Action, postID int64) error {
	amount, err := p.policy.RewardFor(action)
	if err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}
	if amount > MaxAmount {
		return fmt.Errorf("%s reward %d exceeds the maximum %d", action, amount, MaxAmount)
	}

	err = sc.tx.InsertPayout(sc.ctx, &Payout{
		Account:   to,
		Action:    action,
		PostID:    postID,
		Amount:    amount,
		CreatedAt: sc.now,
	})
	if err != nil {
		return fmt.Errorf("recording %s payout: %w", action, err)
	}

	if err := p.token.Transfer(sc.ctx, to, amount); err != nil {
		return ErrRewardTransfer(err)
	}
	return nil
}
