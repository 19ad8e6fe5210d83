package social

import "fmt"

// tipRouter forwards a tip to the post's author and tracks the post's
// cumulative tip total.
type tipRouter struct {
	wallet Wallet
}

func (r tipRouter) tip(sc *txScope, sender Address, postID int64, amount uint64) error {
	post, err := loadPost(sc, postID)
	if err != nil {
		return err
	}
	if post.Deleted {
		return ErrPostDeleted
	}
	if post.TipTotal > MaxAmount-amount {
		return ErrTipTotalOverflow
	}

	err = sc.tx.InsertTip(sc.ctx, &Tip{
		PostID:    postID,
		Sender:    sender,
		Recipient: post.Author,
		Amount:    amount,
		CreatedAt: sc.now,
	})
	if err != nil {
		return fmt.Errorf("recording tip: %w", err)
	}

	// Ledger state is final before the value moves.
	if err := r.wallet.Send(sc.ctx, sender, post.Author, amount); err != nil {
		return ErrTipTransfer(err)
	}
	return nil
}
