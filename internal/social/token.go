package social

import "context"

// TokenClient is the external reward token. The ledger only pays out of it;
// balances, supply and minting belong to the token.
type TokenClient interface {
	// Transfer pays amount from the ledger's treasury to the given account.
	// Any error aborts the operation that triggered the payout.
	Transfer(ctx context.Context, to Address, amount uint64) error

	// BalanceOf returns the token balance held by account.
	BalanceOf(ctx context.Context, account Address) (uint64, error)
}

// Wallet moves the value attached to a tip from the sender to the post's author.
type Wallet interface {
	Send(ctx context.Context, from, to Address, amount uint64) error
	BalanceOf(ctx context.Context, account Address) (uint64, error)
}
