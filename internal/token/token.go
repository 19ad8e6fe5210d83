// Package token provides the reward token and tip wallet backends.
package token

import (
	"context"
	"errors"
	"math"

	"social-go/internal/social"
)

// ErrInsufficientFunds is returned when the paying account cannot cover an amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrZeroAmount is returned for transfers and mints of nothing.
var ErrZeroAmount = errors.New("amount must be greater than zero")

// ErrBalanceOverflow is returned when a credit would push a balance past MaxBalance.
var ErrBalanceOverflow = errors.New("balance would exceed the maximum")

// MaxBalance is the largest balance any backend holds. It matches the
// SQLite INTEGER range so both backends agree.
const MaxBalance uint64 = math.MaxInt64

// Backend is a token ledger that can both pay rewards out of a treasury and
// move value between accounts. Mint exists for local development funding.
type Backend interface {
	social.TokenClient
	social.Wallet

	Mint(ctx context.Context, account social.Address, amount uint64) error
	Treasury() social.Address
	Close() error
}
