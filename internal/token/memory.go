package token

import (
	"context"
	"fmt"
	"sync"

	"social-go/internal/social"
)

// MemoryToken is an in-memory token ledger. It is safe for concurrent use
// and is intended for tests and throwaway runs.
type MemoryToken struct {
	treasury social.Address
	balances map[social.Address]uint64
	mu       sync.RWMutex
}

// NewMemoryToken creates a token whose treasury starts with supply.
func NewMemoryToken(treasury social.Address, supply uint64) *MemoryToken {
	t := &MemoryToken{
		treasury: treasury,
		balances: make(map[social.Address]uint64),
	}
	if supply > 0 {
		t.balances[treasury] = supply
	}
	return t
}

// Transfer pays amount from the treasury to the given account.
func (t *MemoryToken) Transfer(ctx context.Context, to social.Address, amount uint64) error {
	return t.Send(ctx, t.treasury, to, amount)
}

// Send moves amount between two accounts.
func (t *MemoryToken) Send(ctx context.Context, from, to social.Address, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.balances[from] < amount {
		return fmt.Errorf("sending %d from %s: %w", amount, from, ErrInsufficientFunds)
	}
	held := t.balances[to]
	if from == to {
		held -= amount
	}
	if held > MaxBalance-amount {
		return fmt.Errorf("sending %d to %s: %w", amount, to, ErrBalanceOverflow)
	}
	t.balances[from] -= amount
	t.balances[to] += amount
	return nil
}

// BalanceOf returns the balance held by account. Unknown accounts hold zero.
func (t *MemoryToken) BalanceOf(ctx context.Context, account social.Address) (uint64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.balances[account], nil
}

// Mint creates amount new tokens in account.
func (t *MemoryToken) Mint(ctx context.Context, account social.Address, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if amount > MaxBalance || t.balances[account] > MaxBalance-amount {
		return fmt.Errorf("minting %d to %s: %w", amount, account, ErrBalanceOverflow)
	}
	t.balances[account] += amount
	return nil
}

func (t *MemoryToken) Treasury() social.Address { return t.treasury }

func (t *MemoryToken) Close() error { return nil }

var _ Backend = (*MemoryToken)(nil)
