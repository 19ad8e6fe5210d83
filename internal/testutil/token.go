package testutil

import (
	"context"
	"errors"
	"sync"

	"social-go/internal/social"
	"social-go/internal/token"
)

// ErrTransferRefused is returned by FailingToken when it is set to fail.
var ErrTransferRefused = errors.New("transfer refused")

// TestTreasury is the treasury account of tokens built by NewTestToken.
const TestTreasury social.Address = "treasury"

// NewTestToken creates an in-memory token with a funded treasury.
func NewTestToken() *token.MemoryToken {
	return token.NewMemoryToken(TestTreasury, 1_000_000)
}

// FailingToken wraps a token and refuses transfers while Fail is set. It
// also lets a test run a hook during Transfer, e.g. to call back into the
// service mid-operation.
type FailingToken struct {
	token.Backend

	mu        sync.Mutex
	fail      bool
	transfers int
	OnCall    func(ctx context.Context) error
}

func NewFailingToken(inner token.Backend) *FailingToken {
	return &FailingToken{Backend: inner}
}

// SetFail switches transfer failures on or off.
func (f *FailingToken) SetFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fail
}

// Transfers returns the number of transfers that reached the inner token.
func (f *FailingToken) Transfers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transfers
}

func (f *FailingToken) Transfer(ctx context.Context, to social.Address, amount uint64) error {
	if err := f.before(ctx); err != nil {
		return err
	}
	if err := f.Backend.Transfer(ctx, to, amount); err != nil {
		return err
	}
	f.mu.Lock()
	f.transfers++
	f.mu.Unlock()
	return nil
}

func (f *FailingToken) Send(ctx context.Context, from, to social.Address, amount uint64) error {
	if err := f.before(ctx); err != nil {
		return err
	}
	return f.Backend.Send(ctx, from, to, amount)
}

func (f *FailingToken) before(ctx context.Context) error {
	if f.OnCall != nil {
		if err := f.OnCall(ctx); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return ErrTransferRefused
	}
	return nil
}
