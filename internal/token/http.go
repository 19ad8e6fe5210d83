package token

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"social-go/internal/social"
)

// DefaultHTTPTimeout applies when the config leaves timeout_seconds unset.
const DefaultHTTPTimeout = 10 * time.Second

// HTTPToken talks to a remote token service over JSON.
//
//	POST /v1/transfers        {"from", "to", "amount"}
//	POST /v1/mint             {"account", "amount"}
//	GET  /v1/balances/{account} -> {"account", "balance"}
//
// Any non-2xx response is an error carrying the server's message.
type HTTPToken struct {
	client   *resty.Client
	treasury social.Address
}

type transferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type mintRequest struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

type balanceResponse struct {
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPToken creates a client for the token service at endpoint.
func NewHTTPToken(endpoint string, treasury social.Address, timeout time.Duration) *HTTPToken {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetError(&errorResponse{})

	return &HTTPToken{client: client, treasury: treasury}
}

// Transfer pays amount from the treasury to the given account.
func (t *HTTPToken) Transfer(ctx context.Context, to social.Address, amount uint64) error {
	return t.Send(ctx, t.treasury, to, amount)
}

// Send moves amount between two accounts.
func (t *HTTPToken) Send(ctx context.Context, from, to social.Address, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(transferRequest{From: string(from), To: string(to), Amount: amount}).
		Post("/v1/transfers")
	if err != nil {
		return fmt.Errorf("posting transfer: %w", err)
	}
	if resp.IsError() {
		return responseError("transfer", resp)
	}
	return nil
}

// BalanceOf returns the balance held by account.
func (t *HTTPToken) BalanceOf(ctx context.Context, account social.Address) (uint64, error) {
	var out balanceResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v1/balances/" + url.PathEscape(string(account)))
	if err != nil {
		return 0, fmt.Errorf("fetching balance: %w", err)
	}
	if resp.IsError() {
		return 0, responseError("balance", resp)
	}
	return out.Balance, nil
}

// Mint asks the service to create amount new tokens in account.
func (t *HTTPToken) Mint(ctx context.Context, account social.Address, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(mintRequest{Account: string(account), Amount: amount}).
		Post("/v1/mint")
	if err != nil {
		return fmt.Errorf("posting mint: %w", err)
	}
	if resp.IsError() {
		return responseError("mint", resp)
	}
	return nil
}

func (t *HTTPToken) Treasury() social.Address { return t.treasury }

func (t *HTTPToken) Close() error { return nil }

func responseError(op string, resp *resty.Response) error {
	msg := resp.Status()
	if e, ok := resp.Error().(*errorResponse); ok && e.Error != "" {
		msg = e.Error
	}
	return fmt.Errorf("token service %s failed (%d): %s", op, resp.StatusCode(), msg)
}

var _ Backend = (*HTTPToken)(nil)
