package token

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"social-go/internal/config"
	"social-go/internal/social"
)

// FileName is the token database file inside data_dir.
const FileName = "token.db"

// NewTokenFromConfig creates a token Backend based on the token config type.
// A local backend whose treasury is empty is funded with initial_supply.
func NewTokenFromConfig(cfg config.TokenConfig, clock social.Clock) (Backend, error) {
	treasury := social.Address(cfg.Treasury)

	switch cfg.Type {
	case "memory":
		return NewMemoryToken(treasury, cfg.InitialSupply), nil
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite token")
		}
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("creating token data dir: %w", err)
		}
		t, err := NewSQLiteToken(filepath.Join(cfg.DataDir, FileName), treasury, clock)
		if err != nil {
			return nil, err
		}
		if err := t.fundIfEmpty(context.Background(), cfg.InitialSupply); err != nil {
			t.Close()
			return nil, err
		}
		return t, nil
	case "http":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("endpoint required for http token")
		}
		return NewHTTPToken(cfg.Endpoint, treasury, time.Duration(cfg.TimeoutSeconds)*time.Second), nil
	default:
		return nil, fmt.Errorf("unknown token type: %s", cfg.Type)
	}
}
