package token

import (
	"context"
	"testing"

	"social-go/internal/config"
)

func TestNewTokenFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.TokenConfig
		wantErr bool
	}{
		{name: "memory", cfg: config.TokenConfig{Type: "memory", Treasury: "t", InitialSupply: 10}},
		{name: "sqlite", cfg: config.TokenConfig{Type: "sqlite", Treasury: "t", InitialSupply: 10}},
		{name: "sqlite without data_dir", cfg: config.TokenConfig{Type: "sqlite"}, wantErr: true},
		{name: "http", cfg: config.TokenConfig{Type: "http", Endpoint: "http://localhost:9"}},
		{name: "http without endpoint", cfg: config.TokenConfig{Type: "http"}, wantErr: true},
		{name: "unknown", cfg: config.TokenConfig{Type: "ledger"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if cfg.Type == "sqlite" && tt.name == "sqlite" {
				cfg.DataDir = t.TempDir()
			}

			got, err := NewTokenFromConfig(cfg, fixedClock{})
			if tt.wantErr {
				if err == nil {
					t.Error("NewTokenFromConfig() expected error, got nil")
				}
				if got != nil {
					t.Error("NewTokenFromConfig() should return nil on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewTokenFromConfig() unexpected error: %v", err)
			}
			defer got.Close()

			if cfg.Type == "http" {
				return
			}
			b, err := got.BalanceOf(context.Background(), "t")
			if err != nil {
				t.Fatalf("BalanceOf() error = %v", err)
			}
			if b != 10 {
				t.Errorf("treasury balance = %d, want 10", b)
			}
		})
	}
}
