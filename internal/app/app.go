package app

import (
	"context"
	"fmt"
	"os"

	"social-go/internal/archive"
	"social-go/internal/config"
	"social-go/internal/database"
	"social-go/internal/encryption"
	"social-go/internal/events"
	"social-go/internal/social"
	"social-go/internal/token"
)

// SocialApp is the application layer between the CLI and SocialService.
// It constructs all dependencies from config, resolves the caller identity,
// and owns the lifecycle of every opened resource.
type SocialApp struct {
	cfg       *config.Config
	ledger    *database.SQLiteLedger
	token     token.Backend
	wallet    token.Backend
	sink      social.EventSink
	archive   social.Archive
	encryptor social.Encryptor
	service   *social.SocialService
	clock     social.Clock
	logger    social.Logger
	inv       *Invocation
	logFile   *os.File
}

// NewSocialApp creates a fully wired SocialApp from the given config.
// command names the CLI command being run (e.g. "post create").
// The caller must call Close when done.
func NewSocialApp(ctx context.Context, cfg *config.Config, command string) (*SocialApp, error) {
	clock := social.RealClock{}
	inv := NewInvocation(command, clock.Now())

	slogger, logFile, err := newLogger(cfg.LogDir, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	a := &SocialApp{
		cfg:     cfg,
		clock:   clock,
		logger:  logger,
		inv:     inv,
		logFile: logFile,
	}
	if err := a.open(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.service = social.NewSocialService(
		a.ledger,
		a.token,
		a.wallet,
		social.NewRewardPolicy(cfg.Rewards.Post, cfg.Rewards.Like, cfg.Rewards.Comment),
		a.sink,
		logger,
		clock,
		social.UUIDGenerator{},
		social.DeletedPostPolicy(cfg.Ledger.DeletedPosts),
	)

	logger.Debug("invocation started", "command", command)
	return a, nil
}

// open builds the collaborators. Whatever was opened before a failure is
// released by Close.
func (a *SocialApp) open(ctx context.Context) error {
	var err error

	a.ledger, err = database.NewLedgerFromConfig(a.cfg.Database)
	if err != nil {
		return fmt.Errorf("creating ledger: %w", err)
	}
	if err := a.ledger.CheckMigrations(); err != nil {
		return fmt.Errorf("ledger schema out of date: %w", err)
	}

	a.token, err = token.NewTokenFromConfig(a.cfg.Token, a.clock)
	if err != nil {
		return fmt.Errorf("creating token: %w", err)
	}

	// An unconfigured wallet moves tips on the reward token.
	if a.cfg.Wallet.Type == "" {
		a.wallet = a.token
	} else {
		a.wallet, err = token.NewTokenFromConfig(a.cfg.Wallet, a.clock)
		if err != nil {
			return fmt.Errorf("creating wallet: %w", err)
		}
	}

	a.sink, err = events.NewSinkFromConfig(a.cfg.Events, a.logger)
	if err != nil {
		return fmt.Errorf("creating event sink: %w", err)
	}

	a.archive, err = archive.NewArchiveFromConfig(ctx, a.cfg.Archive)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}

	a.encryptor, err = encryption.NewEncryptorFromConfig(a.cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	return nil
}

// Service returns the ledger facade.
func (a *SocialApp) Service() *social.SocialService { return a.service }

// Token returns the reward token backend.
func (a *SocialApp) Token() token.Backend { return a.token }

// Wallet returns the backend that moves tips.
func (a *SocialApp) Wallet() token.Backend { return a.wallet }

// Caller resolves the acting account: the --as override if given, else the
// configured account.
func (a *SocialApp) Caller(as string) (social.Address, error) {
	if as != "" {
		return social.Address(as), nil
	}
	if a.cfg.Account == "" {
		return "", fmt.Errorf("no account configured: set account in config or pass --as: %w", social.ErrEmptyCaller)
	}
	return social.Address(a.cfg.Account), nil
}

// FetchPosts lists posts. Deleted posts are included when all is set or the
// config asks for them.
func (a *SocialApp) FetchPosts(ctx context.Context, all bool) ([]*social.Post, error) {
	opts := social.FetchOptions{IncludeDeleted: all || a.cfg.Ledger.FetchIncludeDeleted}
	return a.service.FetchPosts(ctx, opts)
}

// InitKeys generates the snapshot key pair, protecting the private key
// with passphrase.
func (a *SocialApp) InitKeys(passphrase string) error {
	if err := a.encryptor.Setup(passphrase); err != nil {
		return fmt.Errorf("initializing keys: %w", err)
	}
	a.logger.Info("snapshot keys initialized")
	return nil
}

// Close releases every resource the app opened. It returns the first error.
func (a *SocialApp) Close() error {
	var firstErr error
	keep := func(err error, what string) {
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing %s: %w", what, err)
		}
	}

	if a.sink != nil {
		keep(a.sink.Close(), "event sink")
	}
	if a.wallet != nil && a.wallet != a.token {
		keep(a.wallet.Close(), "wallet")
	}
	if a.token != nil {
		keep(a.token.Close(), "token")
	}
	if a.ledger != nil {
		keep(a.ledger.Close(), "ledger")
	}

	if a.logger != nil && a.inv != nil {
		a.logger.Debug("invocation finished", "command", a.inv.Command, "elapsed", a.inv.Elapsed(a.clock.Now()))
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
