package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config represents the main configuration for social.
type Config struct {
	// Account is the caller identity used by the CLI when --as is not given.
	Account    string           `toml:"account"`
	BaseDir    string           `toml:"base_dir" validate:"required"`
	LogDir     string           `toml:"log_dir" validate:"required"`
	Rewards    RewardsConfig    `toml:"rewards"`
	Ledger     LedgerConfig     `toml:"ledger"`
	Database   DatabaseConfig   `toml:"database"`
	Token      TokenConfig      `toml:"token"`
	Wallet     TokenConfig      `toml:"wallet"`
	Events     EventsConfig     `toml:"events"`
	Archive    ArchiveConfig    `toml:"archive"`
	Encryption EncryptionConfig `toml:"encryption"`
}

// RewardsConfig holds the payout rates. They are read once at startup and
// must fit the ledger's signed amount columns.
type RewardsConfig struct {
	Post    uint64 `toml:"post" validate:"max=9223372036854775807"`
	Like    uint64 `toml:"like" validate:"max=9223372036854775807"`
	Comment uint64 `toml:"comment" validate:"max=9223372036854775807"`
}

// LedgerConfig holds behaviour switches for the ledger service.
type LedgerConfig struct {
	DeletedPosts        string `toml:"deleted_posts" validate:"omitempty,oneof=open closed"` // "open" (default) or "closed"
	FetchIncludeDeleted bool   `toml:"fetch_include_deleted"`
}

// DatabaseConfig represents configuration for the ledger database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type" validate:"required,oneof=sqlite memory"`
	DataDir string `toml:"data_dir,omitempty" validate:"required_if=Type sqlite"` // only used for type=sqlite
}

// TokenConfig represents configuration for a token backend. The same shape
// configures the reward token and the tip wallet.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type TokenConfig struct {
	Type string `toml:"type" validate:"omitempty,oneof=memory sqlite http"`

	// Treasury is the account rewards are paid from.
	Treasury string `toml:"treasury,omitempty"`

	// InitialSupply is minted into the treasury when a local backend is created empty.
	InitialSupply uint64 `toml:"initial_supply,omitempty" validate:"max=9223372036854775807"`

	// SQLite-specific fields (only used when Type == "sqlite")
	DataDir string `toml:"data_dir,omitempty" validate:"required_if=Type sqlite"`

	// HTTP-specific fields (only used when Type == "http")
	Endpoint       string `toml:"endpoint,omitempty" validate:"required_if=Type http"`
	TimeoutSeconds int    `toml:"timeout_seconds,omitempty" validate:"gte=0"`
}

// EventsConfig selects where committed events are published.
type EventsConfig struct {
	Type    string   `toml:"type" validate:"omitempty,oneof=none log kafka"`
	Brokers []string `toml:"brokers,omitempty" validate:"required_if=Type kafka"`
	Topic   string   `toml:"topic,omitempty" validate:"required_if=Type kafka"`
}

// ArchiveConfig represents configuration for the snapshot archive.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type ArchiveConfig struct {
	Type string `toml:"type" validate:"omitempty,oneof=memory filesystem s3"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket   string `toml:"s3_bucket,omitempty" validate:"required_if=Type s3"`
	S3Prefix   string `toml:"s3_prefix,omitempty"`
	S3Region   string `toml:"s3_region,omitempty"`
	S3Endpoint string `toml:"s3_endpoint,omitempty"` // for S3-compatible stores; enables path-style addressing

	// Static credentials. When empty the default AWS credential chain is used.
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty" validate:"required_with=S3AccessKeyID"`

	// Filesystem-specific fields (only used when Type == "filesystem")
	FSRoot string `toml:"fs_root,omitempty" validate:"required_if=Type filesystem"`
}

// EncryptionConfig holds paths to the age key pair used to encrypt snapshots.
type EncryptionConfig struct {
	Type           string `toml:"type" validate:"omitempty,oneof=none age test"` // "none" (default), "age" or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// NewConfig creates a new Config with the provided values and local defaults.
func NewConfig(account, baseDir string) *Config {
	return &Config{
		Account: account,
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Rewards: RewardsConfig{Post: 5, Like: 1, Comment: 2},
		Ledger:  LedgerConfig{DeletedPosts: "open"},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Token: TokenConfig{
			Type:          "sqlite",
			Treasury:      "treasury",
			InitialSupply: 1_000_000,
			DataDir:       filepath.Join(baseDir, "token"),
		},
		Events: EventsConfig{Type: "log"},
		Archive: ArchiveConfig{
			Type:   "filesystem",
			FSRoot: filepath.Join(baseDir, "snapshots"),
		},
		Encryption: EncryptionConfig{
			Type:           "none",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "social.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "social.key"),
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the config's field constraints and reports the first failure.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid config: %s fails %q", fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("invalid config: %w", err)
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads and validates a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
