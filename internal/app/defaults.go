package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Defaults holds the paths the CLI uses when no flag overrides them.
type Defaults struct {
	ConfigPath string
	BaseDir    string
	LogDir     string
}

// GetDefaults resolves the default paths.
//
//	SOCIAL_CONFIG_PATH  config file (default ~/.config/social.toml)
//	SOCIAL_HOME         data directory (default ~/.local/share/social)
func GetDefaults() (*Defaults, error) {
	configPath, err := envOrHome("SOCIAL_CONFIG_PATH", ".config", "social.toml")
	if err != nil {
		return nil, err
	}
	baseDir, err := envOrHome("SOCIAL_HOME", ".local", "share", "social")
	if err != nil {
		return nil, err
	}

	return &Defaults{
		ConfigPath: configPath,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
	}, nil
}

// envOrHome returns the env var if set, else the path under the home dir.
func envOrHome(env string, elems ...string) (string, error) {
	if v := os.Getenv(env); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append([]string{home}, elems...)...), nil
}
