package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"social-go/internal/app"
	"social-go/internal/config"
	"social-go/internal/social"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

// newApp reads the config and creates a SocialApp. The caller must defer a.Close().
func newApp(cmd *cobra.Command) (*app.SocialApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewSocialApp(cmd.Context(), cfg, cmd.CommandPath())
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// withCaller opens the app and resolves the acting account from --as.
func withCaller(cmd *cobra.Command, fn func(a *app.SocialApp, caller social.Address) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	as, _ := cmd.Flags().GetString("as")
	caller, err := a.Caller(as)
	if err != nil {
		return err
	}
	return fn(a, caller)
}

func parsePostID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid post id: %q", s)
	}
	return id, nil
}

func parseAmount(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %q", s)
	}
	return n, nil
}

var rootCmd = &cobra.Command{
	Use:          "social",
	Short:        "Social ledger: posts, reactions, comments, tips and rewards",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		account, _ := cmd.Flags().GetString("account")
		cfg := config.NewConfig(account, defaults.BaseDir)

		if err := config.Init(defaults.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults.ConfigPath)
		fmt.Printf("Account:  %s\n", cfg.Account)
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults.ConfigPath)
		fmt.Printf("Account:       %s\n", cfg.Account)
		fmt.Printf("Base Dir:      %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:       %s\n", cfg.LogDir)
		fmt.Printf("Rewards:       post=%d like=%d comment=%d\n", cfg.Rewards.Post, cfg.Rewards.Like, cfg.Rewards.Comment)
		fmt.Printf("Deleted Posts: %s\n", cfg.Ledger.DeletedPosts)
		fmt.Printf("Database:      %s\n", cfg.Database.Type)
		fmt.Printf("Token:         %s\n", cfg.Token.Type)
		fmt.Printf("Events:        %s\n", cfg.Events.Type)
		fmt.Printf("Archive:       %s\n", cfg.Archive.Type)
		fmt.Printf("Encryption:    %s\n", cfg.Encryption.Type)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("as", "", "Act as this account instead of the configured one")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configInitCmd.Flags().String("account", "", "Default caller account")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(likeCmd, dislikeCmd, likesCmd)
	rootCmd.AddCommand(commentCmd, commentsCmd)
	rootCmd.AddCommand(tipCmd)
	rootCmd.AddCommand(eventsCmd, payoutsCmd)
	rootCmd.AddCommand(tokenCmd, walletCmd)
	rootCmd.AddCommand(keysCmd, snapshotCmd)
}
