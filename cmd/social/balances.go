package main

import (
	"fmt"

	"social-go/internal/app"
	"social-go/internal/social"
	"social-go/internal/token"

	"github.com/spf13/cobra"
)

// newBalanceCmds builds the balance and mint subcommands for one backend.
func newBalanceCmds(parent *cobra.Command, label string, backend func(a *app.SocialApp) token.Backend) {
	balanceCmd := &cobra.Command{
		Use:   "balance [ACCOUNT]",
		Short: fmt.Sprintf("Show a %s balance (default: caller)", label),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCaller(cmd, func(a *app.SocialApp, caller social.Address) error {
				account := caller
				if len(args) == 1 {
					account = social.Address(args[0])
				}
				bal, err := backend(a).BalanceOf(cmd.Context(), account)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %d\n", account, bal)
				return nil
			})
		},
	}

	mintCmd := &cobra.Command{
		Use:   "mint ACCOUNT AMOUNT",
		Short: fmt.Sprintf("Create new %s tokens in an account (development only)", label),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := backend(a).Mint(cmd.Context(), social.Address(args[0]), amount); err != nil {
				return err
			}
			fmt.Printf("Minted %d to %s\n", amount, args[0])
			return nil
		},
	}

	parent.AddCommand(balanceCmd, mintCmd)
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Inspect the reward token",
}

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Inspect the tip wallet",
}

func init() {
	newBalanceCmds(tokenCmd, "reward token", (*app.SocialApp).Token)
	newBalanceCmds(walletCmd, "wallet", (*app.SocialApp).Wallet)
}
