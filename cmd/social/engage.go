package main

import (
	"fmt"

	"social-go/internal/app"
	"social-go/internal/social"

	"github.com/spf13/cobra"
)

var likeCmd = &cobra.Command{
	Use:   "like ID",
	Short: "Like a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePostID(args[0])
		if err != nil {
			return err
		}
		return withCaller(cmd, func(a *app.SocialApp, caller social.Address) error {
			if err := a.Service().LikePost(cmd.Context(), caller, id); err != nil {
				return err
			}
			fmt.Printf("Liked post #%d (reward %d)\n", id, a.Service().Rewards().LikeReward())
			return nil
		})
	},
}

var dislikeCmd = &cobra.Command{
	Use:   "dislike ID",
	Short: "Dislike a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePostID(args[0])
		if err != nil {
			return err
		}
		return withCaller(cmd, func(a *app.SocialApp, caller social.Address) error {
			if err := a.Service().DislikePost(cmd.Context(), caller, id); err != nil {
				return err
			}
			fmt.Printf("Disliked post #%d\n", id)
			return nil
		})
	},
}

var likesCmd = &cobra.Command{
	Use:   "likes ID",
	Short: "Show a post's like count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePostID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.Service().GetLikeCount(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment ID FINGERPRINT",
	Short: "Comment on a post",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePostID(args[0])
		if err != nil {
			return err
		}
		return withCaller(cmd, func(a *app.SocialApp, caller social.Address) error {
			if err := a.Service().CommentPost(cmd.Context(), caller, id, args[1]); err != nil {
				return err
			}
			fmt.Printf("Commented on post #%d (reward %d)\n", id, a.Service().Rewards().CommentReward())
			return nil
		})
	},
}

var commentsCmd = &cobra.Command{
	Use:   "comments ID",
	Short: "List a post's comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePostID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		comments, err := a.Service().GetComments(cmd.Context(), id)
		if err != nil {
			return err
		}
		if len(comments) == 0 {
			fmt.Println("No comments.")
			return nil
		}
		for _, c := range comments {
			fmt.Printf("%s  %s  %s\n", c.CreatedAt.Format(timeLayout), c.Author, c.Fingerprint)
		}
		return nil
	},
}

var tipCmd = &cobra.Command{
	Use:   "tip ID AMOUNT",
	Short: "Tip a post's author",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePostID(args[0])
		if err != nil {
			return err
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		return withCaller(cmd, func(a *app.SocialApp, caller social.Address) error {
			if err := a.Service().TipPost(cmd.Context(), caller, id, amount); err != nil {
				return err
			}
			fmt.Printf("Tipped %d to post #%d\n", amount, id)
			return nil
		})
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recorded ledger events",
	RunE: func(cmd *cobra.Command, args []string) error {
		after, _ := cmd.Flags().GetInt64("after")
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		events, err := a.Service().ListEvents(cmd.Context(), after, limit)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No events.")
			return nil
		}
		for _, e := range events {
			fmt.Printf("%-6d %s  %-13s post:%d  %s", e.Seq, e.CreatedAt.Format(timeLayout), e.Kind, e.PostID, e.Account)
			if e.Fingerprint != "" {
				fmt.Printf("  %s", e.Fingerprint)
			}
			if e.Amount != 0 {
				fmt.Printf("  amount:%d", e.Amount)
			}
			fmt.Println()
		}
		return nil
	},
}

var payoutsCmd = &cobra.Command{
	Use:   "payouts [ACCOUNT]",
	Short: "List rewards paid, optionally for one account",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var account social.Address
		if len(args) == 1 {
			account = social.Address(args[0])
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		payouts, err := a.Service().ListPayouts(cmd.Context(), account)
		if err != nil {
			return err
		}
		if len(payouts) == 0 {
			fmt.Println("No payouts.")
			return nil
		}

		var total uint64
		for _, p := range payouts {
			fmt.Printf("%s  %-8s post:%-5d %s  %d\n", p.CreatedAt.Format(timeLayout), p.Action, p.PostID, p.Account, p.Amount)
			total += p.Amount
		}
		fmt.Printf("Total: %d\n", total)
		return nil
	},
}

func init() {
	eventsCmd.Flags().Int64("after", 0, "Only show events after this sequence number")
	eventsCmd.Flags().IntP("limit", "n", 50, "Maximum number of events to show (0 for all)")
}
