package main

import (
	"fmt"

	"social-go/internal/app"
	"social-go/internal/social"

	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04:05"

// post command
var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Create and manage posts",
}

var postCreateCmd = &cobra.Command{
	Use:   "create FINGERPRINT",
	Short: "Create a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCaller(cmd, func(a *app.SocialApp, caller social.Address) error {
			id, err := a.Service().CreatePost(cmd.Context(), caller, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Created post #%d (reward %d)\n", id, a.Service().Rewards().PostReward())
			return nil
		})
	},
}

var postEditCmd = &cobra.Command{
	Use:   "edit ID FINGERPRINT",
	Short: "Replace a post's fingerprint",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePostID(args[0])
		if err != nil {
			return err
		}
		return withCaller(cmd, func(a *app.SocialApp, caller social.Address) error {
			if err := a.Service().EditPost(cmd.Context(), caller, id, args[1]); err != nil {
				return err
			}
			fmt.Printf("Edited post #%d\n", id)
			return nil
		})
	},
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePostID(args[0])
		if err != nil {
			return err
		}
		return withCaller(cmd, func(a *app.SocialApp, caller social.Address) error {
			if err := a.Service().DeletePost(cmd.Context(), caller, id); err != nil {
				return err
			}
			fmt.Printf("Deleted post #%d\n", id)
			return nil
		})
	},
}

var postListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		posts, err := a.FetchPosts(cmd.Context(), all)
		if err != nil {
			return err
		}
		if len(posts) == 0 {
			fmt.Println("No posts.")
			return nil
		}
		for _, p := range posts {
			printPost(p)
		}
		return nil
	},
}

var postCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Show the number of posts ever created",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.Service().GetPostCount(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil
	},
}

var postShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a single post",
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

		p, err := a.Service().GetPost(cmd.Context(), id)
		if err != nil {
			return err
		}
		printPost(p)

		as, _ := cmd.Flags().GetString("as")
		if caller, err := a.Caller(as); err == nil {
			r, err := a.Service().GetReaction(cmd.Context(), id, caller)
			if err != nil {
				return err
			}
			fmt.Printf("  your reaction: %s\n", r)
		}
		return nil
	},
}

func printPost(p *social.Post) {
	deleted := ""
	if p.Deleted {
		deleted = "  [deleted]"
	}
	fmt.Printf("#%-5d %s  %s  %s  likes:%d comments:%d tips:%d%s\n",
		p.ID,
		p.CreatedAt.Format(timeLayout),
		p.Author,
		p.Fingerprint,
		p.LikeCount,
		p.CommentCount,
		p.TipTotal,
		deleted,
	)
}

func init() {
	postCmd.AddCommand(postCreateCmd, postEditCmd, postDeleteCmd, postListCmd, postCountCmd, postShowCmd)
	postListCmd.Flags().BoolP("all", "a", false, "Include deleted posts")
}
