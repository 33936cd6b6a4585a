// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/elhaouchomar/01blog/lib/api"
)

func followCommand() *Command {
	return &Command{
		Name:    "follow",
		Summary: "Follow or unfollow an author",
		Usage:   "01blog follow <user-id>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: 01blog follow <user-id>")
			}
			id, err := parseID(args[0], "user")
			if err != nil {
				return err
			}
			a, err := app()
			if err != nil {
				return err
			}
			ctx := context.Background()
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			if err := a.Store.FollowUser(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Toggled follow for user #%d\n", id)
			return nil
		},
	}
}

func profileCommand() *Command {
	return &Command{
		Name:    "profile",
		Summary: "View and edit profiles",
		Subcommands: []*Command{
			profileShowCommand(),
			profileUpdateCommand(),
			profileSubscribeCommand(),
		},
	}
}

func profileShowCommand() *Command {
	return &Command{
		Name:    "show",
		Summary: "Show a user's profile and recent posts",
		Usage:   "01blog profile show <user-id>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: 01blog profile show <user-id>")
			}
			id, err := parseID(args[0], "user")
			if err != nil {
				return err
			}
			a, err := app()
			if err != nil {
				return err
			}
			ctx := context.Background()
			a.Store.LoadSession(ctx)
			user, err := a.Store.UserByID(ctx, id)
			if err != nil {
				return err
			}
			a.printUserLine(*user)
			if user.Bio != "" {
				fmt.Println(a.Renderer.Render(user.Bio))
			}
			s := a.styles()
			fmt.Println(s.meta.Render(fmt.Sprintf("%d followers · %d following · %d posts",
				user.FollowersCount, user.FollowingCount, user.PostCount)))

			posts, err := a.Store.UserPosts(ctx, id, 0)
			if err != nil {
				return err
			}
			if len(posts) > 0 {
				fmt.Println()
				for _, post := range posts {
					a.printPostSummary(post)
				}
			}
			return nil
		},
	}
}

func profileUpdateCommand() *Command {
	var firstname, lastname, bio, avatar string
	return &Command{
		Name:    "update",
		Summary: "Edit your own profile",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("update", pflag.ContinueOnError)
			flags.StringVar(&firstname, "firstname", "", "new first name")
			flags.StringVar(&lastname, "lastname", "", "new last name")
			flags.StringVar(&bio, "bio", "", "new bio")
			flags.StringVar(&avatar, "avatar", "", "new avatar URL")
			return flags
		},
		Run: func(args []string) error {
			a, err := app()
			if err != nil {
				return err
			}
			ctx := context.Background()
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			var update api.UserUpdate
			if firstname != "" {
				update.Firstname = &firstname
			}
			if lastname != "" {
				update.Lastname = &lastname
			}
			if bio != "" {
				update.Bio = &bio
			}
			if avatar != "" {
				update.Avatar = &avatar
			}
			if update == (api.UserUpdate{}) {
				return fmt.Errorf("nothing to update; pass at least one flag")
			}
			user, err := a.Store.UpdateProfile(ctx, update)
			if err != nil {
				return err
			}
			fmt.Printf("Profile updated for %s\n", user.DisplayName())
			return nil
		},
	}
}

func profileSubscribeCommand() *Command {
	return &Command{
		Name:    "subscribe",
		Summary: "Toggle the email digest subscription",
		Run: func(args []string) error {
			a, err := app()
			if err != nil {
				return err
			}
			ctx := context.Background()
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			if err := a.Store.ToggleSubscribe(ctx); err != nil {
				return err
			}
			user := a.Store.User().Get()
			if user != nil && user.Subscribed {
				fmt.Println("Subscribed to the email digest.")
			} else {
				fmt.Println("Unsubscribed from the email digest.")
			}
			return nil
		},
	}
}

func searchCommand() *Command {
	var filter string
	var limit int
	return &Command{
		Name:    "search",
		Summary: "Search posts and people",
		Usage:   "01blog search <query> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("search", pflag.ContinueOnError)
			flags.StringVar(&filter, "filter", "all", "what to search: all, posts, or people")
			flags.IntVar(&limit, "limit", 20, "maximum results per kind")
			return flags
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("usage: 01blog search <query>")
			}
			switch filter {
			case "all", "posts", "people":
			default:
				return fmt.Errorf("--filter must be all, posts, or people")
			}
			a, err := app()
			if err != nil {
				return err
			}
			ctx := context.Background()
			a.Store.LoadSession(ctx)
			query := ""
			for i, arg := range args {
				if i > 0 {
					query += " "
				}
				query += arg
			}
			results, err := a.Store.Search(ctx, query, filter, limit)
			if err != nil {
				return err
			}
			if len(results.Posts) == 0 && len(results.Users) == 0 {
				fmt.Println("No results.")
				return nil
			}
			if len(results.Posts) > 0 {
				fmt.Println("Posts:")
				for _, post := range results.Posts {
					a.printPostSummary(post)
				}
			}
			if len(results.Users) > 0 {
				fmt.Println("People:")
				for _, user := range results.Users {
					a.printUserLine(user)
				}
			}
			return nil
		},
	}
}

func reportCommand() *Command {
	var reason string
	var userID int64
	return &Command{
		Name:    "report",
		Summary: "Report a post or a user to the moderators",
		Usage:   "01blog report [post-id] --reason <text> [--user <id>]",
		Examples: []Example{
			{Command: "01blog report 42 --reason 'plagiarized content, original at ...'"},
			{Command: "01blog report --user 7 --reason 'impersonating another author'"},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("report", pflag.ContinueOnError)
			flags.StringVar(&reason, "reason", "", "why this is being reported (required)")
			flags.Int64Var(&userID, "user", 0, "report a user instead of a post")
			return flags
		},
		Run: func(args []string) error {
			request := api.CreateReportRequest{Reason: reason, ReportedUserID: userID}
			if len(args) == 1 {
				postID, err := parseID(args[0], "post")
				if err != nil {
					return err
				}
				request.ReportedPostID = postID
			}
			if request.ReportedPostID == 0 && request.ReportedUserID == 0 {
				return fmt.Errorf("specify a post ID or --user")
			}
			a, err := app()
			if err != nil {
				return err
			}
			ctx := context.Background()
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			if err := a.Store.ReportContent(ctx, request); err != nil {
				return err
			}
			fmt.Println("Report submitted. Thank you.")
			return nil
		},
	}
}

func syncCommand() *Command {
	return &Command{
		Name:    "sync",
		Summary: "Refresh every cache appropriate to your role",
		Run: func(args []string) error {
			a, err := app()
			if err != nil {
				return err
			}
			ran, err := a.Store.RefreshAll(context.Background())
			if err != nil {
				return err
			}
			if !ran {
				fmt.Println("Refreshed moments ago; skipped.")
				return nil
			}
			fmt.Printf("Synced. %d posts in feed, %d unread notifications.\n",
				len(a.Store.Feed().Get()), a.Store.UnreadCount().Get())
			return nil
		},
	}
}
