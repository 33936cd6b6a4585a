// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/elhaouchomar/01blog/lib/api"
)

func adminCommand() *Command {
	return &Command{
		Name:    "admin",
		Summary: "Moderation and platform administration",
		Subcommands: []*Command{
			adminStatsCommand(),
			adminReportsCommand(),
			adminResolveCommand(),
			adminUsersCommand(),
			adminBanCommand(),
			adminRemoveUserCommand(),
			adminProvisionCommand(),
		},
	}
}

// requireAdmin loads the session and rejects non-admin accounts
// before any admin endpoint is called.
func requireAdmin(ctx context.Context, a *App) error {
	user, err := a.requireSession(ctx)
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return fmt.Errorf("this command requires an admin account")
	}
	return nil
}

func adminStatsCommand() *Command {
	return &Command{
		Name:    "stats",
		Summary: "Show the platform dashboard",
		Run: func(args []string) error {
			a, err := app()
			if err != nil {
				return err
			}
			ctx := context.Background()
			if err := requireAdmin(ctx, a); err != nil {
				return err
			}
			if err := a.Store.LoadStats(ctx); err != nil {
				return err
			}
			stats := a.Store.Stats().Get()
			tw := newTabWriter()
			fmt.Fprintf(tw, "Users\t%d\n", stats.TotalUsers)
			fmt.Fprintf(tw, "Posts\t%d\n", stats.TotalPosts)
			fmt.Fprintf(tw, "Reports\t%d (%d pending)\n", stats.TotalReports, stats.PendingReports)
			fmt.Fprintf(tw, "Banned\t%d\n", stats.BannedUsers)
			tw.Flush()
			if len(stats.MostReportedUsers) > 0 {
				fmt.Println("\nMost reported:")
				for _, reported := range stats.MostReportedUsers {
					fmt.Printf("  #%d %s (%d reports)\n", reported.ID, reported.Name, reported.ReportCount)
				}
			}
			return nil
		},
	}
}

func adminReportsCommand() *Command {
	return &Command{
		Name:    "reports",
		Summary: "List the moderation queue",
		Run: func(args []string) error {
			a, err := app()
			if err != nil {
				return err
			}
			ctx := context.Background()
			if err := requireAdmin(ctx, a); err != nil {
				return err
			}
			if err := a.Store.LoadReports(ctx); err != nil {
				return err
			}
			reports := a.Store.Reports().Get()
			if len(reports) == 0 {
				fmt.Println("The queue is empty.")
				return nil
			}
			s := a.styles()
			for _, report := range reports {
				target := ""
				if report.ReportedPostID != 0 {
					target = fmt.Sprintf("post #%d %q", report.ReportedPostID, report.ReportedPostTitle)
				} else if report.ReportedUser != nil {
					target = "user " + report.ReportedUser.DisplayName()
				}
				fmt.Printf("%s %s  %s\n", s.title.Render(fmt.Sprintf("#%d [%s]", report.ID, report.Status)),
					target, s.meta.Render(report.CreatedAt))
				fmt.Printf("  %s\n", report.Reason)
			}
			return nil
		},
	}
}

func adminResolveCommand() *Command {
	var status string
	return &Command{
		Name:    "resolve",
		Summary: "Move a report through the moderation workflow",
		Usage:   "01blog admin resolve <report-id> --status <PENDING|REVIEWED|RESOLVED>",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("resolve", pflag.ContinueOnError)
			flags.StringVar(&status, "status", api.ReportResolved, "new report status")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: 01blog admin resolve <report-id> --status <status>")
			}
			id, err := parseID(args[0], "report")
			if err != nil {
				return err
			}
			switch status {
			case api.ReportPending, api.ReportReviewed, api.ReportResolved:
			default:
				return fmt.Errorf("invalid status %q", status)
			}
			a, err := app()
			if err != nil {
				return err
			}
			ctx := context.Background()
			if err := requireAdmin(ctx, a); err != nil {
				return err
			}
			if err := a.Store.UpdateReportStatus(ctx, id, status); err != nil {
				return err
			}
			fmt.Printf("Report #%d is now %s\n", id, status)
			return nil
		},
	}
}

func adminUsersCommand() *Command {
	return &Command{
		Name:    "users",
		Summary: "List all accounts",
		Run: func(args []string) error {
			a, err := app()
			if err != nil {
				return err
			}
			ctx := context.Background()
			if err := requireAdmin(ctx, a); err != nil {
				return err
			}
			if err := a.Store.LoadUsers(ctx); err != nil {
				return err
			}
			for _, user := range a.Store.Users().Get() {
				a.printUserLine(user)
			}
			return nil
		},
	}
}

func adminBanCommand() *Command {
	return &Command{
		Name:    "ban",
		Summary: "Ban or unban an account",
		Usage:   "01blog admin ban <user-id>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: 01blog admin ban <user-id>")
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
			if err := requireAdmin(ctx, a); err != nil {
				return err
			}
			if err := a.Store.ToggleBan(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Toggled ban on user #%d\n", id)
			return nil
		},
	}
}

func adminRemoveUserCommand() *Command {
	var confirmed bool
	return &Command{
		Name:    "remove-user",
		Summary: "Permanently delete an account",
		Usage:   "01blog admin remove-user <user-id> --yes",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("remove-user", pflag.ContinueOnError)
			flags.BoolVar(&confirmed, "yes", false, "confirm the deletion")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: 01blog admin remove-user <user-id> --yes")
			}
			if !confirmed {
				return fmt.Errorf("deleting an account is permanent; re-run with --yes")
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
			if err := requireAdmin(ctx, a); err != nil {
				return err
			}
			if err := a.Store.DeleteUser(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Deleted user #%d\n", id)
			return nil
		},
	}
}

func adminProvisionCommand() *Command {
	var firstname, lastname, password, role string
	return &Command{
		Name:    "provision",
		Summary: "Create an account without logging in as it",
		Usage:   "01blog admin provision <email> --firstname <name> --lastname <name>",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("provision", pflag.ContinueOnError)
			flags.StringVar(&firstname, "firstname", "", "first name")
			flags.StringVar(&lastname, "lastname", "", "last name")
			flags.StringVar(&password, "password", "", "initial password (prompted when omitted)")
			flags.StringVar(&role, "role", "", "account role (e.g. ADMIN)")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: 01blog admin provision <email> --firstname <name> --lastname <name>")
			}
			a, err := app()
			if err != nil {
				return err
			}
			ctx := context.Background()
			if err := requireAdmin(ctx, a); err != nil {
				return err
			}
			if password == "" {
				password, err = promptPassword("Initial password: ")
				if err != nil {
					return err
				}
			}
			err = a.Store.ProvisionUser(ctx, api.RegisterRequest{
				Firstname: firstname,
				Lastname:  lastname,
				Email:     args[0],
				Password:  password,
				Role:      role,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Provisioned account for %s\n", args[0])
			return nil
		},
	}
}
