// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

func notificationsCommand() *Command {
	var watch bool
	return &Command{
		Name:    "notifications",
		Summary: "List notifications",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("notifications", pflag.ContinueOnError)
			flags.BoolVar(&watch, "watch", false, "keep polling and print new notifications")
			return flags
		},
		Subcommands: []*Command{
			notificationsReadCommand(),
			notificationsReadAllCommand(),
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
			if err := a.Store.LoadNotifications(ctx); err != nil {
				return err
			}
			printAll := func() {
				notifications := a.Store.Notifications().Get()
				if len(notifications) == 0 {
					fmt.Println("No notifications.")
					return
				}
				for _, notification := range notifications {
					a.printNotification(notification)
				}
				fmt.Printf("\n%d unread\n", a.Store.UnreadCount().Get())
			}
			printAll()
			if !watch {
				return nil
			}

			// Watch mode: poll in the background and reprint whenever
			// the notification cell changes, until interrupted.
			updates, cancel := a.Store.Notifications().Subscribe()
			defer cancel()
			watchCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			a.Store.StartPolling(watchCtx)
			defer a.Store.StopPolling()
			for {
				select {
				case <-watchCtx.Done():
					fmt.Println()
					return nil
				case <-updates:
					fmt.Println("---")
					printAll()
				}
			}
		},
	}
}

func notificationsReadCommand() *Command {
	return &Command{
		Name:    "read",
		Summary: "Mark one notification as read",
		Usage:   "01blog notifications read <id>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: 01blog notifications read <id>")
			}
			id, err := parseID(args[0], "notification")
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
			return a.Store.MarkRead(ctx, id)
		},
	}
}

func notificationsReadAllCommand() *Command {
	return &Command{
		Name:    "read-all",
		Summary: "Mark every notification as read",
		Run: func(args []string) error {
			a, err := app()
			if err != nil {
				return err
			}
			ctx := context.Background()
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			return a.Store.MarkAllRead(ctx)
		},
	}
}
