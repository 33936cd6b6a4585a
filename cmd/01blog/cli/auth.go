// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/elhaouchomar/01blog/lib/api"
)

func loginCommand() *Command {
	var password string
	return &Command{
		Name:    "login",
		Summary: "Log in and persist the session",
		Usage:   "01blog login <email> [flags]",
		Examples: []Example{
			{Command: "01blog login ada@example.com"},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("login", pflag.ContinueOnError)
			flags.StringVar(&password, "password", "", "password (prompted when omitted)")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: 01blog login <email>")
			}
			a, err := app()
			if err != nil {
				return err
			}
			if password == "" {
				password, err = promptPassword("Password: ")
				if err != nil {
					return err
				}
			}
			user, err := a.Store.Login(context.Background(), api.Credentials{
				Email:    args[0],
				Password: password,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (#%d)\n", user.DisplayName(), user.ID)
			return nil
		},
	}
}

func logoutCommand() *Command {
	return &Command{
		Name:    "logout",
		Summary: "End the session locally and on the server",
		Run: func(args []string) error {
			a, err := app()
			if err != nil {
				return err
			}
			if err := a.Store.Logout(context.Background()); err != nil {
				// Clear the local session even when the server call
				// failed; otherwise a dead server pins the user in.
				fmt.Fprintf(os.Stderr, "warning: server logout failed: %v\n", err)
			}
			if err := a.Jar.Clear(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func registerCommand() *Command {
	var firstname, lastname, password string
	return &Command{
		Name:    "register",
		Summary: "Create an account and log in",
		Usage:   "01blog register <email> --firstname <name> --lastname <name>",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("register", pflag.ContinueOnError)
			flags.StringVar(&firstname, "firstname", "", "first name")
			flags.StringVar(&lastname, "lastname", "", "last name")
			flags.StringVar(&password, "password", "", "password (prompted when omitted)")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: 01blog register <email> --firstname <name> --lastname <name>")
			}
			a, err := app()
			if err != nil {
				return err
			}
			if password == "" {
				password, err = promptPassword("Password: ")
				if err != nil {
					return err
				}
				confirm, err := promptPassword("Confirm password: ")
				if err != nil {
					return err
				}
				if password != confirm {
					return fmt.Errorf("passwords do not match")
				}
			}
			user, err := a.Store.Register(context.Background(), api.RegisterRequest{
				Firstname: firstname,
				Lastname:  lastname,
				Email:     args[0],
				Password:  password,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Welcome, %s! You are logged in.\n", user.DisplayName())
			return nil
		},
	}
}

func whoamiCommand() *Command {
	return &Command{
		Name:    "whoami",
		Summary: "Show the logged-in account",
		Run: func(args []string) error {
			a, err := app()
			if err != nil {
				return err
			}
			user, err := a.requireSession(context.Background())
			if err != nil {
				return err
			}
			tw := newTabWriter()
			fmt.Fprintf(tw, "ID\t%d\n", user.ID)
			fmt.Fprintf(tw, "Name\t%s\n", user.DisplayName())
			fmt.Fprintf(tw, "Email\t%s\n", user.Email)
			fmt.Fprintf(tw, "Role\t%s\n", user.Role)
			fmt.Fprintf(tw, "Followers\t%d\n", user.FollowersCount)
			fmt.Fprintf(tw, "Following\t%d\n", user.FollowingCount)
			if user.Bio != "" {
				fmt.Fprintf(tw, "Bio\t%s\n", user.Bio)
			}
			return tw.Flush()
		},
	}
}

// promptPassword reads a password without echo when stdin is a
// terminal, falling back to a plain line read otherwise (pipes, CI).
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(raw), nil
	}
	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
