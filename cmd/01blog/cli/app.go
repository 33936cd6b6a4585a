// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/elhaouchomar/01blog/lib/api"
	"github.com/elhaouchomar/01blog/lib/clock"
	"github.com/elhaouchomar/01blog/lib/config"
	"github.com/elhaouchomar/01blog/lib/mdterm"
	"github.com/elhaouchomar/01blog/lib/sessionjar"
	"github.com/elhaouchomar/01blog/lib/store"
	"github.com/muesli/termenv"
)

// App bundles everything a command needs: configuration, the state
// store, the persistent session, and output rendering.
type App struct {
	Config   config.Config
	Store    *store.Store
	Jar      *sessionjar.Jar
	Renderer *mdterm.Renderer
	Width    int
	Color    bool
}

var (
	appOnce     sync.Once
	appInstance *App
	appError    error
)

// app returns the process-wide App, built on first use from the
// config file ($BLOG_CONFIG or the default location).
func app() (*App, error) {
	appOnce.Do(func() {
		appInstance, appError = buildApp()
	})
	return appInstance, appError
}

func buildApp() (*App, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}

	jar, err := sessionjar.Open(cfg.SessionFile, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(),
	}))

	client, err := api.NewClient(api.Config{
		BaseURL: cfg.BaseURL,
		HTTPClient: &http.Client{
			Jar:     jar,
			Timeout: cfg.RequestTimeout.Std(),
		},
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	dataStore, err := store.New(store.Config{
		API:    client,
		Clock:  clock.Real(),
		Logger: logger,
		Dialog: terminalDialog{},
	})
	if err != nil {
		return nil, err
	}

	width := 100
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	color := useColor(cfg.Color)
	profile := termenv.Ascii
	if color {
		profile = termenv.ANSI256
	}

	return &App{
		Config:   cfg,
		Store:    dataStore,
		Jar:      jar,
		Renderer: mdterm.New(width, profile),
		Width:    width,
		Color:    color,
	}, nil
}

func logLevel() slog.Level {
	if os.Getenv("BLOG_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

func useColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == ""
	}
}

// requireSession loads the persisted session and fails with a usable
// hint when there is none.
func (a *App) requireSession(ctx context.Context) (*api.User, error) {
	user, err := a.Store.LoadSession(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("not logged in; run '01blog login <email>' first")
	}
	return user, nil
}

func isStdinTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// terminalDialog prints store notices to stderr. A CLI has no modal
// to hold open, so acknowledgement is immediate.
type terminalDialog struct{}

func (terminalDialog) ShowBanned(ctx context.Context, message string) {
	fmt.Fprintf(os.Stderr, "\nThis account is banned: %s\nThe local session has been cleared.\n", message)
}

func (terminalDialog) ShowRateLimited(message string) {
	fmt.Fprintf(os.Stderr, "warning: %s\n", message)
}
