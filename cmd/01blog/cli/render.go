// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/elhaouchomar/01blog/lib/api"
)

// styles carries the handful of lipgloss styles the listings use.
type styles struct {
	title lipgloss.Style
	meta  lipgloss.Style
	alert lipgloss.Style
}

func (a *App) styles() styles {
	profile := termenv.Ascii
	if a.Color {
		profile = termenv.ANSI256
	}
	renderer := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)
	return styles{
		title: renderer.NewStyle().Bold(true),
		meta:  renderer.NewStyle().Faint(true),
		alert: renderer.NewStyle().Foreground(lipgloss.Color("203")),
	}
}

func (a *App) printPostSummary(post api.Post) {
	s := a.styles()
	author := post.User.DisplayName()
	if author == "" {
		author = "unknown"
	}
	line := fmt.Sprintf("%s  %s", s.title.Render(fmt.Sprintf("#%d %s", post.ID, post.Title)),
		s.meta.Render(fmt.Sprintf("by %s · %d likes · %d comments", author, post.Likes, post.Comments)))
	if post.Hidden {
		line += "  " + s.alert.Render("[hidden]")
	}
	fmt.Println(line)
}

func (a *App) printPostFull(post *api.Post) {
	s := a.styles()
	fmt.Println(s.title.Render(fmt.Sprintf("#%d %s", post.ID, post.Title)))
	meta := fmt.Sprintf("by %s · %d likes · %d comments", post.User.DisplayName(), post.Likes, post.Comments)
	if post.CreatedAt != "" {
		meta += " · " + post.CreatedAt
	}
	fmt.Println(s.meta.Render(meta))
	fmt.Println()
	fmt.Println(a.Renderer.Render(post.Content))
	if len(post.Images) > 0 {
		fmt.Println()
		for _, image := range post.Images {
			fmt.Println(s.meta.Render("[image] " + image))
		}
	}
}

func (a *App) printComment(comment api.Comment) {
	s := a.styles()
	fmt.Printf("  %s %s\n", s.title.Render(comment.User.DisplayName()+":"), comment.Content)
	fmt.Printf("    %s\n", s.meta.Render(fmt.Sprintf("#%d · %d likes", comment.ID, comment.Likes)))
}

func (a *App) printUserLine(user api.User) {
	s := a.styles()
	flags := ""
	if user.Banned {
		flags = "  " + s.alert.Render("[banned]")
	}
	if user.Role == api.RoleAdmin {
		flags += "  " + s.meta.Render("[admin]")
	}
	fmt.Printf("%s  %s%s\n",
		s.title.Render(fmt.Sprintf("#%d %s", user.ID, user.DisplayName())),
		s.meta.Render(user.Email), flags)
}

func (a *App) printNotification(notification api.Notification) {
	s := a.styles()
	marker := " "
	if !notification.IsRead {
		marker = s.alert.Render("●")
	}
	text := notification.Message
	if text == "" {
		text = describeNotification(notification)
	}
	fmt.Printf("%s #%d %s  %s\n", marker, notification.ID, text,
		s.meta.Render(notification.CreatedAt))
}

func describeNotification(notification api.Notification) string {
	actor := notification.ActorName
	if actor == "" {
		actor = "Someone"
	}
	switch notification.Type {
	case api.NotificationLike:
		return actor + " liked your post"
	case api.NotificationComment:
		return actor + " commented on your post"
	case api.NotificationFollow:
		return actor + " followed you"
	case api.NotificationNewPost:
		return actor + " published a new post"
	default:
		return strings.ToLower(notification.Type)
	}
}

// newTabWriter returns a tabwriter for aligned listings.
func newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
}
