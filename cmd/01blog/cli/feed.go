// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/elhaouchomar/01blog/lib/api"
)

func feedCommand() *Command {
	var pages int
	return &Command{
		Name:    "feed",
		Summary: "Show the latest posts",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("feed", pflag.ContinueOnError)
			flags.IntVar(&pages, "pages", 1, "number of pages to load")
			return flags
		},
		Run: func(args []string) error {
			a, err := app()
			if err != nil {
				return err
			}
			ctx := context.Background()
			a.Store.LoadSession(ctx)
			for i := 0; i < pages && a.Store.FeedHasMore(); i++ {
				if err := a.Store.FetchFeed(ctx, i == 0); err != nil {
					return err
				}
			}
			posts := a.Store.Feed().Get()
			if len(posts) == 0 {
				fmt.Println("No posts yet.")
				return nil
			}
			for _, post := range posts {
				a.printPostSummary(post)
			}
			if a.Store.FeedHasMore() {
				fmt.Println(a.styles().meta.Render("… more available, use --pages"))
			}
			return nil
		},
	}
}

func postCommand() *Command {
	return &Command{
		Name:    "post",
		Summary: "Read, publish, and manage posts",
		Subcommands: []*Command{
			postShowCommand(),
			postCreateCommand(),
			postEditCommand(),
			postDeleteCommand(),
			postLikeCommand(),
			postHideCommand(),
			postCommentCommand(),
			postCommentsCommand(),
		},
	}
}

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID %q", what, arg)
	}
	return id, nil
}

func postShowCommand() *Command {
	return &Command{
		Name:    "show",
		Summary: "Render one post with its comments",
		Usage:   "01blog post show <id>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: 01blog post show <id>")
			}
			id, err := parseID(args[0], "post")
			if err != nil {
				return err
			}
			a, err := app()
			if err != nil {
				return err
			}
			ctx := context.Background()
			a.Store.LoadSession(ctx)
			post, err := a.Store.PostByID(ctx, id)
			if err != nil {
				return err
			}
			a.printPostFull(post)

			comments, err := a.Store.CommentsForPost(ctx, id)
			if err != nil {
				return err
			}
			if len(comments) > 0 {
				fmt.Printf("\nComments (%d):\n", len(comments))
				for _, comment := range comments {
					a.printComment(comment)
				}
			}
			return nil
		},
	}
}

func postCreateCommand() *Command {
	var title, category, contentFile string
	var tags, images []string
	return &Command{
		Name:    "create",
		Summary: "Publish a new post",
		Usage:   "01blog post create --title <title> [flags] (content from stdin or --file)",
		Examples: []Example{
			{Description: "write the body in an editor, then publish",
				Command: "01blog post create --title 'Go generics' --file draft.md"},
			{Command: "echo 'short take' | 01blog post create --title 'Note'"},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("create", pflag.ContinueOnError)
			flags.StringVar(&title, "title", "", "post title (required)")
			flags.StringVar(&category, "category", "", "post category")
			flags.StringVar(&contentFile, "file", "", "read the body from this file instead of stdin")
			flags.StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
			flags.StringSliceVar(&images, "image", nil, "image file to upload and attach (repeatable)")
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
			content, err := readContent(contentFile)
			if err != nil {
				return err
			}
			imageURLs, err := uploadImages(ctx, a, images)
			if err != nil {
				return err
			}
			post, err := a.Store.CreatePost(ctx, api.CreatePostRequest{
				Title:    title,
				Content:  content,
				Category: category,
				Tags:     tags,
				Images:   imageURLs,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Published post #%d\n", post.ID)
			return nil
		},
	}
}

func postEditCommand() *Command {
	var title, contentFile string
	return &Command{
		Name:    "edit",
		Summary: "Edit an existing post",
		Usage:   "01blog post edit <id> --title <title> [--file <path>]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("edit", pflag.ContinueOnError)
			flags.StringVar(&title, "title", "", "new title (required)")
			flags.StringVar(&contentFile, "file", "", "read the new body from this file instead of stdin")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: 01blog post edit <id> --title <title>")
			}
			id, err := parseID(args[0], "post")
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
			content, err := readContent(contentFile)
			if err != nil {
				return err
			}
			post, err := a.Store.UpdatePost(ctx, id, api.CreatePostRequest{
				Title:   title,
				Content: content,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Updated post #%d\n", post.ID)
			return nil
		},
	}
}

func postDeleteCommand() *Command {
	return &Command{
		Name:    "delete",
		Summary: "Delete a post",
		Usage:   "01blog post delete <id>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: 01blog post delete <id>")
			}
			id, err := parseID(args[0], "post")
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
			if err := a.Store.DeletePost(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Deleted post #%d\n", id)
			return nil
		},
	}
}

func postLikeCommand() *Command {
	return &Command{
		Name:    "like",
		Summary: "Like or unlike a post",
		Usage:   "01blog post like <id>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: 01blog post like <id>")
			}
			id, err := parseID(args[0], "post")
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
			if err := a.Store.ToggleLike(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Toggled like on post #%d\n", id)
			return nil
		},
	}
}

func postHideCommand() *Command {
	return &Command{
		Name:    "hide",
		Summary: "Hide or unhide a post (admin)",
		Usage:   "01blog post hide <id>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: 01blog post hide <id>")
			}
			id, err := parseID(args[0], "post")
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
			if err := a.Store.TogglePostVisibility(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Toggled visibility of post #%d\n", id)
			return nil
		},
	}
}

func postCommentCommand() *Command {
	return &Command{
		Name:    "comment",
		Summary: "Comment on a post",
		Usage:   "01blog post comment <id> <text...>",
		Run: func(args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("usage: 01blog post comment <id> <text...>")
			}
			id, err := parseID(args[0], "post")
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
			comment, err := a.Store.AddComment(ctx, id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Printf("Comment #%d added to post #%d\n", comment.ID, id)
			return nil
		},
	}
}

func postCommentsCommand() *Command {
	return &Command{
		Name:    "comments",
		Summary: "List a post's comments",
		Usage:   "01blog post comments <id>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: 01blog post comments <id>")
			}
			id, err := parseID(args[0], "post")
			if err != nil {
				return err
			}
			a, err := app()
			if err != nil {
				return err
			}
			ctx := context.Background()
			a.Store.LoadSession(ctx)
			comments, err := a.Store.CommentsForPost(ctx, id)
			if err != nil {
				return err
			}
			if len(comments) == 0 {
				fmt.Println("No comments.")
				return nil
			}
			for _, comment := range comments {
				a.printComment(comment)
			}
			return nil
		},
	}
}

// readContent reads the post body from a file or, when path is empty,
// from stdin.
func readContent(path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		return string(data), nil
	}
	if term := os.Getenv("TERM"); term != "" && isStdinTerminal() {
		fmt.Fprintln(os.Stderr, "Reading post body from stdin; finish with Ctrl-D.")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func uploadImages(ctx context.Context, a *App, paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	files := make([]api.UploadFile, 0, len(paths))
	handles := make([]*os.File, 0, len(paths))
	defer func() {
		for _, handle := range handles {
			handle.Close()
		}
	}()
	for _, path := range paths {
		handle, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		handles = append(handles, handle)
		files = append(files, api.UploadFile{Name: handle.Name(), Content: handle})
	}
	return a.Store.UploadFiles(ctx, files)
}
