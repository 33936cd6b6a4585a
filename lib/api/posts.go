// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
)

// Posts fetches one page of the public feed.
func (client *Client) Posts(ctx context.Context, page, size int) ([]Post, error) {
	var posts []Post
	if err := client.get(ctx, "/posts"+pageQuery(page, size), &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// PostByID fetches a single post.
func (client *Client) PostByID(ctx context.Context, id int64) (*Post, error) {
	var post Post
	if err := client.get(ctx, fmt.Sprintf("/posts/%d", id), &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UserPosts fetches one page of a single author's posts.
func (client *Client) UserPosts(ctx context.Context, userID int64, page, size int) ([]Post, error) {
	var posts []Post
	if err := client.get(ctx, fmt.Sprintf("/posts/user/%d%s", userID, pageQuery(page, size)), &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost publishes a new post.
func (client *Client) CreatePost(ctx context.Context, request CreatePostRequest) (*Post, error) {
	var post Post
	if err := client.post(ctx, "/posts", request, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost edits an existing post.
func (client *Client) UpdatePost(ctx context.Context, id int64, request CreatePostRequest) (*Post, error) {
	var post Post
	if err := client.put(ctx, fmt.Sprintf("/posts/%d", id), request, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post.
func (client *Client) DeletePost(ctx context.Context, id int64) error {
	return client.delete(ctx, fmt.Sprintf("/posts/%d", id))
}

// ToggleLike flips the viewer's like on a post. The response is the
// authoritative updated post.
func (client *Client) ToggleLike(ctx context.Context, id int64) (*Post, error) {
	var post Post
	if err := client.post(ctx, fmt.Sprintf("/posts/%d/like", id), struct{}{}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// ToggleHidden flips a post's moderation visibility flag. Admin only.
func (client *Client) ToggleHidden(ctx context.Context, id int64) (*Post, error) {
	var post Post
	if err := client.put(ctx, fmt.Sprintf("/posts/%d/toggle-hidden", id), struct{}{}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Comments fetches all comments on a post. Comments are never cached
// client-side; callers fetch on demand.
func (client *Client) Comments(ctx context.Context, postID int64) ([]Comment, error) {
	var comments []Comment
	if err := client.get(ctx, fmt.Sprintf("/posts/%d/comments", postID), &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment posts a comment and returns the created entry.
func (client *Client) AddComment(ctx context.Context, postID int64, content string) (*Comment, error) {
	body := struct {
		Content string `json:"content"`
	}{Content: content}
	var comment Comment
	if err := client.post(ctx, fmt.Sprintf("/posts/%d/comment", postID), body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment.
func (client *Client) DeleteComment(ctx context.Context, commentID int64) error {
	return client.delete(ctx, fmt.Sprintf("/posts/comment/%d", commentID))
}

// ToggleCommentLike flips the viewer's like on a comment.
func (client *Client) ToggleCommentLike(ctx context.Context, commentID int64) (*Comment, error) {
	var comment Comment
	if err := client.post(ctx, fmt.Sprintf("/posts/comment/%d/like", commentID), struct{}{}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
