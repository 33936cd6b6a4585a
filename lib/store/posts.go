// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"

	"github.com/elhaouchomar/01blog/lib/api"
	"github.com/elhaouchomar/01blog/lib/retry"
	"github.com/elhaouchomar/01blog/lib/sanitize"
)

// FetchFeed loads the next feed page and appends it to the feed
// cache. With reset true the cache is cleared and loading restarts
// from the first page. A short page marks the feed as exhausted.
func (store *Store) FetchFeed(ctx context.Context, reset bool) error {
	store.feedMu.Lock()
	if reset {
		store.feedPage = 0
		store.feedHasMore = true
	}
	if !store.feedHasMore {
		store.feedMu.Unlock()
		return nil
	}
	page := store.feedPage
	store.feedMu.Unlock()

	posts, err := retry.Do(ctx, store.clock, store.policy(), func(ctx context.Context) ([]api.Post, error) {
		return store.api.Posts(ctx, page, feedPageSize)
	})
	if err != nil {
		return store.fail("fetch feed", err)
	}
	sanitizePosts(posts)

	store.feedMu.Lock()
	defer store.feedMu.Unlock()
	if store.feedPage != page {
		// A concurrent fetch already consumed this page number.
		return nil
	}
	store.feedPage++
	store.feedHasMore = len(posts) == feedPageSize
	if reset || page == 0 {
		store.feed.Set(posts)
		return nil
	}
	store.feed.Update(func(current []api.Post) []api.Post {
		return append(clonePosts(current), posts...)
	})
	return nil
}

// PostByID fetches a single post. The post caches are not consulted;
// detail views always show the server's current copy.
func (store *Store) PostByID(ctx context.Context, id int64) (*api.Post, error) {
	post, err := retry.Do(ctx, store.clock, store.policy(), func(ctx context.Context) (*api.Post, error) {
		return store.api.PostByID(ctx, id)
	})
	if err != nil {
		return nil, store.fail("load post", err)
	}
	sanitizePost(post)
	return post, nil
}

// UploadFiles sends media files to the server and returns their
// stored URLs, for attaching to a post.
func (store *Store) UploadFiles(ctx context.Context, files []api.UploadFile) ([]string, error) {
	if err := store.checkBanned(); err != nil {
		return nil, err
	}
	urls, err := store.api.UploadFiles(ctx, files)
	if err != nil {
		return nil, store.fail("upload files", err)
	}
	return urls, nil
}

// LoadManagementPosts loads the viewer's own posts into the
// management cache.
func (store *Store) LoadManagementPosts(ctx context.Context) error {
	user := store.user.Get()
	if user == nil {
		return fmt.Errorf("load management posts: not logged in")
	}
	posts, err := retry.Do(ctx, store.clock, store.policy(), func(ctx context.Context) ([]api.Post, error) {
		return store.api.UserPosts(ctx, user.ID, 0, managementPageSize)
	})
	if err != nil {
		return store.fail("load management posts", err)
	}
	sanitizePosts(posts)
	store.managed.Set(posts)
	return nil
}

// CreatePost publishes a new post and inserts the server's copy at
// the head of both post caches.
func (store *Store) CreatePost(ctx context.Context, request api.CreatePostRequest) (*api.Post, error) {
	if err := store.checkBanned(); err != nil {
		return nil, err
	}
	if err := ValidateTitle(request.Title); err != nil {
		return nil, err
	}
	if err := ValidatePostContent(request.Content); err != nil {
		return nil, err
	}
	request.Title = sanitize.PlainText(request.Title)
	request.Content = sanitize.PlainText(request.Content)

	post, err := store.api.CreatePost(ctx, request)
	if err != nil {
		return nil, store.fail("create post", err)
	}
	sanitizePost(post)

	store.postsMu.Lock()
	defer store.postsMu.Unlock()
	prepend := func(current []api.Post) []api.Post {
		if current == nil {
			return []api.Post{*post}
		}
		return append([]api.Post{*post}, current...)
	}
	store.feed.Update(prepend)
	store.managed.Update(prepend)
	return post, nil
}

// UpdatePost edits a post and replaces it in both caches with the
// server's copy.
func (store *Store) UpdatePost(ctx context.Context, id int64, request api.CreatePostRequest) (*api.Post, error) {
	if err := store.checkBanned(); err != nil {
		return nil, err
	}
	if err := ValidateTitle(request.Title); err != nil {
		return nil, err
	}
	if err := ValidatePostContent(request.Content); err != nil {
		return nil, err
	}
	request.Title = sanitize.PlainText(request.Title)
	request.Content = sanitize.PlainText(request.Content)

	post, err := store.api.UpdatePost(ctx, id, request)
	if err != nil {
		return nil, store.fail("update post", err)
	}
	sanitizePost(post)
	store.replacePostEverywhere(*post)
	return post, nil
}

// DeletePost removes a post optimistically from both caches, then
// confirms with the server. On failure the caches are restored,
// unless a newer write already replaced them.
func (store *Store) DeletePost(ctx context.Context, id int64) error {
	if err := store.checkBanned(); err != nil {
		return err
	}
	store.postsMu.Lock()
	feedBefore, feedVersion := store.feed.Snapshot()
	managedBefore, managedVersion := store.managed.Snapshot()
	store.feed.Update(func(current []api.Post) []api.Post {
		return withoutPost(current, id)
	})
	store.managed.Update(func(current []api.Post) []api.Post {
		return withoutPost(current, id)
	})
	store.postsMu.Unlock()

	// The snapshots were taken before our own optimistic writes, so
	// the restore targets the version right after them.
	if err := store.api.DeletePost(ctx, id); err != nil {
		store.postsMu.Lock()
		store.feed.RestoreIf(feedBefore, feedVersion+1)
		store.managed.RestoreIf(managedBefore, managedVersion+1)
		store.postsMu.Unlock()
		return store.fail("delete post", err)
	}
	return nil
}

// ToggleLike flips the viewer's like on a post. The flip is applied
// optimistically, then reconciled against the server's copy; on
// failure both caches are restored, unless a newer write already
// replaced them.
func (store *Store) ToggleLike(ctx context.Context, id int64) error {
	if err := store.checkBanned(); err != nil {
		return err
	}
	store.postsMu.Lock()
	feedBefore, feedVersion := store.feed.Snapshot()
	managedBefore, managedVersion := store.managed.Snapshot()
	store.applyPostLocked(id, flipLike)
	store.postsMu.Unlock()

	post, err := store.api.ToggleLike(ctx, id)
	if err != nil {
		// The snapshots were taken before our own optimistic writes,
		// so the restore targets the version right after them.
		store.postsMu.Lock()
		store.feed.RestoreIf(feedBefore, feedVersion+1)
		store.managed.RestoreIf(managedBefore, managedVersion+1)
		store.postsMu.Unlock()
		return store.fail("toggle like", err)
	}
	store.applyPostEverywhere(id, func(cached *api.Post) {
		cached.IsLiked = post.IsLiked
		cached.Likes = post.Likes
	})
	return nil
}

// TogglePostVisibility flips a post's hidden flag. Admin only.
func (store *Store) TogglePostVisibility(ctx context.Context, id int64) error {
	if err := store.checkBanned(); err != nil {
		return err
	}
	store.postsMu.Lock()
	feedBefore, feedVersion := store.feed.Snapshot()
	managedBefore, managedVersion := store.managed.Snapshot()
	store.applyPostLocked(id, func(post *api.Post) {
		post.Hidden = !post.Hidden
	})
	store.postsMu.Unlock()

	post, err := store.api.ToggleHidden(ctx, id)
	if err != nil {
		store.postsMu.Lock()
		store.feed.RestoreIf(feedBefore, feedVersion+1)
		store.managed.RestoreIf(managedBefore, managedVersion+1)
		store.postsMu.Unlock()
		return store.fail("toggle post visibility", err)
	}
	store.applyPostEverywhere(id, func(cached *api.Post) {
		cached.Hidden = post.Hidden
	})
	return nil
}

func flipLike(post *api.Post) {
	if post.IsLiked {
		post.IsLiked = false
		post.Likes--
	} else {
		post.IsLiked = true
		post.Likes++
	}
}

// CommentsForPost fetches a post's comments. Comments are not cached;
// only the per-post counters live in the post caches.
func (store *Store) CommentsForPost(ctx context.Context, postID int64) ([]api.Comment, error) {
	comments, err := retry.Do(ctx, store.clock, store.policy(), func(ctx context.Context) ([]api.Comment, error) {
		return store.api.Comments(ctx, postID)
	})
	if err != nil {
		return nil, store.fail("load comments", err)
	}
	for i := range comments {
		comments[i].Content = sanitize.PlainText(comments[i].Content)
	}
	return comments, nil
}

// AddComment posts a comment and bumps the post's comment counter in
// both caches.
func (store *Store) AddComment(ctx context.Context, postID int64, content string) (*api.Comment, error) {
	if err := store.checkBanned(); err != nil {
		return nil, err
	}
	if err := ValidateComment(content); err != nil {
		return nil, err
	}
	comment, err := store.api.AddComment(ctx, postID, sanitize.PlainText(content))
	if err != nil {
		return nil, store.fail("add comment", err)
	}
	comment.Content = sanitize.PlainText(comment.Content)
	store.applyPostEverywhere(postID, func(post *api.Post) {
		post.Comments++
	})
	return comment, nil
}

// DeleteComment removes a comment and decrements the post's counter.
func (store *Store) DeleteComment(ctx context.Context, postID, commentID int64) error {
	if err := store.checkBanned(); err != nil {
		return err
	}
	if err := store.api.DeleteComment(ctx, commentID); err != nil {
		return store.fail("delete comment", err)
	}
	store.applyPostEverywhere(postID, func(post *api.Post) {
		if post.Comments > 0 {
			post.Comments--
		}
	})
	return nil
}

// ToggleCommentLike flips the viewer's like on a comment and returns
// the server's copy.
func (store *Store) ToggleCommentLike(ctx context.Context, commentID int64) (*api.Comment, error) {
	if err := store.checkBanned(); err != nil {
		return nil, err
	}
	comment, err := store.api.ToggleCommentLike(ctx, commentID)
	if err != nil {
		return nil, store.fail("toggle comment like", err)
	}
	comment.Content = sanitize.PlainText(comment.Content)
	return comment, nil
}

// applyPostEverywhere mutates the post with the given id in both post
// caches, under the cross-cache lock so the two always move together.
func (store *Store) applyPostEverywhere(id int64, mutate func(*api.Post)) {
	store.postsMu.Lock()
	defer store.postsMu.Unlock()
	store.applyPostLocked(id, mutate)
}

// applyPostLocked is applyPostEverywhere for callers already holding
// postsMu, e.g. to snapshot and write under one lock hold.
func (store *Store) applyPostLocked(id int64, mutate func(*api.Post)) {
	apply := func(current []api.Post) []api.Post {
		out := clonePosts(current)
		for i := range out {
			if out[i].ID == id {
				mutate(&out[i])
			}
		}
		return out
	}
	store.feed.Update(apply)
	store.managed.Update(apply)
}

func (store *Store) replacePostEverywhere(post api.Post) {
	store.applyPostEverywhere(post.ID, func(cached *api.Post) {
		*cached = post
	})
}

func withoutPost(posts []api.Post, id int64) []api.Post {
	out := make([]api.Post, 0, len(posts))
	for _, post := range posts {
		if post.ID != id {
			out = append(out, post)
		}
	}
	return out
}

func sanitizePosts(posts []api.Post) {
	for i := range posts {
		sanitizePost(&posts[i])
	}
}

func sanitizePost(post *api.Post) {
	post.Title = sanitize.PlainText(post.Title)
	post.Content = sanitize.PlainText(post.Content)
}
