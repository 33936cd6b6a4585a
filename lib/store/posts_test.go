// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/elhaouchomar/01blog/lib/api"
	"github.com/elhaouchomar/01blog/lib/testutil"
)

func TestToggleLikeUpdatesBothCaches(t *testing.T) {
	mux := http.NewServeMux()
	liked := false
	mux.HandleFunc("POST /api/posts/1/like", func(writer http.ResponseWriter, request *http.Request) {
		liked = !liked
		likes := 5
		if liked {
			likes = 6
		}
		writeJSON(t, writer, api.Post{ID: 1, Likes: likes, IsLiked: liked})
	})
	store, _, _, _ := newTestStore(t, mux)
	seedPosts(store, api.Post{ID: 1, Title: "a", Likes: 5}, api.Post{ID: 2, Title: "b", Likes: 9})

	if err := store.ToggleLike(context.Background(), 1); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	for name, cell := range map[string]*Cell[[]api.Post]{"feed": store.Feed(), "managed": store.ManagedPosts()} {
		post := postByID(t, cell.Get(), 1)
		if post.Likes != 6 || !post.IsLiked {
			t.Errorf("%s post = likes %d liked %v, want 6 true", name, post.Likes, post.IsLiked)
		}
		other := postByID(t, cell.Get(), 2)
		if other.Likes != 9 {
			t.Errorf("%s untouched post changed: likes %d", name, other.Likes)
		}
	}

	// Toggling again returns to the original state.
	if err := store.ToggleLike(context.Background(), 1); err != nil {
		t.Fatalf("second ToggleLike: %v", err)
	}
	post := postByID(t, store.Feed().Get(), 1)
	if post.Likes != 5 || post.IsLiked {
		t.Errorf("post after double toggle = likes %d liked %v, want 5 false", post.Likes, post.IsLiked)
	}
}

func TestToggleLikeRevertsOnFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/posts/1/like", func(writer http.ResponseWriter, request *http.Request) {
		http.Error(writer, "nope", http.StatusInternalServerError)
	})
	store, _, _, _ := newTestStore(t, mux)
	seedPosts(store, api.Post{ID: 1, Likes: 5})

	if err := store.ToggleLike(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
	for name, cell := range map[string]*Cell[[]api.Post]{"feed": store.Feed(), "managed": store.ManagedPosts()} {
		post := postByID(t, cell.Get(), 1)
		if post.Likes != 5 || post.IsLiked {
			t.Errorf("%s post not reverted: likes %d liked %v", name, post.Likes, post.IsLiked)
		}
	}
}

func TestToggleLikeRevertSkipsNewerWrite(t *testing.T) {
	started := make(chan struct{})
	proceed := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/posts/1/like", func(writer http.ResponseWriter, request *http.Request) {
		close(started)
		<-proceed
		http.Error(writer, "nope", http.StatusInternalServerError)
	})
	store, _, _, _ := newTestStore(t, mux)
	seedPosts(store, api.Post{ID: 1, Likes: 5})

	done := make(chan error, 1)
	go func() {
		done <- store.ToggleLike(context.Background(), 1)
	}()

	// While the like is in flight, a fresh page load replaces both
	// caches with the server's newer truth. The failed toggle must
	// not write the stale pre-toggle state back over it.
	<-started
	replacement := []api.Post{{ID: 1, Likes: 42, IsLiked: true}}
	store.feed.Set(replacement)
	store.managed.Set(replacement)
	close(proceed)

	if err := testutil.Receive(t, done, 5*time.Second, "toggle did not finish"); err == nil {
		t.Fatal("expected error")
	}
	for name, cell := range map[string]*Cell[[]api.Post]{"feed": store.Feed(), "managed": store.ManagedPosts()} {
		post := postByID(t, cell.Get(), 1)
		if post.Likes != 42 || !post.IsLiked {
			t.Errorf("%s revert clobbered the newer load: likes %d liked %v", name, post.Likes, post.IsLiked)
		}
	}
}

func TestTogglePostVisibilitySyncsBothCaches(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/posts/1/toggle-hidden", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, api.Post{ID: 1, Hidden: true})
	})
	store, _, _, _ := newTestStore(t, mux)
	seedPosts(store, api.Post{ID: 1}, api.Post{ID: 2})

	if err := store.TogglePostVisibility(context.Background(), 1); err != nil {
		t.Fatalf("TogglePostVisibility: %v", err)
	}
	for name, cell := range map[string]*Cell[[]api.Post]{"feed": store.Feed(), "managed": store.ManagedPosts()} {
		if !postByID(t, cell.Get(), 1).Hidden {
			t.Errorf("%s post 1 not hidden", name)
		}
		if postByID(t, cell.Get(), 2).Hidden {
			t.Errorf("%s untouched post 2 hidden", name)
		}
	}
}

func TestTogglePostVisibilityRevertsOnFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/posts/1/toggle-hidden", func(writer http.ResponseWriter, request *http.Request) {
		http.Error(writer, "nope", http.StatusInternalServerError)
	})
	store, _, _, _ := newTestStore(t, mux)
	seedPosts(store, api.Post{ID: 1})

	if err := store.TogglePostVisibility(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
	for name, cell := range map[string]*Cell[[]api.Post]{"feed": store.Feed(), "managed": store.ManagedPosts()} {
		if postByID(t, cell.Get(), 1).Hidden {
			t.Errorf("%s post not reverted", name)
		}
	}
}

func TestDeletePostRollsBackOnFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/posts/1", func(writer http.ResponseWriter, request *http.Request) {
		http.Error(writer, "nope", http.StatusInternalServerError)
	})
	store, _, _, _ := newTestStore(t, mux)
	seedPosts(store, api.Post{ID: 1, Title: "keep me"}, api.Post{ID: 2})

	if err := store.DeletePost(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
	for name, cell := range map[string]*Cell[[]api.Post]{"feed": store.Feed(), "managed": store.ManagedPosts()} {
		if len(cell.Get()) != 2 {
			t.Errorf("%s has %d posts after rollback, want 2", name, len(cell.Get()))
		}
	}
}

func TestDeletePostRollbackSkipsNewerWrite(t *testing.T) {
	started := make(chan struct{})
	proceed := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/posts/1", func(writer http.ResponseWriter, request *http.Request) {
		close(started)
		<-proceed
		http.Error(writer, "nope", http.StatusInternalServerError)
	})
	store, _, _, _ := newTestStore(t, mux)
	seedPosts(store, api.Post{ID: 1}, api.Post{ID: 2})

	done := make(chan error, 1)
	go func() {
		done <- store.DeletePost(context.Background(), 1)
	}()

	// While the delete is in flight, a fresh page load replaces the
	// feed. The failed delete must not resurrect the old contents.
	<-started
	replacement := []api.Post{{ID: 10}, {ID: 11}, {ID: 12}}
	store.feed.Set(replacement)
	store.managed.Set(replacement)
	close(proceed)

	if err := testutil.Receive(t, done, 5*time.Second, "delete did not finish"); err == nil {
		t.Fatal("expected error")
	}
	for name, cell := range map[string]*Cell[[]api.Post]{"feed": store.Feed(), "managed": store.ManagedPosts()} {
		posts := cell.Get()
		if len(posts) != 3 || posts[0].ID != 10 {
			t.Errorf("%s rollback clobbered the newer load: %v", name, posts)
		}
	}
}

func TestDeletePostRemovesFromBothCaches(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/posts/1", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	})
	store, _, _, _ := newTestStore(t, mux)
	seedPosts(store, api.Post{ID: 1}, api.Post{ID: 2})

	if err := store.DeletePost(context.Background(), 1); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	for name, cell := range map[string]*Cell[[]api.Post]{"feed": store.Feed(), "managed": store.ManagedPosts()} {
		posts := cell.Get()
		if len(posts) != 1 || posts[0].ID != 2 {
			t.Errorf("%s = %v, want only post 2", name, posts)
		}
	}
}

func TestCreatePostPrependsAndSanitizes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/posts", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, api.Post{ID: 3, Title: "<b>Hello</b>", Content: "body text"})
	})
	store, _, _, _ := newTestStore(t, mux)
	seedPosts(store, api.Post{ID: 1})

	post, err := store.CreatePost(context.Background(), api.CreatePostRequest{Title: "Hello", Content: "body text"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.Title != "Hello" {
		t.Errorf("Title = %q, markup not stripped", post.Title)
	}
	for name, cell := range map[string]*Cell[[]api.Post]{"feed": store.Feed(), "managed": store.ManagedPosts()} {
		posts := cell.Get()
		if len(posts) != 2 || posts[0].ID != 3 {
			t.Errorf("%s = %v, want new post first", name, posts)
		}
	}
}

func TestCreatePostValidation(t *testing.T) {
	store, _, _, transport := newTestStore(t, http.NewServeMux())

	_, err := store.CreatePost(context.Background(), api.CreatePostRequest{Title: "ab", Content: "long enough"})
	var validation *ValidationError
	if !errors.As(err, &validation) || validation.Field != "title" {
		t.Fatalf("err = %v, want title ValidationError", err)
	}
	_, err = store.CreatePost(context.Background(), api.CreatePostRequest{Title: "fine title", Content: "ab"})
	if !errors.As(err, &validation) || validation.Field != "content" {
		t.Fatalf("err = %v, want content ValidationError", err)
	}
	if transport.attempts.Load() != 0 {
		t.Error("validation failure still sent a request")
	}
}

func TestAddCommentBumpsCountersInBothCaches(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/posts/1/comment", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, api.Comment{ID: 7, Content: "nice"})
	})
	store, _, _, _ := newTestStore(t, mux)
	seedPosts(store, api.Post{ID: 1, Comments: 2})

	if _, err := store.AddComment(context.Background(), 1, "nice"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	for name, cell := range map[string]*Cell[[]api.Post]{"feed": store.Feed(), "managed": store.ManagedPosts()} {
		if got := postByID(t, cell.Get(), 1).Comments; got != 3 {
			t.Errorf("%s comment count = %d, want 3", name, got)
		}
	}
}

func TestFeedPaginationEndDetection(t *testing.T) {
	var requests atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts", func(writer http.ResponseWriter, request *http.Request) {
		requests.Add(1)
		page := request.URL.Query().Get("page")
		var posts []api.Post
		count := feedPageSize
		if page == "1" {
			count = 3 // short page: the feed is exhausted
		}
		base := int64(0)
		if page == "1" {
			base = int64(feedPageSize)
		}
		for i := 0; i < count; i++ {
			posts = append(posts, api.Post{ID: base + int64(i) + 1, Title: "post"})
		}
		writeJSON(t, writer, posts)
	})
	store, _, _, _ := newTestStore(t, mux)

	if err := store.FetchFeed(context.Background(), false); err != nil {
		t.Fatalf("FetchFeed page 0: %v", err)
	}
	if !store.FeedHasMore() {
		t.Fatal("full page should leave more expected")
	}
	if err := store.FetchFeed(context.Background(), false); err != nil {
		t.Fatalf("FetchFeed page 1: %v", err)
	}
	if store.FeedHasMore() {
		t.Error("short page should mark the feed exhausted")
	}
	if got := len(store.Feed().Get()); got != feedPageSize+3 {
		t.Errorf("feed has %d posts, want %d", got, feedPageSize+3)
	}

	// Exhausted feed: further fetches are free.
	if err := store.FetchFeed(context.Background(), false); err != nil {
		t.Fatalf("FetchFeed after exhaustion: %v", err)
	}
	if got := requests.Load(); got != 2 {
		t.Errorf("server saw %d requests, want 2", got)
	}

	// Reset starts over from page zero.
	if err := store.FetchFeed(context.Background(), true); err != nil {
		t.Fatalf("FetchFeed reset: %v", err)
	}
	if got := len(store.Feed().Get()); got != feedPageSize {
		t.Errorf("feed after reset has %d posts, want %d", got, feedPageSize)
	}
}

func TestFetchFeedSanitizesContent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, []api.Post{{
			ID:      1,
			Title:   `Fancy <script>alert("x")</script>Title`,
			Content: "a &amp; b",
		}})
	})
	store, _, _, _ := newTestStore(t, mux)

	if err := store.FetchFeed(context.Background(), false); err != nil {
		t.Fatalf("FetchFeed: %v", err)
	}
	post := postByID(t, store.Feed().Get(), 1)
	if post.Title != "Fancy Title" {
		t.Errorf("Title = %q", post.Title)
	}
	if post.Content != "a & b" {
		t.Errorf("Content = %q", post.Content)
	}
}

func TestFetchFeedRetryBound(t *testing.T) {
	var requests atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts", func(writer http.ResponseWriter, request *http.Request) {
		requests.Add(1)
		http.Error(writer, "overloaded", http.StatusInternalServerError)
	})
	store, fake, _, _ := newTestStore(t, mux)

	done := make(chan error, 1)
	go func() {
		done <- store.FetchFeed(context.Background(), false)
	}()

	fake.BlockUntilPending(1)
	fake.Advance(defaultRetryDelay)
	fake.BlockUntilPending(1)
	fake.Advance(2 * defaultRetryDelay)

	if err := testutil.Receive(t, done, 5*time.Second, "fetch did not finish"); err == nil {
		t.Fatal("expected error")
	}
	if got := requests.Load(); got != 3 {
		t.Errorf("server saw %d attempts, want 3 (1 + 2 retries)", got)
	}
}

func TestFetchFeedNotFoundNotRetried(t *testing.T) {
	var requests atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts", func(writer http.ResponseWriter, request *http.Request) {
		requests.Add(1)
		http.Error(writer, "gone", http.StatusNotFound)
	})
	store, _, _, _ := newTestStore(t, mux)

	if err := store.FetchFeed(context.Background(), false); err == nil {
		t.Fatal("expected error")
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("server saw %d attempts, want 1", got)
	}
}

func TestAuthFailureClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts", func(writer http.ResponseWriter, request *http.Request) {
		http.Error(writer, "session expired", http.StatusUnauthorized)
	})
	store, _, _, _ := newTestStore(t, mux)
	seedUser(store, api.User{ID: 1, Role: "USER"})

	if err := store.FetchFeed(context.Background(), false); err == nil {
		t.Fatal("expected error")
	}
	if store.IsLoggedIn() {
		t.Error("session survived a 401")
	}
}
