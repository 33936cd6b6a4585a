// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

// Package sessionjar persists the backend's session cookies between
// CLI runs. It wraps a standard cookie jar and mirrors the cookies of
// a single origin to a JSON file, written atomically so a crash never
// leaves a torn session file.
package sessionjar

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// storedCookie is the on-disk representation of one cookie.
type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"httpOnly,omitempty"`
}

// Jar is an http.CookieJar whose cookies for one origin survive
// process restarts. Cookies for other origins pass through to the
// in-memory jar only.
type Jar struct {
	mu     sync.Mutex
	inner  *cookiejar.Jar
	path   string
	origin *url.URL
	stored map[string]storedCookie
}

// Open loads (or creates) the jar file at path, scoped to origin.
// An empty path yields a purely in-memory jar.
func Open(path, origin string) (*Jar, error) {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("sessionjar: invalid origin %q", origin)
	}
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("sessionjar: %w", err)
	}
	jar := &Jar{
		inner:  inner,
		path:   path,
		origin: parsed,
		stored: make(map[string]storedCookie),
	}
	if path != "" {
		if err := jar.load(); err != nil {
			return nil, err
		}
	}
	return jar, nil
}

// Cookies implements http.CookieJar.
func (jar *Jar) Cookies(u *url.URL) []*http.Cookie {
	return jar.inner.Cookies(u)
}

// SetCookies implements http.CookieJar, persisting cookies that
// belong to the jar's origin.
func (jar *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	jar.inner.SetCookies(u, cookies)
	if u.Host != jar.origin.Host || jar.path == "" {
		return
	}

	jar.mu.Lock()
	defer jar.mu.Unlock()
	now := time.Now()
	for _, cookie := range cookies {
		expired := cookie.MaxAge < 0 || (!cookie.Expires.IsZero() && cookie.Expires.Before(now))
		if expired || cookie.Value == "" {
			delete(jar.stored, cookie.Name)
			continue
		}
		expires := cookie.Expires
		if cookie.MaxAge > 0 {
			expires = now.Add(time.Duration(cookie.MaxAge) * time.Second)
		}
		jar.stored[cookie.Name] = storedCookie{
			Name:     cookie.Name,
			Value:    cookie.Value,
			Path:     cookie.Path,
			Expires:  expires,
			Secure:   cookie.Secure,
			HTTPOnly: cookie.HttpOnly,
		}
	}
	if err := jar.saveLocked(); err != nil {
		// Losing persistence degrades to an in-memory session; the
		// current process keeps working.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}

// Clear forgets every persisted cookie and removes the jar file.
func (jar *Jar) Clear() error {
	jar.mu.Lock()
	defer jar.mu.Unlock()
	jar.stored = make(map[string]storedCookie)
	if jar.path == "" {
		return nil
	}
	if err := os.Remove(jar.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("sessionjar: removing %s: %w", jar.path, err)
	}
	return nil
}

func (jar *Jar) load() error {
	data, err := os.ReadFile(jar.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("sessionjar: reading %s: %w", jar.path, err)
	}
	var cookies []storedCookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		// A corrupt file means a lost session, not a broken client.
		return nil
	}

	now := time.Now()
	restored := make([]*http.Cookie, 0, len(cookies))
	for _, cookie := range cookies {
		if !cookie.Expires.IsZero() && cookie.Expires.Before(now) {
			continue
		}
		jar.stored[cookie.Name] = cookie
		restored = append(restored, &http.Cookie{
			Name:     cookie.Name,
			Value:    cookie.Value,
			Path:     cookie.Path,
			Expires:  cookie.Expires,
			Secure:   cookie.Secure,
			HttpOnly: cookie.HTTPOnly,
		})
	}
	jar.inner.SetCookies(jar.origin, restored)
	return nil
}

// saveLocked writes the store atomically: temp file in the same
// directory, then rename. Caller holds jar.mu.
func (jar *Jar) saveLocked() error {
	cookies := make([]storedCookie, 0, len(jar.stored))
	for _, cookie := range jar.stored {
		cookies = append(cookies, cookie)
	}
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("sessionjar: encoding: %w", err)
	}
	dir := filepath.Dir(jar.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("sessionjar: creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return fmt.Errorf("sessionjar: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sessionjar: writing %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sessionjar: chmod %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("sessionjar: closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, jar.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("sessionjar: renaming into place: %w", err)
	}
	return nil
}
