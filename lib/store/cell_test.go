// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"testing"
	"time"

	"github.com/elhaouchomar/01blog/lib/testutil"
)

func TestCellSetAndGet(t *testing.T) {
	cell := NewCell(1)
	if got := cell.Get(); got != 1 {
		t.Errorf("Get = %d, want 1", got)
	}
	cell.Set(2)
	if got := cell.Get(); got != 2 {
		t.Errorf("Get = %d, want 2", got)
	}
}

func TestCellSubscribeSeesLatestValue(t *testing.T) {
	cell := NewCell(0)
	updates, cancel := cell.Subscribe()
	defer cancel()

	cell.Set(1)
	if got := testutil.Receive(t, updates, time.Second, "first update"); got != 1 {
		t.Errorf("update = %d, want 1", got)
	}

	// A burst while the subscriber is not reading coalesces to the
	// newest value.
	cell.Set(2)
	cell.Set(3)
	cell.Set(4)
	if got := testutil.Receive(t, updates, time.Second, "coalesced update"); got != 4 {
		t.Errorf("update = %d, want 4", got)
	}
}

func TestCellCancelStopsNotifications(t *testing.T) {
	cell := NewCell(0)
	updates, cancel := cell.Subscribe()
	cancel()
	cell.Set(1)
	select {
	case v := <-updates:
		t.Errorf("received %d after cancel", v)
	default:
	}
}

func TestCellRestoreIf(t *testing.T) {
	cell := NewCell("initial")
	before, version := cell.Snapshot()

	cell.Set("optimistic")
	if !cell.RestoreIf(before, version+1) {
		t.Fatal("restore refused with no intervening write")
	}
	if got := cell.Get(); got != "initial" {
		t.Errorf("Get = %q, want initial", got)
	}
}

func TestCellRestoreIfSkipsNewerWrite(t *testing.T) {
	cell := NewCell("initial")
	before, version := cell.Snapshot()

	cell.Set("optimistic")
	cell.Set("newer") // lands while the request is in flight

	if cell.RestoreIf(before, version+1) {
		t.Fatal("restore clobbered a newer write")
	}
	if got := cell.Get(); got != "newer" {
		t.Errorf("Get = %q, want newer", got)
	}
}
