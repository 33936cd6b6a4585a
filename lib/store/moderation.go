// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"

	"github.com/elhaouchomar/01blog/lib/api"
	"github.com/elhaouchomar/01blog/lib/retry"
	"github.com/elhaouchomar/01blog/lib/sanitize"
)

// LoadStats fills the admin dashboard cache. Admin only.
func (store *Store) LoadStats(ctx context.Context) error {
	stats, err := retry.Do(ctx, store.clock, store.policy(), store.api.Stats)
	if err != nil {
		return store.fail("load stats", err)
	}
	store.stats.Set(stats)
	return nil
}

// LoadReports fills the moderation queue cache. Admin only.
func (store *Store) LoadReports(ctx context.Context) error {
	reports, err := retry.Do(ctx, store.clock, store.policy(), store.api.Reports)
	if err != nil {
		return store.fail("load reports", err)
	}
	for i := range reports {
		reports[i].Reason = sanitize.PlainText(reports[i].Reason)
	}
	store.reports.Set(reports)
	return nil
}

// ReportContent flags a user or post for moderation.
func (store *Store) ReportContent(ctx context.Context, request api.CreateReportRequest) error {
	if err := store.checkBanned(); err != nil {
		return err
	}
	if err := ValidateReportReason(request.Reason); err != nil {
		return err
	}
	request.Reason = sanitize.PlainText(request.Reason)
	if _, err := store.api.CreateReport(ctx, request); err != nil {
		return store.fail("report content", err)
	}
	return nil
}

// UpdateReportStatus moves a report through the moderation workflow
// and updates the queue entry in place. Admin only.
func (store *Store) UpdateReportStatus(ctx context.Context, id int64, status string) error {
	if err := store.checkBanned(); err != nil {
		return err
	}
	updated, err := store.api.UpdateReportStatus(ctx, id, status)
	if err != nil {
		return store.fail("update report status", err)
	}
	updated.Reason = sanitize.PlainText(updated.Reason)
	store.reports.Update(func(current []api.Report) []api.Report {
		out := make([]api.Report, len(current))
		copy(out, current)
		for i := range out {
			if out[i].ID == id {
				out[i] = *updated
			}
		}
		return out
	})
	return nil
}
