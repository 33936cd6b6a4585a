// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"net/url"
)

// Stats fetches the admin dashboard aggregate. Admin only.
func (client *Client) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := client.get(ctx, "/dashboard/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Reports fetches the moderation queue. Admin only.
func (client *Client) Reports(ctx context.Context) ([]Report, error) {
	var reports []Report
	if err := client.get(ctx, "/reports", &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// CreateReport flags content for moderation.
func (client *Client) CreateReport(ctx context.Context, request CreateReportRequest) (*Report, error) {
	var report Report
	if err := client.post(ctx, "/reports", request, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// UpdateReportStatus moves a report through the moderation workflow.
// Admin only.
func (client *Client) UpdateReportStatus(ctx context.Context, id int64, status string) (*Report, error) {
	var report Report
	path := fmt.Sprintf("/reports/%d/status?status=%s", id, url.QueryEscape(status))
	if err := client.put(ctx, path, struct{}{}, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Search runs a mixed posts/people search. Filter is "all", "posts",
// or "people".
func (client *Client) Search(ctx context.Context, query, filter string, limit int) (*SearchResults, error) {
	path := fmt.Sprintf("/search?q=%s&filter=%s&limit=%d",
		url.QueryEscape(query), url.QueryEscape(filter), limit)
	var results SearchResults
	if err := client.get(ctx, path, &results); err != nil {
		return nil, err
	}
	return &results, nil
}
