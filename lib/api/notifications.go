// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
)

// Notifications fetches one page of the viewer's notifications.
func (client *Client) Notifications(ctx context.Context, page, size int) ([]Notification, error) {
	var notifications []Notification
	if err := client.get(ctx, "/notifications"+pageQuery(page, size), &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead marks a single notification as read.
func (client *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	return client.put(ctx, fmt.Sprintf("/notifications/%d/read", id), struct{}{}, nil)
}

// MarkAllNotificationsRead marks every notification as read.
func (client *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return client.put(ctx, "/notifications/read-all", struct{}{}, nil)
}
