// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/elhaouchomar/01blog/lib/api"
)

func TestReportContentValidatesReason(t *testing.T) {
	store, _, _, transport := newTestStore(t, http.NewServeMux())

	err := store.ReportContent(context.Background(), api.CreateReportRequest{
		Reason:         "too short",
		ReportedPostID: 1,
	})
	var validation *ValidationError
	if !errors.As(err, &validation) || validation.Field != "reason" {
		t.Fatalf("err = %v, want reason ValidationError", err)
	}
	if transport.attempts.Load() != 0 {
		t.Error("validation failure still sent a request")
	}
}

func TestReportContent(t *testing.T) {
	mux := http.NewServeMux()
	var received api.CreateReportRequest
	mux.HandleFunc("POST /api/reports", func(writer http.ResponseWriter, request *http.Request) {
		if err := decodeInto(request, &received); err != nil {
			t.Errorf("decoding report: %v", err)
		}
		writeJSON(t, writer, api.Report{ID: 5, Status: api.ReportPending})
	})
	store, _, _, _ := newTestStore(t, mux)

	err := store.ReportContent(context.Background(), api.CreateReportRequest{
		Reason:         "this post is spam and harassment",
		ReportedPostID: 1,
	})
	if err != nil {
		t.Fatalf("ReportContent: %v", err)
	}
	if received.ReportedPostID != 1 {
		t.Errorf("sent ReportedPostID = %d", received.ReportedPostID)
	}
}

func TestUpdateReportStatusEditsQueueInPlace(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/reports/5/status", func(writer http.ResponseWriter, request *http.Request) {
		if got := request.URL.Query().Get("status"); got != api.ReportResolved {
			t.Errorf("status query = %q", got)
		}
		writeJSON(t, writer, api.Report{ID: 5, Reason: "spam content here", Status: api.ReportResolved})
	})
	store, _, _, _ := newTestStore(t, mux)
	store.reports.Set([]api.Report{
		{ID: 4, Status: api.ReportPending},
		{ID: 5, Status: api.ReportPending},
	})

	if err := store.UpdateReportStatus(context.Background(), 5, api.ReportResolved); err != nil {
		t.Fatalf("UpdateReportStatus: %v", err)
	}
	reports := store.Reports().Get()
	if reports[1].Status != api.ReportResolved {
		t.Errorf("report 5 status = %q, want resolved", reports[1].Status)
	}
	if reports[0].Status != api.ReportPending {
		t.Error("untouched report changed")
	}
}
