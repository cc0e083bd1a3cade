package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"newsbrief/internal/config"
	"newsbrief/internal/models"
	"newsbrief/internal/pipeline"
)

type stubRunner struct {
	result *pipeline.Result
	err    error
	last   pipeline.Params
}

func (s *stubRunner) Run(_ context.Context, p pipeline.Params) (*pipeline.Result, error) {
	s.last = p
	return s.result, s.err
}

func newTestServer(runner briefingRunner) *server {
	return &server{
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		cfg:    &config.API{DefaultCap: 10, MaxCap: 30, RequestTimeout: time.Second},
		runner: runner,
	}
}

func TestHandleBriefingOk(t *testing.T) {
	runner := &stubRunner{result: &pipeline.Result{Items: []models.BriefingItem{
		{ID: "1", Item: models.NewsItem{Title: "t"}, ShortTitle: "t"},
	}}}
	srv := newTestServer(runner)

	req := httptest.NewRequest(http.MethodGet, "/briefing?keyword=AI&feeds=general,internet&limit=5", nil)
	rec := httptest.NewRecorder()
	srv.handleBriefing(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "AI", runner.last.Keyword)
	require.Equal(t, []string{"general", "internet"}, runner.last.Feeds)
	require.Equal(t, 5, runner.last.DisplayCap)

	var resp briefingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	require.Empty(t, resp.Reason)
}

func TestHandleBriefingEmptyReasons(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantReason string
	}{
		{name: "no feeds", err: pipeline.ErrNoFeeds, wantReason: "no feeds available"},
		{name: "no fresh items", err: pipeline.ErrNoFreshItems, wantReason: "no fresh items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &stubRunner{result: &pipeline.Result{}, err: tt.err}
			srv := newTestServer(runner)

			req := httptest.NewRequest(http.MethodGet, "/briefing?keyword=AI", nil)
			rec := httptest.NewRecorder()
			srv.handleBriefing(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)

			var resp briefingResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Empty(t, resp.Items)
			require.Equal(t, tt.wantReason, resp.Reason)
		})
	}
}

func TestHandleBriefingDefaults(t *testing.T) {
	runner := &stubRunner{result: &pipeline.Result{}}
	srv := newTestServer(runner)

	req := httptest.NewRequest(http.MethodGet, "/briefing", nil)
	rec := httptest.NewRecorder()
	srv.handleBriefing(rec, req)

	require.Equal(t, []string{"general"}, runner.last.Feeds)
	require.Equal(t, 10, runner.last.DisplayCap)
}

func TestClampInt(t *testing.T) {
	require.Equal(t, 10, clampInt("", 10, 30))
	require.Equal(t, 10, clampInt("junk", 10, 30))
	require.Equal(t, 10, clampInt("-2", 10, 30))
	require.Equal(t, 30, clampInt("100", 10, 30))
	require.Equal(t, 15, clampInt("15", 10, 30))
}
