package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/steam-profile-comments/internal/comments"
)

func newTestFetcher(t *testing.T, serverURL string, limiter Waiter) *Fetcher {
	t.Helper()
	f, err := New(Config{
		CommunityURL: serverURL,
		PageSize:     1000,
		UserAgent:    "comments-test",
		Timeout:      2 * time.Second,
	}, limiter, zap.NewNop())
	require.NoError(t, err)
	return f
}

func TestFetch_SendsRequiredRequest(t *testing.T) {
	t.Parallel()

	var (
		gotPath, gotOrigin, gotHost, gotAccept, gotUA string
		gotQuery                                     url.Values
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotOrigin = r.Header.Get("Origin")
		gotHost = r.Host
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"success":true,"start":0,"pagesize":1000,"total_count":2,"comments_html":"<div>x</div>"}`))
	}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(t, srv.URL, nil)
	doc, err := f.Fetch(context.Background(), "76561198085973818")
	require.NoError(t, err)
	require.Equal(t, comments.FeedDocument{TotalCount: 2, CommentsHTML: "<div>x</div>"}, doc)

	serverURL, err := url.Parse(srv.URL)
	require.NoError(t, err)
	require.Equal(t, "/comment/Profile/render/76561198085973818/-1/", gotPath)
	require.Equal(t, "0", gotQuery.Get("start"))
	require.Equal(t, "1000", gotQuery.Get("count"))
	require.Equal(t, srv.URL, gotOrigin)
	require.Equal(t, serverURL.Host, gotHost)
	require.Equal(t, acceptHeader, gotAccept)
	require.Equal(t, "comments-test", gotUA)
}

func TestFetch_SameAccountTwice(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"total_count":0,"comments_html":""}`))
	}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(t, srv.URL, nil)
	for i := 0; i < 2; i++ {
		doc, err := f.Fetch(context.Background(), "1")
		require.NoError(t, err)
		require.True(t, doc.Empty())
	}
	require.Equal(t, int32(2), hits.Load())
}

func TestFetch_PropagatesFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`<html>not json</html>`))
			},
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(tt.handler)
			t.Cleanup(srv.Close)

			_, err := newTestFetcher(t, srv.URL, nil).Fetch(context.Background(), "42")
			require.Error(t, err)
			require.False(t, errors.Is(err, comments.ErrNotFound))
		})
	}
}

func TestFetch_ContextCanceled(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"total_count":0}`))
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestFetcher(t, srv.URL, nil).Fetch(ctx, "42")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetch_LimiterErrorStopsRequest(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(srv.Close)

	limiter := waiterFunc(func(context.Context, string) error { return errors.New("closed") })
	_, err := newTestFetcher(t, srv.URL, limiter).Fetch(context.Background(), "42")
	require.Error(t, err)
	require.Zero(t, hits.Load())
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	t.Parallel()

	_, err := New(Config{CommunityURL: "steamcommunity.com"}, nil, nil)
	require.Error(t, err)
}

func TestFeedURL_Defaults(t *testing.T) {
	t.Parallel()

	f, err := New(Config{}, nil, nil)
	require.NoError(t, err)
	require.Equal(t,
		"https://steamcommunity.com/comment/Profile/render/7656/-1/?count=1000&start=0",
		f.feedURL("7656"),
	)
	require.Equal(t, "steamcommunity.com", f.requestHeaders().Get("Host"))
	require.Equal(t, "https://steamcommunity.com", f.requestHeaders().Get("Origin"))
}

type waiterFunc func(ctx context.Context, rawURL string) error

func (w waiterFunc) Wait(ctx context.Context, rawURL string) error {
	return w(ctx, rawURL)
}
