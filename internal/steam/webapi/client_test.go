package webapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type echo struct {
	Value string `json:"value"`
}

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := New(Config{}, nil, nil)
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGet_AddsKeyAndDecodes(t *testing.T) {
	t.Parallel()

	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		// Steam sometimes labels JSON as text/html.
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`{"value":"ok"}`))
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL + "/", APIKey: "secret", UserAgent: "comments-test"}, nil, zap.NewNop())
	require.NoError(t, err)

	var out echo
	require.NoError(t, c.Get(context.Background(), "thing", "/ISteamUser/Thing/v1/", map[string]string{"foo": "bar"}, &out))
	require.Equal(t, "ok", out.Value)
	require.NotNil(t, got)
	require.Equal(t, "/ISteamUser/Thing/v1/", got.URL.Path)
	require.Equal(t, "secret", got.URL.Query().Get("key"))
	require.Equal(t, "bar", got.URL.Query().Get("foo"))
	require.Equal(t, "comments-test", got.Header.Get("User-Agent"))
}

func TestGet_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "forbidden",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "Forbidden", http.StatusForbidden)
			},
		},
		{
			name: "malformed",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"value":`))
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(tt.handler)
			t.Cleanup(srv.Close)

			c, err := New(Config{BaseURL: srv.URL, APIKey: "k"}, nil, nil)
			require.NoError(t, err)
			var out echo
			require.Error(t, c.Get(context.Background(), "thing", "/x", nil, &out))
		})
	}
}
