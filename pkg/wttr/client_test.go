package wttr

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupTrimsBody(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, "  London: clear +13C  \n")
	}))
	defer srv.Close()

	c := New(srv.URL+"/", srv.Client())
	out, err := c.Lookup(context.Background(), "London")
	require.NoError(t, err)
	assert.Equal(t, "London: clear +13C", out)
	assert.Equal(t, "/London", gotPath)
	assert.Equal(t, "format=3", gotQuery)
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestLookupEscapesCity(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	_, err := New(srv.URL, srv.Client()).Lookup(context.Background(), "New York")
	require.NoError(t, err)
	assert.Equal(t, "/New%20York", gotPath)
}

func TestLookupStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unknown location", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(srv.URL, srv.Client()).Lookup(context.Background(), "Atlantis")
	require.Error(t, err)
	code, ok := StatusCode(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, code)

	code, ok = StatusCode(fmt.Errorf("wrapped: %w", err))
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLookupConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := New(base, nil).Lookup(context.Background(), "London")
	require.Error(t, err)
	_, ok := StatusCode(err)
	assert.False(t, ok)
}

func TestNewDefaults(t *testing.T) {
	c := New("", nil)
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	assert.Equal(t, DefaultTimeout, c.HTTP.Timeout)
	assert.Equal(t, DefaultUserAgent, c.UserAgent)
}
