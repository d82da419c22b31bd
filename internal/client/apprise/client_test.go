package apprise

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailerseerr/internal/config"
	"github.com/trailerseerr/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	os.Exit(m.Run())
}

func TestNotify(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/notify/apprise", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Request Sent", r.PostForm.Get("title"))
		assert.Equal(t, "failure", r.PostForm.Get("type"))
		assert.Equal(t, "all", r.PostForm.Get("tags"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(config.AppriseConfig{BaseURL: server.URL}, config.Static{NotificationsEnabled: true})
	require.NoError(t, client.Notify(context.Background(), "Request Sent", "Dune was requested", KindError))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestNotifyDisabled(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	client := NewClient(config.AppriseConfig{BaseURL: server.URL}, config.Static{NotificationsEnabled: false})
	require.NoError(t, client.Notify(context.Background(), "t", "m", KindInfo))
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
	assert.False(t, client.IsEnabled())
}

func TestNotifyBodyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":"no services"}`))
	}))
	defer server.Close()

	client := NewClient(config.AppriseConfig{BaseURL: server.URL}, config.Static{NotificationsEnabled: true})
	err := client.Notify(context.Background(), "t", "m", KindSuccess)
	assert.EqualError(t, err, "apprise error: no services")
}

func TestNotifyLogOnly(t *testing.T) {
	client := NewClient(config.AppriseConfig{}, config.Static{NotificationsEnabled: true})
	assert.NoError(t, client.Notify(context.Background(), "t", "m", KindSuccess))
}
