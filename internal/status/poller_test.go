package status_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/community-portal/internal/config"
	"github.com/spec-kit/community-portal/internal/domain"
	"github.com/spec-kit/community-portal/internal/status"
)

type stubFetcher struct {
	status *domain.ServerStatus
	err    error
}

func (f *stubFetcher) Fetch(context.Context) (*domain.ServerStatus, error) {
	return f.status, f.err
}

type memoryCache struct {
	stored *domain.ServerStatus
}

func (c *memoryCache) Store(_ context.Context, s *domain.ServerStatus) error {
	clone := *s
	c.stored = &clone
	return nil
}

func (c *memoryCache) Load(context.Context) (*domain.ServerStatus, error) {
	if c.stored == nil {
		return nil, errors.New("empty cache")
	}
	clone := *c.stored
	return &clone, nil
}

func newTestPoller(fetcher status.Fetcher, cache status.Cache) *status.Poller {
	cfg := config.StatusConfig{IntervalSeconds: 60, TimeoutSeconds: 1}
	return status.NewPoller(cfg, fetcher, cache, nil, zap.NewNop())
}

func TestRefreshStoresAndServesLiveSnapshot(t *testing.T) {
	fetcher := &stubFetcher{status: &domain.ServerStatus{
		Online:      true,
		PlayerCount: 12,
		MaxPlayers:  64,
		MapName:     "downtown",
		FetchedAt:   time.Now(),
	}}
	cache := &memoryCache{}
	poller := newTestPoller(fetcher, cache)

	poller.Refresh(context.Background())

	current := poller.Current()
	require.True(t, current.Online)
	require.Equal(t, 12, current.PlayerCount)
	require.False(t, current.Stale)

	require.NotNil(t, cache.stored)
	require.Equal(t, 12, cache.stored.PlayerCount)
}

func TestRefreshFailureReplaysCachedSnapshotAsStale(t *testing.T) {
	cache := &memoryCache{stored: &domain.ServerStatus{
		Online:      true,
		PlayerCount: 7,
		FetchedAt:   time.Now().Add(-time.Minute),
	}}
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	poller := newTestPoller(fetcher, cache)

	poller.Refresh(context.Background())

	current := poller.Current()
	require.True(t, current.Online)
	require.Equal(t, 7, current.PlayerCount)
	require.True(t, current.Stale)
}

func TestRefreshFailureWithoutCacheReportsOffline(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	poller := newTestPoller(fetcher, &memoryCache{})

	poller.Refresh(context.Background())

	current := poller.Current()
	require.False(t, current.Online)
	require.True(t, current.Stale)
}

func TestCurrentBeforeFirstPoll(t *testing.T) {
	poller := newTestPoller(&stubFetcher{err: errors.New("never called")}, &memoryCache{})

	current := poller.Current()
	require.False(t, current.Online)
	require.True(t, current.Stale)
}

func TestHTTPFetcherDecodesPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"online":true,"player_count":3,"max_players":32,"map_name":"harbor","players":["a","b","c"]}`))
	}))
	defer server.Close()

	fetcher := status.NewHTTPFetcher(server.URL, time.Second)
	snapshot, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)
	require.True(t, snapshot.Online)
	require.Equal(t, 3, snapshot.PlayerCount)
	require.Equal(t, 32, snapshot.MaxPlayers)
	require.Equal(t, "harbor", snapshot.MapName)
	require.Len(t, snapshot.Players, 3)
	require.False(t, snapshot.FetchedAt.IsZero())
}

func TestHTTPFetcherRejectsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	fetcher := status.NewHTTPFetcher(server.URL, time.Second)
	_, err := fetcher.Fetch(context.Background())
	require.Error(t, err)
}

func TestHubBroadcastRetainsLastSnapshotForJoiners(t *testing.T) {
	hub := status.NewHub(zap.NewNop())
	require.Equal(t, 0, hub.ClientCount())

	// Broadcast with no subscribers must not block or panic; the snapshot is
	// retained for the next client.
	hub.Broadcast(&domain.ServerStatus{Online: true, PlayerCount: 5, FetchedAt: time.Now()})
	require.Equal(t, 0, hub.ClientCount())
}
