package status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/community-portal/internal/config"
	"github.com/spec-kit/community-portal/internal/domain"
)

const snapshotKey = "status:snapshot"

// snapshotTTL bounds how long a cached snapshot may be replayed as stale
// before the portal reports the server offline outright.
const snapshotTTL = 15 * time.Minute

// Fetcher retrieves a live status snapshot from the game server.
type Fetcher interface {
	Fetch(ctx context.Context) (*domain.ServerStatus, error)
}

// HTTPFetcher polls a JSON status endpoint.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

// NewHTTPFetcher builds the fetcher with a bounded request timeout.
func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type statusPayload struct {
	Online      bool     `json:"online"`
	PlayerCount int      `json:"player_count"`
	MaxPlayers  int      `json:"max_players"`
	MapName     string   `json:"map_name"`
	Players     []string `json:"players"`
}

// Fetch performs one GET against the status endpoint.
func (f *HTTPFetcher) Fetch(ctx context.Context) (*domain.ServerStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status endpoint returned %d", resp.StatusCode)
	}

	var payload statusPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return &domain.ServerStatus{
		Online:      payload.Online,
		PlayerCount: payload.PlayerCount,
		MaxPlayers:  payload.MaxPlayers,
		MapName:     payload.MapName,
		Players:     payload.Players,
		FetchedAt:   time.Now(),
	}, nil
}

// Cache persists the last-known-good snapshot across restarts.
type Cache interface {
	Store(ctx context.Context, status *domain.ServerStatus) error
	Load(ctx context.Context) (*domain.ServerStatus, error)
}

// RedisCache keeps the snapshot under a TTL-bounded key.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache builds the cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Store(ctx context.Context, status *domain.ServerStatus) error {
	if c.client == nil {
		return nil
	}
	payload, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotKey, payload, snapshotTTL).Err()
}

func (c *RedisCache) Load(ctx context.Context) (*domain.ServerStatus, error) {
	if c.client == nil {
		return nil, redis.Nil
	}
	payload, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		return nil, err
	}
	var status domain.ServerStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Poller fetches the game-server status on a cron cadence, caches the last
// good snapshot, and broadcasts every poll result through the hub. When a
// fetch fails it replays the cached snapshot flagged stale, and reports the
// server offline once no cached snapshot is available.
type Poller struct {
	fetcher Fetcher
	cache   Cache
	hub     *Hub
	logger  *zap.Logger

	cron     *cron.Cron
	interval time.Duration

	mu      sync.RWMutex
	current *domain.ServerStatus
}

// NewPoller constructs the poller and wires the hub's refresh trigger.
func NewPoller(cfg config.StatusConfig, fetcher Fetcher, cache Cache, hub *Hub, logger *zap.Logger) *Poller {
	p := &Poller{
		fetcher:  fetcher,
		cache:    cache,
		hub:      hub,
		logger:   logger,
		cron:     cron.New(),
		interval: cfg.Interval(),
	}
	if hub != nil {
		hub.SetRefreshFunc(func() { p.Refresh(context.Background()) })
	}
	return p
}

// Start primes the snapshot from cache, polls once immediately, then runs on
// the configured cadence until Stop.
func (p *Poller) Start(ctx context.Context) error {
	if cached, err := p.cache.Load(ctx); err == nil {
		cached.Stale = true
		p.setCurrent(cached)
	}

	p.Refresh(ctx)

	spec := fmt.Sprintf("@every %s", p.interval)
	if _, err := p.cron.AddFunc(spec, func() { p.Refresh(context.Background()) }); err != nil {
		return err
	}
	p.cron.Start()
	return nil
}

// Stop halts the cron scheduler, waiting for any in-flight poll.
func (p *Poller) Stop() {
	<-p.cron.Stop().Done()
}

// Current returns the latest snapshot, or an offline placeholder before the
// first poll completes.
func (p *Poller) Current() *domain.ServerStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return &domain.ServerStatus{Online: false, FetchedAt: time.Now(), Stale: true}
	}
	snapshot := *p.current
	return &snapshot
}

// Refresh performs one poll cycle and broadcasts the outcome.
func (p *Poller) Refresh(ctx context.Context) {
	fresh, err := p.fetcher.Fetch(ctx)
	if err != nil {
		p.logger.Warn("status fetch failed", zap.Error(err))
		p.serveFallback(ctx)
		return
	}

	if err := p.cache.Store(ctx, fresh); err != nil {
		p.logger.Warn("failed to cache status snapshot", zap.Error(err))
	}
	p.setCurrent(fresh)
	p.broadcast(fresh)
}

func (p *Poller) serveFallback(ctx context.Context) {
	cached, err := p.cache.Load(ctx)
	if err != nil {
		offline := &domain.ServerStatus{Online: false, FetchedAt: time.Now(), Stale: true}
		p.setCurrent(offline)
		p.broadcast(offline)
		return
	}
	cached.Stale = true
	p.setCurrent(cached)
	p.broadcast(cached)
}

func (p *Poller) setCurrent(status *domain.ServerStatus) {
	p.mu.Lock()
	p.current = status
	p.mu.Unlock()
}

func (p *Poller) broadcast(status *domain.ServerStatus) {
	if p.hub != nil {
		p.hub.Broadcast(status)
	}
}
