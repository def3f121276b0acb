package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/spec-kit/community-portal/internal/config"
)

const discordIdentityURL = "https://discord.com/api/users/@me"

// DiscordIdentity is the subset of the provider's user object the portal
// cares about.
type DiscordIdentity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

// IdentityProvider abstracts the external OAuth collaborator so services can
// be tested without network access.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	FetchIdentity(ctx context.Context, code string) (*DiscordIdentity, error)
}

// DiscordProvider exchanges authorization codes against Discord and fetches
// the authenticated identity. Both calls share one short timeout and are
// never retried.
type DiscordProvider struct {
	oauth   *oauth2.Config
	timeout time.Duration
}

// NewDiscordProvider builds the provider from config.
func NewDiscordProvider(cfg config.DiscordConfig) *DiscordProvider {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DiscordProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"identify", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://discord.com/api/oauth2/authorize",
				TokenURL: "https://discord.com/api/oauth2/token",
			},
		},
		timeout: timeout,
	}
}

// Configured reports whether OAuth credentials are present.
func (p *DiscordProvider) Configured() bool {
	return p.oauth.ClientID != "" && p.oauth.ClientSecret != ""
}

// AuthCodeURL returns the provider's authorization URL for the given state.
func (p *DiscordProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// FetchIdentity exchanges the code and loads the current identity.
func (p *DiscordProvider) FetchIdentity(ctx context.Context, code string) (*DiscordIdentity, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("discord token exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discordIdentityURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := (&http.Client{Timeout: p.timeout}).Do(req)
	if err != nil {
		return nil, fmt.Errorf("discord identity fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discord identity fetch: status %d", resp.StatusCode)
	}

	var identity DiscordIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("discord identity decode: %w", err)
	}
	if identity.ID == "" {
		return nil, fmt.Errorf("discord identity missing id")
	}
	return &identity, nil
}
