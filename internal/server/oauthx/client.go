// Package oauthx wraps the OAuth code exchange and the provider's user
// endpoint behind one client.
package oauthx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/vkarpenko/regauth/internal/server/services"
)

// Client exchanges authorization codes and loads the provider user record.
type Client struct {
	oauth      *oauth2.Config
	apiBaseURL string
	httpClient *http.Client
}

// NewClient constructs a Client. apiBaseURL is the provider's REST API
// root; authURL and tokenURL are the OAuth endpoints.
func NewClient(clientID, clientSecret, authURL, tokenURL, apiBaseURL string) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		apiBaseURL: apiBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Exchange trades the authorization code for an access token.
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchanging code: %w", err)
	}
	return token.AccessToken, nil
}

// providerUser is the subset of the provider's user resource we consume.
type providerUser struct {
	ID        int64   `json:"id"`
	Login     string  `json:"login"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	AvatarURL *string `json:"avatar_url"`
}

// FetchUser loads the account behind accessToken from the provider API and
// shapes it into the candidate identity record.
func (c *Client) FetchUser(ctx context.Context, accessToken string) (services.NewIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+"/user", nil)
	if err != nil {
		return services.NewIdentity{}, fmt.Errorf("building user request: %w", err)
	}
	req.Header.Set("Authorization", "token "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.NewIdentity{}, fmt.Errorf("fetching provider user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return services.NewIdentity{}, fmt.Errorf("provider user endpoint returned %d", resp.StatusCode)
	}

	var u providerUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return services.NewIdentity{}, fmt.Errorf("decoding provider user: %w", err)
	}

	return services.NewIdentity{
		ProviderID:  u.ID,
		Login:       u.Login,
		Name:        u.Name,
		Email:       u.Email,
		AvatarURL:   u.AvatarURL,
		AccessToken: accessToken,
	}, nil
}
