package teams

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/vkarpenko/regauth/internal/server/models"
)

// ProviderClient checks membership through the provider's REST API, using
// the acting user's own access credential so provider-side visibility
// rules apply.
type ProviderClient struct {
	baseURL string
	httpc   *http.Client
}

func NewProviderClient(baseURL string) *ProviderClient {
	return &ProviderClient{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

type membershipResponse struct {
	State string `json:"state"`
}

func (c *ProviderClient) IsMember(ctx context.Context, team models.Team, user *models.User) (bool, error) {
	url := fmt.Sprintf("%s/orgs/%s/teams/%s/memberships/%s", c.baseURL, team.Org, team.Name, user.Login)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("building membership request: %w", err)
	}
	req.Header.Set("Authorization", "token "+user.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return false, fmt.Errorf("membership lookup: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var m membershipResponse
		if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
			return false, fmt.Errorf("decoding membership response: %w", err)
		}
		return m.State == "active", nil
	case http.StatusNotFound:
		// The provider answers 404 both for "not a member" and for teams
		// the credential cannot see.
		return false, nil
	default:
		return false, fmt.Errorf("membership lookup: unexpected status %d", resp.StatusCode)
	}
}
