package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/vkarpenko/regauth/internal/flagx"
	"github.com/vkarpenko/regauth/internal/timex"
)

// JsonConfig is the file-format counterpart of Config. Interval fields use
// timex.Duration so both string values such as "24h" and integer
// nanoseconds parse.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	DatabaseDSN      string         `json:"database_dsn"`
	SessionSecret    string         `json:"session_secret"`
	SessionValidity  timex.Duration `json:"session_validity"`
	MaxTokensPerUser int64          `json:"max_tokens_per_user"`

	OAuthClientID      string `json:"oauth_client_id"`
	OAuthClientSecret  string `json:"oauth_client_secret"`
	OAuthAuthURL       string `json:"oauth_auth_url"`
	OAuthTokenURL      string `json:"oauth_token_url"`
	ProviderAPIBaseURL string `json:"provider_api_base_url"`

	SMTPAddr      string `json:"smtp_addr"`
	SMTPFrom      string `json:"smtp_from"`
	PublicBaseURL string `json:"public_base_url"`

	RedisAddr    string         `json:"redis_addr"`
	TeamCacheTTL timex.Duration `json:"team_cache_ttl"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into config. Absent file path means nothing to load.
// Only fields present with non-zero values override the current config.
func parseJson(config *Config) error {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SessionSecret, c.SessionSecret)
	setDuration(&config.SessionValidity, c.SessionValidity)
	if c.MaxTokensPerUser != 0 {
		config.MaxTokensPerUser = c.MaxTokensPerUser
	}

	setString(&config.OAuthClientID, c.OAuthClientID)
	setString(&config.OAuthClientSecret, c.OAuthClientSecret)
	setString(&config.OAuthAuthURL, c.OAuthAuthURL)
	setString(&config.OAuthTokenURL, c.OAuthTokenURL)
	setString(&config.ProviderAPIBaseURL, c.ProviderAPIBaseURL)

	setString(&config.SMTPAddr, c.SMTPAddr)
	setString(&config.SMTPFrom, c.SMTPFrom)
	setString(&config.PublicBaseURL, c.PublicBaseURL)

	setString(&config.RedisAddr, c.RedisAddr)
	setDuration(&config.TeamCacheTTL, c.TeamCacheTTL)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
