package teams

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vkarpenko/regauth/internal/cache"
	"github.com/vkarpenko/regauth/internal/logging"
	"github.com/vkarpenko/regauth/internal/server/models"
)

// membershipCache is the slice of cache.Cache used here.
type membershipCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CachedChecker memoizes membership answers in Redis for a short TTL.
// Provider lookups are rate-limited upstream, and a resource with several
// team owners would otherwise hit the provider once per team per request.
// Cache failures degrade to a direct lookup; they never fail the check.
type CachedChecker struct {
	next   MembershipChecker
	cache  membershipCache
	ttl    time.Duration
	logger logging.Logger
}

func NewCachedChecker(next MembershipChecker, c membershipCache, ttl time.Duration, logger logging.Logger) *CachedChecker {
	return &CachedChecker{next: next, cache: c, ttl: ttl, logger: logger}
}

func membershipKey(team models.Team, user *models.User) string {
	return fmt.Sprintf("teams:%s/%s:member:%d", team.Org, team.Name, user.ID)
}

func (c *CachedChecker) IsMember(ctx context.Context, team models.Team, user *models.User) (bool, error) {
	key := membershipKey(team, user)

	var member bool
	err := c.cache.Get(ctx, key, &member)
	if err == nil {
		return member, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		c.logger.Warn(ctx, "membership cache read failed", "key", key, "error", err)
	}

	member, err = c.next.IsMember(ctx, team, user)
	if err != nil {
		return false, err
	}

	if err := c.cache.Set(ctx, key, member, c.ttl); err != nil {
		c.logger.Warn(ctx, "membership cache write failed", "key", key, "error", err)
	}
	return member, nil
}
