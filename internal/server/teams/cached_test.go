package teams

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkarpenko/regauth/internal/cache"
	"github.com/vkarpenko/regauth/internal/logging"
	"github.com/vkarpenko/regauth/internal/server/models"
)

type fakeCache struct {
	values map[string]bool
	getErr error
	setErr error
	sets   int
}

func (f *fakeCache) Get(ctx context.Context, key string, dest any) error {
	if f.getErr != nil {
		return f.getErr
	}
	v, ok := f.values[key]
	if !ok {
		return cache.ErrMiss
	}
	*(dest.(*bool)) = v
	return nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	if f.values == nil {
		f.values = map[string]bool{}
	}
	f.values[key] = value.(bool)
	return nil
}

type fakeChecker struct {
	member bool
	err    error
	calls  int
}

func (f *fakeChecker) IsMember(ctx context.Context, team models.Team, user *models.User) (bool, error) {
	f.calls++
	return f.member, f.err
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCachedChecker_MissThenHit(t *testing.T) {
	fc := &fakeCache{}
	next := &fakeChecker{member: true}
	c := NewCachedChecker(next, fc, time.Minute, discardLogger())

	member, err := c.IsMember(context.Background(), testTeam(), testUser())
	require.NoError(t, err)
	assert.True(t, member)
	assert.Equal(t, 1, next.calls)

	// Second lookup is served from the cache.
	member, err = c.IsMember(context.Background(), testTeam(), testUser())
	require.NoError(t, err)
	assert.True(t, member)
	assert.Equal(t, 1, next.calls)
}

func TestCachedChecker_LookupErrorNotCached(t *testing.T) {
	fc := &fakeCache{}
	next := &fakeChecker{err: errors.New("provider down")}
	c := NewCachedChecker(next, fc, time.Minute, discardLogger())

	_, err := c.IsMember(context.Background(), testTeam(), testUser())
	require.Error(t, err)
	assert.Zero(t, fc.sets, "errors must not be cached")
}

func TestCachedChecker_CacheFailureDegradesToLookup(t *testing.T) {
	fc := &fakeCache{getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	next := &fakeChecker{member: false}
	c := NewCachedChecker(next, fc, time.Minute, discardLogger())

	member, err := c.IsMember(context.Background(), testTeam(), testUser())
	require.NoError(t, err)
	assert.False(t, member)
	assert.Equal(t, 1, next.calls)
}
