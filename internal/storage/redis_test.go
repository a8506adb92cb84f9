package storage

import (
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ fiber.Storage = (*Redis)(nil)

func skipIfNoRedis(t *testing.T) string {
	url := os.Getenv("STOREFRONT_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: STOREFRONT_TEST_REDIS_URL not set")
	}
	return url
}

func TestNewRedisValidatesURL(t *testing.T) {
	_, err := NewRedis("", DefaultPrefix)
	assert.Error(t, err)
	_, err = NewRedis("://nope", DefaultPrefix)
	assert.Error(t, err)
}

func TestRedisStorage(t *testing.T) {
	url := skipIfNoRedis(t)
	s, err := NewRedis(url, "storefront-test:")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	require.NoError(t, s.Reset())

	v, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Set("k", []byte("v"), time.Minute))
	v, err = s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	require.NoError(t, s.Delete("k"))
	v, _ = s.Get("k")
	assert.Nil(t, v)

	require.NoError(t, s.Set("a", []byte("1"), time.Minute))
	require.NoError(t, s.Set("b", []byte("2"), time.Minute))
	require.NoError(t, s.Reset())
	v, _ = s.Get("a")
	assert.Nil(t, v)

	require.NoError(t, s.Set("short", []byte("x"), 100*time.Millisecond))
	time.Sleep(300 * time.Millisecond)
	v, _ = s.Get("short")
	assert.Nil(t, v, "expired")
}
