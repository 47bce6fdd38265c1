package redis_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeeper/pkg/db/redis"
)

func TestNewClient(t *testing.T) {
	t.Run("connects to running server", func(t *testing.T) {
		srv := miniredis.RunT(t)
		host, portStr, _ := strings.Cut(srv.Addr(), ":")
		port, err := strconv.Atoi(portStr)
		require.NoError(t, err)

		client, err := redis.NewClient(context.Background(), &redis.Config{Host: host, Port: port})
		require.NoError(t, err)
		require.NotNil(t, client.RawClient())

		assert.NoError(t, client.Close())
	})

	t.Run("fails on unreachable server", func(t *testing.T) {
		client, err := redis.NewClient(context.Background(), &redis.Config{
			Host:    "127.0.0.1",
			Port:    1,
			Timeout: 100 * time.Millisecond,
		})

		require.Error(t, err)
		assert.Nil(t, client)
		assert.Contains(t, err.Error(), "failed to connect to redis")
	})
}

func TestConfigAddress(t *testing.T) {
	cfg := redis.Config{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", cfg.Address())
}
