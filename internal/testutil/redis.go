package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cory-johannsen/solace/internal/config"
)

// NewRedisConfig starts a Redis test container and returns enabled settings
// pointing at it.
func NewRedisConfig(t *testing.T) config.RedisConfig {
	t.Helper()
	ep := startContainer(t, "redis", testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}, "6379")
	return config.RedisConfig{
		Enabled:   true,
		Addr:      fmt.Sprintf("%s:%d", ep.host, ep.port),
		KeyPrefix: "test",
	}
}
