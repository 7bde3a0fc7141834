// Package testutil provides container-backed fixtures for storage
// integration tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

// endpoint is the host-reachable address of a started container port.
type endpoint struct {
	host string
	port int
}

// startContainer runs req, registers its termination on t's cleanup and
// returns where port is mapped on the host. The test is skipped under -short.
//
// Precondition: Docker must be available; port must be one of req.ExposedPorts
// without the protocol suffix.
func startContainer(t *testing.T, name string, req testcontainers.ContainerRequest, port string) endpoint {
	t.Helper()
	if testing.Short() {
		t.Skipf("%s container skipped in -short mode", name)
	}
	ctx := context.Background()
	start := time.Now()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("starting %s container: %v [%s]", name, err, time.Since(start))
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("getting %s container host: %v", name, err)
	}
	mapped, err := container.MappedPort(ctx, port)
	if err != nil {
		t.Fatalf("getting %s mapped port: %v", name, err)
	}
	t.Logf("%s container started [%s]", name, time.Since(start))
	return endpoint{host: host, port: mapped.Int()}
}
