package chama_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/kikundi/chama/pkg/chamasdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for chama API end-to-end tests.
 * This includes container setup, account helpers and assertions.
 */

const (
	testImageName = "chama-api-test:latest"

	adminUsername = "treasurer"
	adminPassword = "Treasurer123!"
	memberPass    = "Member123!"
)

// TestMain builds the Docker image once before all tests and removes it
// after they complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building chama API Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up chama API Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/chama-api/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// relaxedLimits lifts the rate limits so tests can fire requests quickly.
var relaxedLimits = map[string]string{
	"RATELIMIT_STRICT_REQUESTS":   "1000",
	"RATELIMIT_STRICT_WINDOW_SEC": "60",
	"RATELIMIT_STRICT_BURST":      "1000",
	"RATELIMIT_MODERATE_REQUESTS": "1000",
	"RATELIMIT_MODERATE_BURST":    "1000",
}

// setupChamaContainer starts the API in a container with relaxed rate limits
// and returns the base URL. extra overrides any environment variable.
func setupChamaContainer(t *testing.T, extra map[string]string) (string, func()) {
	t.Helper()

	env := map[string]string{}
	for k, v := range relaxedLimits {
		env[k] = v
	}
	for k, v := range extra {
		env[k] = v
	}
	return startContainer(t, env)
}

// setupChamaContainerWithDefaultRateLimits keeps the production limits.
// Only the rate limit tests should need it.
func setupChamaContainerWithDefaultRateLimits(t *testing.T) (string, func()) {
	t.Helper()
	return startContainer(t, nil)
}

func startContainer(t *testing.T, extra map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"CHAMA_DATABASE_FILE":  "/data/chama.db",
		"CHAMA_PEPPER_FILE":    "/data/pepper",
		"CHAMA_ISSUER":         "chama-e2e",
		"CHAMA_ADMIN_USERNAME": adminUsername,
		"CHAMA_ADMIN_PASSWORD": adminPassword,
		"ENV":                  "test",
		"LOG_LEVEL":            "info",
		"LOG_FORMAT":           "json",
	}
	for k, v := range extra {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// registerMember creates an account and returns its session.
func registerMember(t *testing.T, client *chamasdk.SDKClient, username string, opts ...chamasdk.SessionOption) *chamasdk.Session {
	t.Helper()

	session, err := client.Register(t.Context(), chamasdk.RegisterRequest{
		Username: username,
		Password: memberPass,
	}, opts...)
	require.NoError(t, err, "Registration should succeed")
	require.True(t, session.Authenticated())

	return session
}

// loginAdmin logs in as the bootstrapped staff account.
func loginAdmin(t *testing.T, client *chamasdk.SDKClient) *chamasdk.Session {
	t.Helper()

	session, err := client.Login(t.Context(), adminUsername, adminPassword)
	require.NoError(t, err, "Admin login should succeed")

	return session
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *chamasdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

// assertKind checks err carries the given error kind.
func assertKind(t *testing.T, err, kind error, context string) {
	t.Helper()
	require.Error(t, err, context)
	require.ErrorIs(t, err, kind, "%s - got: %v", context, err)
}
