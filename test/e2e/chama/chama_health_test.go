package chama_test

import (
	"testing"

	"github.com/kikundi/chama/pkg/chamasdk"
	"github.com/stretchr/testify/require"
)

func TestLivezEndpoint(t *testing.T) {
	baseURL, cleanup := setupChamaContainer(t, nil)
	defer cleanup()

	client := chamasdk.NewSDKClient(baseURL)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)
	require.NotEmpty(t, health.Uptime)
}

func TestReadyzEndpoint(t *testing.T) {
	baseURL, cleanup := setupChamaContainer(t, nil)
	defer cleanup()

	client := chamasdk.NewSDKClient(baseURL)

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Signer)
}
