package chama_test

import (
	"errors"
	"testing"

	"github.com/kikundi/chama/pkg/chamasdk"
	"github.com/stretchr/testify/require"
)

// TestLoginRateLimit hammers the password endpoint with one username and
// expects to be throttled before the default strict limit runs out.
func TestLoginRateLimit(t *testing.T) {
	baseURL, cleanup := setupChamaContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := chamasdk.NewSDKClient(baseURL)

	var throttled bool
	for i := range 20 {
		_, err := client.ObtainToken(t.Context(), adminUsername, "wrong-password")
		require.Error(t, err)

		var apiErr *chamasdk.APIError
		require.True(t, errors.As(err, &apiErr))
		if apiErr.StatusCode == 429 {
			t.Logf("throttled after %d attempts", i)
			throttled = true
			break
		}
		require.ErrorIs(t, err, chamasdk.ErrUnauthenticated)
	}

	require.True(t, throttled, "login attempts should be rate limited")
}
