package chama_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kikundi/chama/pkg/chamasdk"
	"github.com/stretchr/testify/require"
)

// TestRefreshRotation logs in, refreshes by hand and checks both tokens
// were replaced and the old refresh token no longer works.
func TestRefreshRotation(t *testing.T) {
	baseURL, cleanup := setupChamaContainer(t, nil)
	defer cleanup()

	client := chamasdk.NewSDKClient(baseURL)
	session := loginAdmin(t, client)
	old := session.Credentials()

	pair, err := client.RefreshGrant(t.Context(), old.Refresh)
	require.NoError(t, err)
	require.NotEqual(t, old.Access, pair.Access, "Access token should be rotated")
	require.NotEqual(t, old.Refresh, pair.Refresh, "Refresh token should be rotated")

	_, err = client.RefreshGrant(t.Context(), old.Refresh)
	assertKind(t, err, chamasdk.ErrUnauthenticated, "rotated refresh token")
}

// TestSessionRefreshesExpiredAccessToken runs the API with a one second
// access token lifetime and checks the session recovers transparently,
// including when several calls hit the expired token at once.
func TestSessionRefreshesExpiredAccessToken(t *testing.T) {
	baseURL, cleanup := setupChamaContainer(t, map[string]string{
		"CHAMA_ACCESS_TTL": "1s",
	})
	defer cleanup()

	client := chamasdk.NewSDKClient(baseURL)
	session := registerMember(t, client, "wanjiku")
	before := session.Credentials()

	time.Sleep(2 * time.Second)

	var wg sync.WaitGroup
	var failures atomic.Int32
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := session.Me(t.Context()); err != nil {
				t.Logf("Me failed: %v", err)
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Zero(t, failures.Load(), "every caller should be replayed with the refreshed token")
	require.NotEqual(t, before.Access, session.Credentials().Access)
	require.NotEqual(t, before.Refresh, session.Credentials().Refresh)
}

// TestRevokedSessionSignsOut revokes the refresh token behind the session's
// back and checks the next expired call clears the session.
func TestRevokedSessionSignsOut(t *testing.T) {
	baseURL, cleanup := setupChamaContainer(t, map[string]string{
		"CHAMA_ACCESS_TTL": "1s",
	})
	defer cleanup()

	client := chamasdk.NewSDKClient(baseURL)

	var redirected atomic.Int32
	session := registerMember(t, client, "otieno",
		chamasdk.WithUnauthenticatedHandler(func() { redirected.Add(1) }),
	)

	require.NoError(t, client.Revoke(t.Context(), session.Credentials().Refresh))
	time.Sleep(2 * time.Second)

	_, err := session.ListGroups(t.Context())
	assertKind(t, err, chamasdk.ErrUnauthenticated, "revoked session")
	require.Equal(t, int32(1), redirected.Load())
	require.False(t, session.Authenticated())
}

// TestLogout revokes the refresh token and empties the session.
func TestLogout(t *testing.T) {
	baseURL, cleanup := setupChamaContainer(t, nil)
	defer cleanup()

	client := chamasdk.NewSDKClient(baseURL)
	session := registerMember(t, client, "akinyi")
	refresh := session.Credentials().Refresh

	require.NoError(t, session.Logout(t.Context()))
	require.False(t, session.Authenticated())

	_, err := client.RefreshGrant(t.Context(), refresh)
	assertKind(t, err, chamasdk.ErrUnauthenticated, "refresh after logout")
}
