/*
Package chamasdk provides a client SDK for the chama savings group API.

# Overview

The package is organized around two main types:

  - SDKClient: unauthenticated operations (login, registration, health) and
    the raw token endpoints
  - Session: authenticated operations. Every request carries the session's
    bearer token and expired tokens are refreshed transparently

	client := chamasdk.NewSDKClient("https://chama.example.com")

	session, err := client.Login(ctx, "wanjiku", "secret-password",
		chamasdk.WithCredentialStore(chamasdk.NewFileStore(path)),
		chamasdk.WithUnauthenticatedHandler(func() {
			// send the user back to the login screen
		}),
	)

	groups, err := session.ListGroups(ctx)

A session can be resumed later from the same store:

	session, err := client.NewSession(chamasdk.WithCredentialStore(store))

# Token Refresh

Access tokens are short lived. When the API answers 401 the session:

 1. exchanges its refresh token for a new access token, once
 2. replays the original request, once, with the new token
 3. returns whatever the replay returns

Concurrent requests that fail with the same expired token wait for the same
exchange instead of starting their own. A request that fails after another
request already refreshed is simply replayed with the new token.

If the exchange fails for any reason, including a network failure, the
credentials are cleared from memory and from the store, the unauthenticated
handler is called and every waiting request returns ErrUnauthenticated.
A 401 on the replayed request is final.

# Error Handling

API errors are returned as *APIError and match one of the kind sentinels:

	_, err := session.GetGroup(ctx, id)
	switch {
	case errors.Is(err, chamasdk.ErrUnauthenticated):
		// log in again
	case errors.Is(err, chamasdk.ErrForbidden):
		// not a member
	case errors.Is(err, chamasdk.ErrValidation):
		var apiErr *chamasdk.APIError
		errors.As(err, &apiErr)
		fmt.Println(apiErr.Fields)
	}

# Thread Safety

Sessions are safe for concurrent use.
*/
package chamasdk
