package chamasdk

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Session is a signed-in view of the API. Every call made through Do carries
// the current access token. When the server answers 401 the session refreshes
// the token once and replays the call once; concurrent callers that hit 401
// with the same token share a single refresh exchange.
//
// A Session is safe for concurrent use.
type Session struct {
	client            *SDKClient
	store             CredentialStore
	logger            *slog.Logger
	onUnauthenticated func()

	mu    sync.RWMutex
	creds Credentials
	// generation increases on every credential change. A request remembers
	// the generation it was sent with so a 401 can tell whether somebody
	// else already refreshed or cleared the credentials.
	generation uint64

	refreshes singleflight.Group
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithCredentialStore persists the session's credentials in store.
// Sessions use a MemoryStore by default.
func WithCredentialStore(store CredentialStore) SessionOption {
	return func(s *Session) { s.store = store }
}

// WithUnauthenticatedHandler registers fn to be called once each time the
// session loses its credentials because they could not be refreshed.
// Applications use it to send the user back to the login screen.
func WithUnauthenticatedHandler(fn func()) SessionOption {
	return func(s *Session) { s.onUnauthenticated = fn }
}

// WithLogger overrides the client's logger for this session.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

func newSession(client *SDKClient, opts []SessionOption) *Session {
	s := &Session{
		client: client,
		store:  NewMemoryStore(Credentials{}),
		logger: client.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Credentials returns the current credential pair.
func (s *Session) Credentials() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// Authenticated reports whether the session holds an access token.
func (s *Session) Authenticated() bool {
	return !s.Credentials().Empty()
}

// SetCredentials replaces the credential pair and persists it.
func (s *Session) SetCredentials(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = creds
	s.generation++
	return s.store.Save(creds)
}

// Logout revokes the refresh token on a best-effort basis and clears the
// credentials. The unauthenticated handler is not called.
func (s *Session) Logout(ctx context.Context) error {
	creds := s.Credentials()
	if creds.Refresh != "" {
		if err := s.client.Revoke(ctx, creds.Refresh); err != nil {
			s.logger.WarnContext(ctx, "failed to revoke refresh token", "error", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = Credentials{}
	s.generation++
	return s.store.Clear()
}

// ============================================================================
// Request Lifecycle
// ============================================================================

// attemptState tracks one call through the refresh-and-replay cycle.
// The only transitions are Idle -> RefreshInFlight -> Replayed.
type attemptState int

const (
	stateIdle attemptState = iota
	stateRefreshInFlight
	stateReplayed
)

func (st attemptState) String() string {
	switch st {
	case stateIdle:
		return "idle"
	case stateRefreshInFlight:
		return "refresh_in_flight"
	case stateReplayed:
		return "replayed"
	default:
		return "unknown"
	}
}

type attempt struct {
	req        *Request
	state      attemptState
	generation uint64
}

func (a *attempt) advance(next attemptState) error {
	if next != a.state+1 {
		return fmt.Errorf("request %s %s cannot move from %s to %s", a.req.Method, a.req.Path, a.state, next)
	}
	a.state = next
	return nil
}

// Do sends req with the current access token.
//
// A 401 triggers at most one refresh exchange and one replay of req with the
// new token. Whatever the replay returns is the result, including a second
// 401. If the refresh exchange fails for any reason the credentials are
// cleared and an ErrUnauthenticated error is returned.
//
// Non-401 responses are returned as they are; use the status code or the
// typed Session methods to turn them into errors.
func (s *Session) Do(ctx context.Context, req *Request) (*Response, error) {
	s.mu.RLock()
	access := s.creds.Access
	a := &attempt{req: req, generation: s.generation}
	s.mu.RUnlock()

	resp, err := s.client.send(ctx, req, access)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	if err := a.advance(stateRefreshInFlight); err != nil {
		return nil, err
	}
	access, err = s.awaitRefresh(ctx, a.generation)
	if err != nil {
		return nil, err
	}

	if err := a.advance(stateReplayed); err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "replaying request", "method", req.Method, "path", req.Path)
	return s.client.send(ctx, req, access)
}

// awaitRefresh waits for the refresh exchange that replaces the credentials
// of generation stale, starting it if nobody has. The exchange is detached
// from ctx so one caller giving up does not fail it for the others.
func (s *Session) awaitRefresh(ctx context.Context, stale uint64) (string, error) {
	ch := s.refreshes.DoChan(strconv.FormatUint(stale, 10), func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx), stale)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (s *Session) refresh(ctx context.Context, stale uint64) (string, error) {
	s.mu.RLock()
	creds, generation := s.creds, s.generation
	s.mu.RUnlock()

	if generation != stale {
		// Already refreshed, replaced or cleared since the request went out.
		if creds.Empty() {
			return "", unauthenticated("session has ended")
		}
		return creds.Access, nil
	}

	if creds.Refresh == "" {
		s.expire(ctx, stale)
		return "", unauthenticated("no refresh token available")
	}

	s.logger.DebugContext(ctx, "refreshing access token")
	pair, err := s.client.RefreshGrant(ctx, creds.Refresh)
	if err != nil {
		s.logger.WarnContext(ctx, "token refresh failed, clearing credentials", "error", err)
		s.expire(ctx, stale)
		return "", unauthenticated("token refresh failed: " + err.Error())
	}

	next := Credentials{Access: pair.Access, Refresh: creds.Refresh}
	if pair.Refresh != "" {
		next.Refresh = pair.Refresh
	}

	s.mu.Lock()
	if s.generation != stale {
		// A login or logout raced the exchange; it wins.
		current := s.creds
		s.mu.Unlock()
		if current.Empty() {
			return "", unauthenticated("session has ended")
		}
		return current.Access, nil
	}
	s.creds = next
	s.generation++
	if err := s.store.Save(next); err != nil {
		s.logger.WarnContext(ctx, "failed to persist refreshed credentials", "error", err)
	}
	s.mu.Unlock()

	return next.Access, nil
}

// expire clears the credentials of generation stale and notifies the
// unauthenticated handler. Newer credentials are left alone.
func (s *Session) expire(ctx context.Context, stale uint64) {
	s.mu.Lock()
	if s.generation != stale {
		s.mu.Unlock()
		return
	}
	s.creds = Credentials{}
	s.generation++
	if err := s.store.Clear(); err != nil {
		s.logger.WarnContext(ctx, "failed to clear stored credentials", "error", err)
	}
	s.mu.Unlock()

	if s.onUnauthenticated != nil {
		s.onUnauthenticated()
	}
}

// ============================================================================
// JSON helpers
// ============================================================================

// doJSON sends in as a JSON body (nil for none) and decodes the reply into out.
func (s *Session) doJSON(ctx context.Context, method, path string, in, out any, expectedStatus int) error {
	req, err := NewJSONRequest(method, path, in)
	if err != nil {
		return err
	}

	resp, err := s.Do(ctx, req)
	if err != nil {
		return err
	}

	return decodeJSON(resp, out, expectedStatus)
}

func (s *Session) get(ctx context.Context, path string, out any) error {
	return s.doJSON(ctx, http.MethodGet, path, nil, out, http.StatusOK)
}
