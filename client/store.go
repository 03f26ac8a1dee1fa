// Package client implements the session store used by the HR front end. The
// store is the single writer of session state: the in-memory session, its
// persisted copy, and the cookies the edge gate reads on the next
// navigation are always updated together.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"hrm-access/models"
	"hrm-access/session"
	"hrm-access/token"
)

// Status is the session lifecycle state exposed to the UI
type Status string

const (
	// StatusLoading is the initial state, before the persisted session has
	// been checked.
	StatusLoading Status = "loading"
	// StatusAuthenticated means a valid session is present.
	StatusAuthenticated Status = "authenticated"
	// StatusUnauthenticated means no session, or an invalid one, is present.
	StatusUnauthenticated Status = "unauthenticated"
)

// Options configures a Store
type Options struct {
	// BaseURL is the backend origin, e.g. "http://localhost:8080".
	BaseURL string
	// Secret is the shared HMAC secret used to verify access tokens locally.
	Secret string
	// SessionTTL bounds the max-age of the mirrored cookies.
	SessionTTL time.Duration
	// Storage persists the session across restarts. Defaults to memory.
	Storage Storage
	// HTTPClient is used for backend calls and navigation. A cookie jar is
	// attached when the client has none.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Store owns the client-side session state
type Store struct {
	mu      sync.Mutex
	status  Status
	session *models.Session

	// seq stamps sign-in attempts; appliedSeq records the attempt that
	// produced the current session. A resolved attempt older than
	// appliedSeq is dropped instead of overwriting newer state.
	seq        uint64
	appliedSeq uint64

	api     *apiClient
	codec   *token.Codec
	storage Storage
	jar     http.CookieJar
	baseURL *url.URL
	ttl     time.Duration
	logger  *slog.Logger
}

// NewStore creates a session store in the loading state. Call Restore to
// hydrate it from persisted storage.
func NewStore(opts Options) (*Store, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		httpClient.Jar = jar
	}

	storage := opts.Storage
	if storage == nil {
		storage = &MemoryStorage{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		status:  StatusLoading,
		api:     &apiClient{baseURL: strings.TrimRight(opts.BaseURL, "/"), http: httpClient},
		codec:   token.NewCodec(opts.Secret, opts.SessionTTL),
		storage: storage,
		jar:     httpClient.Jar,
		baseURL: base,
		ttl:     opts.SessionTTL,
		logger:  logger,
	}, nil
}

// Status returns the current lifecycle state
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Session returns a copy of the current session, or nil when signed out
func (s *Store) Session() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

// HTTPClient returns the navigation client carrying the session cookies
func (s *Store) HTTPClient() *http.Client {
	return s.api.http
}

// Cookies returns the session cookies currently mirrored for the edge gate
func (s *Store) Cookies() []*http.Cookie {
	return s.jar.Cookies(s.baseURL)
}

// Restore hydrates the store from persisted storage. Corrupt or legacy data
// never fails startup: legacy single-role sessions are migrated in place,
// anything unreadable is discarded and the store lands unauthenticated.
func (s *Store) Restore() {
	raw, err := s.storage.Load()
	if err != nil || len(raw) == 0 {
		if err != nil {
			s.logger.Warn("failed to load persisted session", "error", err)
		}
		s.setUnauthenticated()
		return
	}

	sess, ok := decodePersisted(raw)
	if !ok {
		s.logger.Warn("discarding unreadable persisted session")
		s.discardPersisted()
		return
	}

	// Do not resurrect a session whose token no longer verifies
	if result := s.codec.Verify(sess.Token); !result.Valid {
		s.discardPersisted()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(sess)
}

// SignIn exchanges credentials for a token pair and publishes the resulting
// session. It returns the roles of the signed-in user. A stale call that
// resolves after a newer sign-in has been applied does not overwrite the
// newer session.
func (s *Store) SignIn(ctx context.Context, email, password string) ([]models.Role, error) {
	stamp := s.nextStamp()

	resp, err := s.api.login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return s.adoptTokenPair(stamp, resp)
}

// SignUp creates an account and signs the caller in with the returned pair
func (s *Store) SignUp(ctx context.Context, req models.CreateUserRequest) error {
	stamp := s.nextStamp()

	resp, err := s.api.signup(ctx, req)
	if err != nil {
		return err
	}

	_, err = s.adoptTokenPair(stamp, resp)
	return err
}

// SignOut revokes the refresh token best-effort and unconditionally clears
// the local session, cookies and persisted copy. The user's intent to leave
// always succeeds client-side.
func (s *Store) SignOut(ctx context.Context) {
	s.mu.Lock()
	refresh := ""
	if s.session != nil {
		refresh = s.session.RefreshToken
	}
	s.mu.Unlock()

	if err := s.api.logout(ctx, refresh); err != nil {
		s.logger.Warn("logout call failed, clearing local session anyway", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Invalidate any sign-in attempts still in flight
	s.appliedSeq = s.seq
	s.session = nil
	s.status = StatusUnauthenticated
	if err := s.storage.Clear(); err != nil {
		s.logger.Warn("failed to clear persisted session", "error", err)
	}
	s.clearCookiesLocked()
}

// ForgotPassword starts a password recovery and returns the reset token the
// backend issued (empty when the account does not exist)
func (s *Store) ForgotPassword(ctx context.Context, email string) (string, error) {
	return s.api.forgotPassword(ctx, email)
}

// ResetPassword completes a password recovery
func (s *Store) ResetPassword(ctx context.Context, tok, newPassword string) error {
	return s.api.resetPassword(ctx, tok, newPassword)
}

// adoptTokenPair verifies the access token locally, derives the session and
// applies it unless a newer sign-in already won.
func (s *Store) adoptTokenPair(stamp uint64, resp models.LoginResponse) ([]models.Role, error) {
	result := s.codec.Verify(resp.AccessToken)
	if !result.Valid {
		return nil, fmt.Errorf("backend returned an unusable access token: %s", result.Reason)
	}

	roles := models.NormalizeRoles(result.Payload.Roles)
	sess := &models.Session{
		User: models.SessionUser{
			ID:          result.Payload.Subject,
			Name:        result.Payload.Name,
			Email:       result.Payload.Email,
			Roles:       roles,
			Permissions: models.PermissionsForRoles(roles),
		},
		Token:        resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if stamp <= s.appliedSeq {
		// A newer sign-in resolved first, or a sign-out fenced this attempt
		// off; keep the current state.
		s.logger.Debug("dropping superseded sign-in result", "stamp", stamp)
		return roles, nil
	}
	s.appliedSeq = stamp
	s.applyLocked(sess)
	return roles, nil
}

// applyLocked publishes a session: in-memory state, persisted copy and
// mirrored cookies change together.
func (s *Store) applyLocked(sess *models.Session) {
	s.session = sess
	s.status = StatusAuthenticated

	if data, err := json.Marshal(sess); err == nil {
		if err := s.storage.Save(data); err != nil {
			s.logger.Warn("failed to persist session", "error", err)
		}
	}

	maxAge := int(s.ttl.Seconds())
	s.jar.SetCookies(s.baseURL, []*http.Cookie{
		{Name: session.CookieAccessToken, Value: sess.Token, Path: "/", MaxAge: maxAge},
		{Name: session.CookieRoles, Value: strings.Join(models.RoleStrings(sess.User.Roles), ","), Path: "/", MaxAge: maxAge},
		{Name: session.CookiePermissions, Value: strings.Join(models.PermissionStrings(sess.User.Permissions), ","), Path: "/", MaxAge: maxAge},
	})
}

func (s *Store) setUnauthenticated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	s.status = StatusUnauthenticated
}

func (s *Store) discardPersisted() {
	if err := s.storage.Clear(); err != nil {
		s.logger.Warn("failed to clear persisted session", "error", err)
	}
	s.setUnauthenticated()
}

func (s *Store) nextStamp() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

func (s *Store) clearCookiesLocked() {
	expired := time.Unix(0, 0)
	s.jar.SetCookies(s.baseURL, []*http.Cookie{
		{Name: session.CookieAccessToken, Value: "", Path: "/", MaxAge: -1, Expires: expired},
		{Name: session.CookieRoles, Value: "", Path: "/", MaxAge: -1, Expires: expired},
		{Name: session.CookiePermissions, Value: "", Path: "/", MaxAge: -1, Expires: expired},
	})
}

// persistedSession tolerates both the current multi-role shape and the
// legacy single-role shape that older clients wrote.
type persistedSession struct {
	User struct {
		ID    string   `json:"id"`
		Name  string   `json:"name"`
		Email string   `json:"email"`
		Role  string   `json:"role,omitempty"`
		Roles []string `json:"roles,omitempty"`
	} `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// decodePersisted migrates stored data to the multi-role shape and
// recomputes permissions. The migration is idempotent: a session that is
// already multi-role passes through unchanged.
func decodePersisted(raw []byte) (*models.Session, bool) {
	var stored persistedSession
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, false
	}
	if stored.Token == "" {
		return nil, false
	}

	rawRoles := stored.User.Roles
	if len(rawRoles) == 0 && stored.User.Role != "" {
		rawRoles = []string{stored.User.Role}
	}

	roles := models.NormalizeRoles(rawRoles)
	if len(roles) == 0 {
		return nil, false
	}

	return &models.Session{
		User: models.SessionUser{
			ID:          stored.User.ID,
			Name:        stored.User.Name,
			Email:       stored.User.Email,
			Roles:       roles,
			Permissions: models.PermissionsForRoles(roles),
		},
		Token:        stored.Token,
		RefreshToken: stored.RefreshToken,
	}, true
}
