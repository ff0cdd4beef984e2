// Package session keeps track of who is logged in at the desk.
//
// The session lives in three keys of the local database (token, user and
// loginTime in epoch milliseconds) and is only valid when all three are
// present. Store validates it at startup and periodically: a token whose
// exp claim has passed, a login older than the maximum session age, or a
// backend that no longer accepts the token all end the session.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/hoteldesk/internal/client/api"
	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
	"github.com/dmitrijs2005/hoteldesk/internal/client/repositories/kv"
	"github.com/dmitrijs2005/hoteldesk/internal/dbx"
	"github.com/dmitrijs2005/hoteldesk/internal/logging"
)

const (
	keyToken     = "token"
	keyUser      = "user"
	keyLoginTime = "loginTime"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNoSession          = errors.New("not logged in")
)

type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	}
	return "loading"
}

// API is the part of the backend client the store talks to.
type API interface {
	Login(ctx context.Context, username, password string) (*api.LoginResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithMaxAge sets how long after login a session is accepted regardless of
// the token's own expiry.
func WithMaxAge(d time.Duration) Option {
	return func(s *Store) { s.maxAge = d }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

type Store struct {
	api    API
	db     *sql.DB
	log    logging.Logger
	now    func() time.Time
	maxAge time.Duration

	mu          sync.RWMutex
	state       State
	token       string
	session     *models.Session
	subscribers map[int]func(State)
	nextSubID   int
}

func NewStore(client API, db *sql.DB, opts ...Option) *Store {
	s := &Store{
		api:         client,
		db:          db,
		log:         logging.Nop(),
		now:         time.Now,
		maxAge:      72 * time.Hour,
		state:       StateLoading,
		subscribers: map[int]func(State){},
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With("component", "session")
	return s
}

func (s *Store) repo() kv.Repository {
	return kv.NewSQLiteRepository(s.db)
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// Session returns a copy of the current session, or ErrNoSession.
func (s *Store) Session() (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateAuthenticated || s.session == nil {
		return models.Session{}, ErrNoSession
	}
	return *s.session, nil
}

// User returns the logged-in user; ok is false without a session.
func (s *Store) User() (models.User, bool) {
	sess, err := s.Session()
	if err != nil {
		return models.User{}, false
	}
	return sess.User, true
}

// Subscribe registers fn to be called after every state change. The
// returned func removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// setState must not be called with s.mu held.
func (s *Store) setState(state State, sess *models.Session) {
	s.mu.Lock()
	changed := s.state != state
	s.state = state
	s.session = sess
	if sess != nil {
		s.token = sess.Token
	} else {
		s.token = ""
	}
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	if changed {
		for _, fn := range subs {
			fn(state)
		}
	}
}

// Init resolves the initial loading state by validating any persisted
// session.
func (s *Store) Init(ctx context.Context) State {
	return s.CheckAuth(ctx)
}

// Login authenticates against the backend and persists the session. Bad
// credentials are reported as ErrInvalidCredentials.
func (s *Store) Login(ctx context.Context, username, password string) error {
	res, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.log.Info(ctx, "login failed", "username", username, "error", err)
		if errors.Is(err, api.ErrUnauthorized) {
			return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return fmt.Errorf("login: %w", err)
	}

	sess := &models.Session{
		User:      res.User,
		Token:     res.Token,
		LoginTime: s.now(),
	}
	if claims, err := parseClaims(res.Token); err == nil {
		if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
			sess.IssuedAt = iat.Time
		}
	}

	if err := s.persist(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.setState(StateAuthenticated, sess)
	s.log.Info(ctx, "logged in", "username", res.User.Username, "role", res.User.Role)
	return nil
}

// persist writes all three keys in one transaction so a crash never leaves
// a partial session behind.
func (s *Store) persist(ctx context.Context, sess *models.Session) error {
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	loginMillis := strconv.FormatInt(sess.LoginTime.UnixMilli(), 10)

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyToken, sess.Token); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyUser, string(userJSON)); err != nil {
			return err
		}
		return repo.Set(ctx, keyLoginTime, loginMillis)
	})
}

// Logout tells the backend (ignoring any failure) and always clears the
// local session. The returned error only reports a failure to clear local
// storage.
func (s *Store) Logout(ctx context.Context) error {
	if s.Token() != "" {
		if err := s.api.Logout(ctx); err != nil {
			s.log.Warn(ctx, "backend logout failed", "error", err)
		}
	}
	return s.clear(ctx)
}

func (s *Store) clear(ctx context.Context) error {
	err := s.repo().Delete(ctx, keyToken, keyUser, keyLoginTime)
	s.setState(StateUnauthenticated, nil)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) forceLogout(ctx context.Context, reason string) State {
	s.log.Info(ctx, "session ended", "reason", reason)
	if err := s.Logout(ctx); err != nil {
		s.log.Error(ctx, "failed to clear session", "error", err)
	}
	return StateUnauthenticated
}

// HandleUnauthorized ends the session after the backend rejected the token.
// It only clears local state; calling the logout endpoint with a rejected
// token would fail the same way.
func (s *Store) HandleUnauthorized() {
	if s.Token() == "" {
		return
	}
	ctx := context.Background()
	s.log.Info(ctx, "session ended", "reason", "token rejected by server")
	if err := s.clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear session", "error", err)
	}
}

// CheckAuth validates the persisted session and returns the resulting
// state. See the package documentation for the rules.
func (s *Store) CheckAuth(ctx context.Context) State {
	vals, err := s.repo().GetMany(ctx, keyToken, keyUser, keyLoginTime)
	if err != nil {
		if ctx.Err() != nil {
			return s.State()
		}
		s.log.Error(ctx, "failed to read session", "error", err)
		s.setState(StateUnauthenticated, nil)
		return StateUnauthenticated
	}
	if len(vals) < 3 {
		if len(vals) > 0 {
			return s.forceLogout(ctx, "incomplete session")
		}
		s.setState(StateUnauthenticated, nil)
		return StateUnauthenticated
	}

	sess, err := decodeSession(vals)
	if err != nil {
		return s.forceLogout(ctx, err.Error())
	}

	now := s.now()
	if tokenExpired(sess.Token, now) {
		return s.forceLogout(ctx, "token expired")
	}
	if now.Sub(sess.LoginTime) > s.maxAge {
		return s.forceLogout(ctx, "session too old")
	}

	s.mu.Lock()
	s.token = sess.Token
	s.mu.Unlock()

	if _, err := s.api.Me(ctx); err != nil {
		if ctx.Err() != nil {
			return s.State()
		}
		return s.forceLogout(ctx, "server rejected session: "+err.Error())
	}

	s.setState(StateAuthenticated, sess)
	return StateAuthenticated
}

func decodeSession(vals map[string]string) (*models.Session, error) {
	var user models.User
	if err := json.Unmarshal([]byte(vals[keyUser]), &user); err != nil {
		return nil, fmt.Errorf("corrupt user: %w", err)
	}
	millis, err := strconv.ParseInt(vals[keyLoginTime], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt login time: %w", err)
	}
	sess := &models.Session{
		User:      user,
		Token:     vals[keyToken],
		LoginTime: time.UnixMilli(millis),
	}
	if claims, err := parseClaims(sess.Token); err == nil {
		if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
			sess.IssuedAt = iat.Time
		}
	}
	return sess, nil
}

// RefreshUser reloads the user record from the backend and persists it.
// Failures are logged only.
func (s *Store) RefreshUser(ctx context.Context) {
	if !s.IsAuthenticated() {
		return
	}
	user, err := s.api.Me(ctx)
	if err != nil {
		s.log.Warn(ctx, "refresh user failed", "error", err)
		return
	}
	userJSON, err := json.Marshal(user)
	if err != nil {
		s.log.Warn(ctx, "refresh user failed", "error", err)
		return
	}
	if err := s.repo().Set(ctx, keyUser, string(userJSON)); err != nil {
		s.log.Warn(ctx, "refresh user failed", "error", err)
		return
	}

	s.mu.Lock()
	if s.session != nil {
		s.session.User = *user
	}
	s.mu.Unlock()
}

// StartWatcher re-validates the session every interval while
// authenticated. It blocks until ctx is done.
func (s *Store) StartWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !s.IsAuthenticated() {
				continue
			}
			checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			s.CheckAuth(checkCtx)
			cancel()

		case <-ctx.Done():
			return
		}
	}
}
