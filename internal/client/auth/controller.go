// Package auth owns the application-wide authentication state.
//
// The controller starts in Bootstrapping and leaves it exactly once, to
// Authenticated or Anonymous, when Bootstrap has read the persisted session.
// Consumers must render Bootstrapping as its own placeholder state, never as
// Anonymous. Login and Logout move between the two ready states.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/clubhub/internal/client/models"
	"github.com/dmitrijs2005/clubhub/internal/client/session"
	"github.com/dmitrijs2005/clubhub/internal/logging"
)

type State int

const (
	Bootstrapping State = iota
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Bootstrapping:
		return "bootstrapping"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// SessionStore is the persistence the controller commits to.
type SessionStore interface {
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, user *models.User, token string) error
	Clear(ctx context.Context) error
}

// RemoteLogout invalidates the session on the server.
type RemoteLogout interface {
	Logout(ctx context.Context) error
}

type Controller struct {
	store  SessionStore
	remote RemoteLogout
	log    logging.Logger
	now    func() time.Time

	// serializes transitions; never taken by HandleUnauthorized
	opMu sync.Mutex

	mu        sync.Mutex
	state     State
	user      *models.User
	listeners []func(State, *models.User)
}

func NewController(store SessionStore, remote RemoteLogout, log logging.Logger) *Controller {
	if log == nil {
		log = logging.Nop()
	}
	return &Controller{
		store:  store,
		remote: remote,
		log:    log.With("component", "auth"),
		now:    time.Now,
		state:  Bootstrapping,
	}
}

// Subscribe registers fn for every transition. Listeners run outside locks.
func (c *Controller) Subscribe(fn func(State, *models.User)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Controller) set(state State, user *models.User) {
	c.mu.Lock()
	changed := c.state != state || c.user != user
	c.state, c.user = state, user
	fns := append([]func(State, *models.User){}, c.listeners...)
	c.mu.Unlock()

	if changed {
		for _, fn := range fns {
			fn(state, user)
		}
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// User returns the signed-in user, or nil unless Authenticated.
func (c *Controller) User() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

func (c *Controller) IsAuthenticated() bool { return c.State() == Authenticated }

// Ready reports whether bootstrap has finished.
func (c *Controller) Ready() bool { return c.State() != Bootstrapping }

// Bootstrap reads the persisted session and leaves Bootstrapping. It never
// fails: any error, including a panic in the store, yields Anonymous.
// Calling it again after startup is a no-op that returns the current state.
func (c *Controller) Bootstrap(ctx context.Context) State {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if st := c.State(); st != Bootstrapping {
		return st
	}
	return c.derive(ctx)
}

// CheckAuth re-derives the state from persisted storage, e.g. after a token
// was refreshed or cleared outside the controller.
func (c *Controller) CheckAuth(ctx context.Context) State {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	return c.derive(ctx)
}

func (c *Controller) derive(ctx context.Context) (st State) {
	defer func() {
		if p := recover(); p != nil {
			c.log.Warn(ctx, "session restore panicked, continuing anonymous", "panic", p)
			c.set(Anonymous, nil)
			st = Anonymous
		}
	}()

	sess, err := c.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			c.log.Warn(ctx, "persisted session unusable, continuing anonymous", "err", err)
		}
		c.set(Anonymous, nil)
		return Anonymous
	}
	if !sess.Valid() {
		c.log.Warn(ctx, "persisted session incomplete, continuing anonymous")
		c.set(Anonymous, nil)
		return Anonymous
	}

	if info, ok := session.InspectToken(sess.Token); ok && info.Expired(c.now()) {
		// the gateway refreshes on the first 401, so the session is kept
		c.log.Info(ctx, "restored token is past its expiry", "expired_at", info.ExpiresAt)
	}

	c.log.Debug(ctx, "session restored", "user_id", sess.User.ID)
	c.set(Authenticated, sess.User)
	return Authenticated
}

// Login commits a session obtained from the gateway. On a storage error
// the state is left unchanged.
func (c *Controller) Login(ctx context.Context, user *models.User, token string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := c.store.Save(ctx, user, token); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	c.log.Info(ctx, "logged in", "user_id", user.ID, "role", user.Role)
	c.set(Authenticated, user)
	return nil
}

// Logout invalidates the session remotely (best effort) and then clears it
// locally. The controller ends Anonymous even if either step fails; only a
// local storage failure is returned.
func (c *Controller) Logout(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.remote != nil {
		if err := c.remote.Logout(ctx); err != nil {
			c.log.Warn(ctx, "remote logout failed, clearing locally", "err", err)
		}
	}

	err := c.store.Clear(ctx)
	c.set(Anonymous, nil)
	if err != nil {
		c.log.Error(ctx, "failed to clear persisted session", "err", err)
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// HandleUnauthorized is the gateway hook for a failed token refresh. The
// session is already cleared; the controller only drops to Anonymous.
func (c *Controller) HandleUnauthorized(ctx context.Context) {
	c.log.Warn(ctx, "session expired, signing out")
	c.set(Anonymous, nil)
}
