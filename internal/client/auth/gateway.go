package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/isokodocs/isoko/internal/client/api"
	"github.com/isokodocs/isoko/internal/client/models"
	"github.com/isokodocs/isoko/internal/client/session"
	"github.com/isokodocs/isoko/internal/common"
	"github.com/isokodocs/isoko/internal/logging"
)

// Transport sends a request to the backend. *api.Client implements it.
type Transport interface {
	Do(ctx context.Context, req *api.Request, out any) error
}

// Endpoints are the account paths the gateway talks to.
type Endpoints struct {
	Profile  string
	Login    string
	Register string
	Refresh  string
}

var DefaultEndpoints = Endpoints{
	Profile:  "/api/accounts/profile/",
	Login:    "/api/accounts/login/",
	Register: "/api/accounts/register/",
	Refresh:  "/api/accounts/refresh/",
}

type Gateway struct {
	mu    sync.RWMutex
	state State
	user  *models.User
	cred  models.Credential
	// gen changes on every login, logout and resolve so that a slow
	// background check cannot overwrite a newer session.
	gen uint64

	renewMu sync.Mutex

	store     session.Store
	transport Transport
	endpoints Endpoints
	log       logging.Logger
	renew     bool
	now       func() time.Time
}

type Option func(*Gateway)

func WithEndpoints(e Endpoints) Option {
	return func(g *Gateway) { g.endpoints = e }
}

func WithLogger(l logging.Logger) Option {
	return func(g *Gateway) { g.log = l }
}

// WithRenewal enables one silent renewal-and-retry when a request is
// rejected with 401 and the access token has expired.
func WithRenewal(enabled bool) Option {
	return func(g *Gateway) { g.renew = enabled }
}

func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

func NewGateway(store session.Store, transport Transport, opts ...Option) *Gateway {
	g := &Gateway{
		state:     Uninitialized,
		store:     store,
		transport: transport,
		endpoints: DefaultEndpoints,
		log:       logging.Discard(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// IsLoading is true until the persisted session has been resolved.
func (g *Gateway) IsLoading() bool {
	s := g.State()
	return s == Uninitialized || s == Resolving
}

func (g *Gateway) CurrentUser() (models.User, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.user == nil {
		return models.User{}, false
	}
	return *g.user, true
}

// AuthHeaders returns the Authorization header for the current access token,
// or an empty header set when there is none. It never blocks on I/O.
func (g *Gateway) AuthHeaders() http.Header {
	g.mu.RLock()
	defer g.mu.RUnlock()

	h := http.Header{}
	if g.cred.Access != "" {
		h.Set(common.AuthorizationHeader, common.BearerPrefix+g.cred.Access)
	}
	return h
}

// SessionExpiry reports when the current access token expires.
func (g *Gateway) SessionExpiry() (time.Time, bool) {
	g.mu.RLock()
	access := g.cred.Access
	g.mu.RUnlock()

	if access == "" {
		return time.Time{}, false
	}
	exp, err := TokenExpiry(access)
	if err != nil {
		return time.Time{}, false
	}
	return exp, true
}

// Resolve turns the persisted credential, if any, into a session. A
// credential the backend does not accept, for whatever reason, is cleared.
// A cancelled ctx leaves the session anonymous but the credential stored.
// Resolve never reports an error; the outcome is the returned state.
func (g *Gateway) Resolve(ctx context.Context) State {
	g.mu.Lock()
	g.state = Resolving
	g.gen++
	gen := g.gen
	g.mu.Unlock()

	cred, found, err := g.store.Load(ctx)
	if err != nil {
		g.log.Warn(ctx, "session load failed", "error", err)
	}
	if err != nil || !found {
		g.becomeAnonymous(ctx, gen, err != nil)
		return g.State()
	}

	g.mu.Lock()
	g.cred = cred
	g.mu.Unlock()

	var user models.User
	if err := g.Do(ctx, &api.Request{Method: http.MethodGet, Path: g.endpoints.Profile}, &user); err != nil {
		// An interrupted check says nothing about the credential; keep it
		// for the next start.
		if errors.Is(err, context.Canceled) {
			g.log.Info(ctx, "session check interrupted")
			g.becomeAnonymous(ctx, gen, false)
			return g.State()
		}
		g.log.Info(ctx, "persisted session not accepted", "error", err)
		g.becomeAnonymous(ctx, gen, true)
		return g.State()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gen != gen {
		return g.state
	}
	g.user = &user
	g.state = Authenticated
	g.log.Info(ctx, "session state changed", "state", g.state, "user", user.Username)
	return g.state
}

// becomeAnonymous drops the session started at gen. It reports false, and
// does nothing, when a newer session has replaced it.
func (g *Gateway) becomeAnonymous(ctx context.Context, gen uint64, clearStore bool) bool {
	g.mu.Lock()
	if g.gen != gen {
		g.mu.Unlock()
		return false
	}
	g.user = nil
	g.cred = models.Credential{}
	g.state = Anonymous
	g.mu.Unlock()

	if clearStore {
		if err := g.store.Clear(context.WithoutCancel(ctx)); err != nil {
			g.log.Error(ctx, "session clear failed", "error", err)
		}
	}
	g.log.Info(ctx, "session state changed", "state", Anonymous)
	return true
}

// Login authenticates with username and password.
func (g *Gateway) Login(ctx context.Context, username, password string) Result {
	var resp models.AuthResponse
	err := g.transport.Do(ctx, &api.Request{
		Method: http.MethodPost,
		Path:   g.endpoints.Login,
		JSON:   map[string]string{"username": username, "password": password},
	}, &resp)
	if err != nil {
		g.log.Info(ctx, "login failed", "username", username, "error", err)
		return failure(err, MsgLoginFailed)
	}
	return g.establish(ctx, resp, MsgLoginFailed)
}

// Register creates an account and logs it in. The form is validated before
// anything is sent.
func (g *Gateway) Register(ctx context.Context, form models.Registration) Result {
	if err := form.Validate(); err != nil {
		return failure(err, MsgRegistrationFailed)
	}

	var resp models.AuthResponse
	err := g.transport.Do(ctx, &api.Request{
		Method: http.MethodPost,
		Path:   g.endpoints.Register,
		JSON:   form,
	}, &resp)
	if err != nil {
		g.log.Info(ctx, "registration failed", "username", form.Username, "error", err)
		return failure(err, MsgRegistrationFailed)
	}
	return g.establish(ctx, resp, MsgRegistrationFailed)
}

func (g *Gateway) establish(ctx context.Context, resp models.AuthResponse, fallback string) Result {
	cred := resp.Credential()
	if !cred.Complete() {
		g.log.Warn(ctx, "auth response without tokens")
		return Result{Error: fallback}
	}
	if err := g.store.Save(ctx, cred); err != nil {
		g.log.Error(ctx, "session save failed", "error", err)
		return Result{Error: fallback}
	}

	user := resp.User
	g.mu.Lock()
	g.gen++
	g.cred = cred
	g.user = &user
	g.state = Authenticated
	g.mu.Unlock()

	g.log.Info(ctx, "session state changed", "state", Authenticated, "user", user.Username)
	return ok()
}

// Logout forgets the session. It is safe to call in any state and more than
// once; store failures are logged, not returned.
func (g *Gateway) Logout() {
	g.mu.Lock()
	if g.state == Anonymous && g.cred.Access == "" {
		g.mu.Unlock()
		return
	}
	g.gen++
	g.user = nil
	g.cred = models.Credential{}
	g.state = Anonymous
	g.mu.Unlock()

	ctx := context.Background()
	if err := g.store.Clear(ctx); err != nil {
		g.log.Error(ctx, "session clear failed", "error", err)
	}
	g.log.Info(ctx, "session state changed", "state", Anonymous)
}

// Revalidate repeats the identity check for an authenticated session.
// A 4xx answer ends the session and yields common.ErrSessionRevoked; a
// network failure or server error leaves the session alone and is returned
// as is.
func (g *Gateway) Revalidate(ctx context.Context) error {
	g.mu.RLock()
	state, gen := g.state, g.gen
	g.mu.RUnlock()

	if state != Authenticated {
		return nil
	}

	var user models.User
	err := g.Do(ctx, &api.Request{Method: http.MethodGet, Path: g.endpoints.Profile}, &user)
	if err == nil {
		g.mu.Lock()
		if g.gen == gen {
			g.user = &user
		}
		g.mu.Unlock()
		return nil
	}

	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status >= http.StatusInternalServerError {
		return err
	}

	if !g.becomeAnonymous(ctx, gen, true) {
		return nil
	}
	g.log.Warn(ctx, "session rejected by server", "status", apiErr.Status)
	return common.ErrSessionRevoked
}

// Do sends req with the Authorization header of the moment attached.
func (g *Gateway) Do(ctx context.Context, req *api.Request, out any) error {
	access := g.accessToken()

	err := g.transport.Do(ctx, g.authorized(req), out)
	if err == nil || !g.renew || access == "" || !errors.Is(err, api.ErrUnauthorized) {
		return err
	}
	if exp, expErr := TokenExpiry(access); expErr != nil || g.now().Before(exp) {
		return err
	}

	if renewErr := g.renewAccess(ctx, access); renewErr != nil {
		g.log.Info(ctx, "token renewal failed", "error", renewErr)
		return err
	}
	return g.transport.Do(ctx, g.authorized(req), out)
}

func (g *Gateway) accessToken() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cred.Access
}

func (g *Gateway) authorized(req *api.Request) *api.Request {
	clone := *req
	clone.Header = req.Header.Clone()
	if clone.Header == nil {
		clone.Header = http.Header{}
	}
	for k, vs := range g.AuthHeaders() {
		clone.Header[k] = vs
	}
	return &clone
}

// renewAccess trades the refresh token for a new access token. Concurrent
// callers holding the same stale token renew once.
func (g *Gateway) renewAccess(ctx context.Context, stale string) error {
	g.renewMu.Lock()
	defer g.renewMu.Unlock()

	g.mu.RLock()
	cred, gen := g.cred, g.gen
	g.mu.RUnlock()

	if cred.Access != stale {
		return nil
	}
	if cred.Refresh == "" {
		return common.ErrIncompleteCredential
	}

	var resp models.Credential
	err := g.transport.Do(ctx, &api.Request{
		Method: http.MethodPost,
		Path:   g.endpoints.Refresh,
		JSON:   map[string]string{"refresh": cred.Refresh},
	}, &resp)
	if err != nil {
		return err
	}
	if resp.Access == "" {
		return common.ErrTokenMalformed
	}
	if resp.Refresh == "" {
		resp.Refresh = cred.Refresh
	}
	if err := g.store.Save(ctx, resp); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gen == gen {
		g.cred = resp
	}
	g.log.Debug(ctx, "access token renewed")
	return nil
}
