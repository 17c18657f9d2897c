package navigation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Visit reports where a navigation request ended up
type Visit struct {
	// Route is the visible route after the request settled
	Route Route
	// Requested is the route that was asked for
	Requested Route
	State     VisitState
}

// Redirected reports whether the requested route was replaced by another one
func (v Visit) Redirected() bool {
	return v.State == Redirected
}

// Option configures a Navigator
type Option func(*Navigator)

// WithLogger sets the logger used for visit and session logging
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// WithMiddleware adds middleware applied to every route, outermost first
func WithMiddleware(mws ...Middleware) Option {
	return func(n *Navigator) {
		n.middleware = append(n.middleware, mws...)
	}
}

// WithHistory restores a previously saved back stack instead of the start route
func WithHistory(routes []Route) Option {
	return func(n *Navigator) {
		n.history = routes
	}
}

// WithRoutes overrides the home, splash and login route tags
func WithRoutes(home, splash, login string) Option {
	return func(n *Navigator) {
		n.homeName, n.splashName, n.loginName = home, splash, login
	}
}

type navigateOptions struct {
	popUpTo   string
	inclusive bool
	clear     bool
}

// NavigateOption adjusts the back stack before the target is pushed
type NavigateOption func(*navigateOptions)

// PopUpTo pops entries above the most recent route named name before pushing.
// With inclusive set, that route is popped too.
func PopUpTo(name string, inclusive bool) NavigateOption {
	return func(o *navigateOptions) {
		o.popUpTo = name
		o.inclusive = inclusive
	}
}

// ClearStack empties the back stack before pushing
func ClearStack() NavigateOption {
	return func(o *navigateOptions) {
		o.clear = true
	}
}

// Navigator maps navigation requests to screens or to the login redirect,
// based on the session last observed from its identity provider.
type Navigator struct {
	mu sync.Mutex

	registry   *Registry
	provider   IdentityProvider
	logger     *slog.Logger
	middleware []Middleware
	history    []Route

	homeName, splashName, loginName string
	login                           Route
	start                           Route

	session *Session
	stack   *Stack
	enter   map[string]EnterFunc
	cancel  func()
}

// New builds a navigator over registry and subscribes to provider.
// A nil provider is allowed and means no session is ever present.
func New(registry *Registry, provider IdentityProvider, opts ...Option) (*Navigator, error) {
	n := &Navigator{
		registry:   registry,
		provider:   provider,
		logger:     slog.Default(),
		homeName:   RouteHome,
		splashName: RouteSplash,
		loginName:  RouteLogin,
		stack:      NewStack(),
	}
	for _, opt := range opts {
		opt(n)
	}

	for _, name := range []string{n.homeName, n.splashName, n.loginName} {
		if _, ok := registry.Lookup(name); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRoute, name)
		}
	}
	if registry.IsPrivate(n.loginName) {
		return nil, fmt.Errorf("login route %q must be public", n.loginName)
	}
	n.login = Route{Name: n.loginName}

	n.enter = make(map[string]EnterFunc, len(registry.order))
	for _, name := range registry.order {
		def := registry.defs[name]
		mws := append([]Middleware{LogVisits(n.logger)}, n.middleware...)
		if def.Privacy == Private {
			mws = append(mws, RequireSession(n.sessionLocked, n.login))
		}
		n.enter[name] = chain(render(def.Privacy), mws...)
	}

	// Some providers call back from inside Subscribe, so subscribe before taking the lock.
	// A change delivered before the stack exists only updates the session.
	if provider != nil {
		n.cancel = provider.Subscribe(n.onSessionChange)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if provider != nil {
		n.session = provider.CurrentSession()
	}

	n.start = n.resolveStartRoute()

	for _, r := range n.history {
		route, err := registry.Route(r.Name, r.Params)
		if err != nil {
			n.logger.Warn("dropping saved route", "route", r.String(), "error", err)
			continue
		}
		n.stack.Push(route)
	}
	if n.stack.Len() == 0 {
		n.stack.Push(n.start)
	}
	n.resolveTopLocked()

	return n, nil
}

func (n *Navigator) resolveStartRoute() Route {
	if n.session != nil {
		return Route{Name: n.homeName}
	}
	return Route{Name: n.splashName}
}

// sessionLocked is read by the guard, which always runs under n.mu
func (n *Navigator) sessionLocked() *Session {
	return n.session
}

func (n *Navigator) onSessionChange(s *Session) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.session = s
	if s != nil {
		n.logger.Debug("session changed", "uid", s.UID)
		return
	}

	n.logger.Debug("session cleared")
	top, ok := n.stack.Top()
	if ok && n.registry.IsPrivate(top.Name) {
		n.resolveTopLocked()
	}
}

// CurrentSession returns the last session observed from the provider
func (n *Navigator) CurrentSession() *Session {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.session.clone()
}

// StartRoute returns the route chosen when the navigator was built
func (n *Navigator) StartRoute() Route {
	return n.start
}

// LoginRoute returns the route private screens redirect to
func (n *Navigator) LoginRoute() Route {
	return n.login
}

// Navigate enters the named route. Private routes entered without a session
// are removed from the stack and replaced by the login route. Repeating the
// visible route with the same params does not push a second copy.
func (n *Navigator) Navigate(name string, params Params, opts ...NavigateOption) (Visit, error) {
	route, err := n.registry.Route(name, params)
	if err != nil {
		return Visit{}, err
	}

	var o navigateOptions
	for _, opt := range opts {
		opt(&o)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if o.clear {
		n.stack.Clear()
	} else if o.popUpTo != "" {
		n.stack.PopUpTo(o.popUpTo, o.inclusive)
	}
	n.pushLocked(route)
	return n.resolveTopLocked(), nil
}

// Back pops the visible route and re-enters the one below it.
// It returns false without changing anything when only one route is left.
func (n *Navigator) Back() (Visit, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.stack.Len() <= 1 {
		return n.visibleLocked(), false
	}
	n.stack.Pop()
	return n.resolveTopLocked(), true
}

// RequestLogout signs out through the provider and leaves only the login route on the stack
func (n *Navigator) RequestLogout(ctx context.Context) (Visit, error) {
	if n.provider != nil {
		if err := n.provider.SignOut(ctx); err != nil {
			return n.Visible(), fmt.Errorf("sign out: %w", err)
		}
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.session = nil
	n.stack.Clear()
	n.stack.Push(n.login)
	n.logger.Info("logged out")
	return n.resolveTopLocked(), nil
}

// Reevaluate re-enters the visible route against the current session
func (n *Navigator) Reevaluate() Visit {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.resolveTopLocked()
}

// Visible returns the visible route without re-entering it
func (n *Navigator) Visible() Visit {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.visibleLocked()
}

// BackStack returns a copy of the stack, bottom first
func (n *Navigator) BackStack() []Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stack.Entries()
}

// CanGoBack reports whether Back would change the visible route
func (n *Navigator) CanGoBack() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stack.Len() > 1
}

// Close ends the provider subscription
func (n *Navigator) Close() {
	n.mu.Lock()
	cancel := n.cancel
	n.cancel = nil
	n.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (n *Navigator) pushLocked(r Route) {
	if top, ok := n.stack.Top(); ok && top.Equal(r) {
		return
	}
	n.stack.Push(r)
}

// resolveTopLocked enters the visible route. A pending redirect removes that
// entry and shows login in its place, so back cannot return to it.
func (n *Navigator) resolveTopLocked() Visit {
	top, _ := n.stack.Top()
	d := n.enter[top.Name](top)

	if d.State != RedirectPending {
		return Visit{Route: top, Requested: top, State: d.State}
	}

	n.stack.PopUpTo(top.Name, true)
	target := *d.Redirect
	n.pushLocked(target)
	return Visit{Route: target, Requested: top, State: Redirected}
}

func (n *Navigator) visibleLocked() Visit {
	top, _ := n.stack.Top()
	state := RenderingPublic
	if n.registry.IsPrivate(top.Name) {
		state = RenderingPrivate
	}
	return Visit{Route: top, Requested: top, State: state}
}
