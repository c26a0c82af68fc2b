// Package guard decides whether a screen may render for the current session.
package guard

import (
	"sync"

	"github.com/fastygo/todo/domain"
)

// Action is the outcome of evaluating a guarded screen.
type Action int

const (
	ActionLoading Action = iota
	ActionRender
	ActionRedirectSignIn
	ActionRedirectDashboard
)

func (a Action) String() string {
	switch a {
	case ActionLoading:
		return "loading"
	case ActionRender:
		return "render"
	case ActionRedirectSignIn:
		return "redirect-signin"
	case ActionRedirectDashboard:
		return "redirect-dashboard"
	default:
		return "unknown"
	}
}

// View is what a guarded screen shows for an action.
type View int

const (
	ViewLoading View = iota
	ViewChildren
	ViewNothing
)

// Route names a screen a redirect can lead to.
type Route string

const (
	RouteSignIn    Route = "/auth/signin"
	RouteSignUp    Route = "/auth/signup"
	RouteDashboard Route = "/dashboard"
)

// Decide applies the guard policy.
func Decide(loading bool, token string, requireAuth bool) Action {
	switch {
	case loading:
		return ActionLoading
	case requireAuth && token == "":
		return ActionRedirectSignIn
	case !requireAuth && token != "":
		return ActionRedirectDashboard
	default:
		return ActionRender
	}
}

// ViewFor maps an action to what gets rendered. Redirects render nothing;
// the navigation itself happens in Guard.Watch.
func ViewFor(action Action) View {
	switch action {
	case ActionLoading:
		return ViewLoading
	case ActionRender:
		return ViewChildren
	default:
		return ViewNothing
	}
}

// RedirectTarget returns the route a redirect action leads to.
func RedirectTarget(action Action) (Route, bool) {
	switch action {
	case ActionRedirectSignIn:
		return RouteSignIn, true
	case ActionRedirectDashboard:
		return RouteDashboard, true
	default:
		return "", false
	}
}

// Navigator performs redirects.
type Navigator interface {
	Navigate(route Route)
}

// Session is the read side of the session store.
type Session interface {
	Snapshot() domain.Session
	Subscribe(fn func(domain.Session)) func()
}

// Guard protects one screen.
type Guard struct {
	requireAuth bool
	nav         Navigator

	mu   sync.Mutex
	last Action
	set  bool
}

func New(requireAuth bool, nav Navigator) *Guard {
	return &Guard{requireAuth: requireAuth, nav: nav}
}

// Evaluate decides for a session snapshot without side effects.
func (g *Guard) Evaluate(s domain.Session) Action {
	return Decide(s.Loading, s.Token, g.requireAuth)
}

// View renders the guarded screen for a snapshot.
func (g *Guard) View(s domain.Session) View {
	return ViewFor(g.Evaluate(s))
}

// Watch evaluates the current session and then every change, navigating
// whenever the decision becomes a redirect. The returned func stops watching.
func (g *Guard) Watch(session Session) func() {
	unsubscribe := session.Subscribe(g.react)
	g.react(session.Snapshot())
	return unsubscribe
}

func (g *Guard) react(s domain.Session) {
	action := g.Evaluate(s)

	g.mu.Lock()
	changed := !g.set || g.last != action
	g.last, g.set = action, true
	g.mu.Unlock()

	if !changed || g.nav == nil {
		return
	}
	if route, ok := RedirectTarget(action); ok {
		g.nav.Navigate(route)
	}
}
