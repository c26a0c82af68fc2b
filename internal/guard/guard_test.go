package guard

import (
	"testing"

	"github.com/fastygo/todo/domain"
)

func TestDecidePolicyTable(t *testing.T) {
	cases := []struct {
		loading     bool
		requireAuth bool
		token       string
		want        Action
		view        View
	}{
		{true, true, "", ActionLoading, ViewLoading},
		{true, false, "t", ActionLoading, ViewLoading},
		{false, true, "", ActionRedirectSignIn, ViewNothing},
		{false, true, "t", ActionRender, ViewChildren},
		{false, false, "t", ActionRedirectDashboard, ViewNothing},
		{false, false, "", ActionRender, ViewChildren},
	}
	for _, tc := range cases {
		got := Decide(tc.loading, tc.token, tc.requireAuth)
		if got != tc.want {
			t.Errorf("Decide(%v, %q, %v) = %v, want %v", tc.loading, tc.token, tc.requireAuth, got, tc.want)
		}
		if view := ViewFor(got); view != tc.view {
			t.Errorf("ViewFor(%v) = %v, want %v", got, view, tc.view)
		}
	}
}

type navRecorder struct {
	routes []Route
}

func (n *navRecorder) Navigate(route Route) {
	n.routes = append(n.routes, route)
}

type stubSession struct {
	state domain.Session
	fn    func(domain.Session)
}

func (s *stubSession) Snapshot() domain.Session { return s.state }

func (s *stubSession) Subscribe(fn func(domain.Session)) func() {
	s.fn = fn
	return func() { s.fn = nil }
}

func (s *stubSession) set(state domain.Session) {
	s.state = state
	if s.fn != nil {
		s.fn(state)
	}
}

func TestWatchRedirectsOnStateChange(t *testing.T) {
	nav := &navRecorder{}
	session := &stubSession{state: domain.Session{Loading: true}}
	g := New(true, nav)

	stop := g.Watch(session)
	if len(nav.routes) != 0 {
		t.Fatal("no redirect while loading")
	}
	if g.View(session.Snapshot()) != ViewLoading {
		t.Fatal("expected loading view")
	}

	session.set(domain.Session{})
	if len(nav.routes) != 1 || nav.routes[0] != RouteSignIn {
		t.Fatalf("expected redirect to sign-in, got %v", nav.routes)
	}
	if g.View(session.Snapshot()) != ViewNothing {
		t.Fatal("nothing renders while redirecting")
	}

	session.set(domain.Session{})
	if len(nav.routes) != 1 {
		t.Fatal("an unchanged decision must not redirect again")
	}

	session.set(domain.Session{Token: "t"})
	if g.View(session.Snapshot()) != ViewChildren {
		t.Fatal("expected children for an authenticated session")
	}

	stop()
	session.set(domain.Session{})
	if len(nav.routes) != 1 {
		t.Fatal("stopped guard must not navigate")
	}
}

func TestGuestGuardRedirectsToDashboard(t *testing.T) {
	nav := &navRecorder{}
	session := &stubSession{state: domain.Session{Token: "t"}}
	stop := New(false, nav).Watch(session)
	defer stop()

	if len(nav.routes) != 1 || nav.routes[0] != RouteDashboard {
		t.Fatalf("expected redirect to dashboard, got %v", nav.routes)
	}
}
