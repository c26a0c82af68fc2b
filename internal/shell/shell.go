// Package shell is the interactive terminal front end: a sign-in screen, a
// sign-up screen and a dashboard, with navigation driven by route guards.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/guard"
	"github.com/fastygo/todo/internal/infrastructure/monitor"
)

// Session is the session store as the screens use it.
type Session interface {
	guard.Session
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
}

// Tasks is the task synchronizer as the dashboard uses it.
type Tasks interface {
	List(ctx context.Context) error
	Loading() bool
	Items() []domain.Task
	Find(id int64) (domain.Task, bool)
	Create(ctx context.Context, title, description string) (*domain.Task, error)
	Update(ctx context.Context, id int64, title, description string) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
	ToggleCompletion(ctx context.Context, id int64) (*domain.Task, error)
}

// Notifier is the notification center.
type Notifier interface {
	Notify(kind domain.NotificationKind, message string)
	Subscribe(fn func(*domain.Notification)) func()
}

// StatusFunc reports backend and token store health.
type StatusFunc func(ctx context.Context) monitor.Status

type Options struct {
	Session  Session
	Tasks    Tasks
	Notifier Notifier
	Status   StatusFunc
	In       io.Reader
	Out      io.Writer
	Logger   *zap.Logger
}

type screen struct {
	title      string
	guard      *guard.Guard
	dispatcher *Dispatcher
	onEnter    func(ctx context.Context)
}

// Shell reads commands line by line and runs them against the current screen.
type Shell struct {
	session  Session
	tasks    Tasks
	notifier Notifier
	status   StatusFunc
	logger   *zap.Logger

	in      *bufio.Scanner
	outMu   sync.Mutex
	out     io.Writer
	screens map[guard.Route]*screen

	mu        sync.Mutex
	route     guard.Route
	active    guard.Route
	stopGuard func()
}

func New(opts Options) *Shell {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Shell{
		session:  opts.Session,
		tasks:    opts.Tasks,
		notifier: opts.Notifier,
		status:   opts.Status,
		logger:   logger,
		in:       bufio.NewScanner(opts.In),
		out:      opts.Out,
		route:    guard.RouteSignIn,
	}
	s.screens = map[guard.Route]*screen{
		guard.RouteSignIn:    s.signInScreen(),
		guard.RouteSignUp:    s.signUpScreen(),
		guard.RouteDashboard: s.dashboardScreen(),
	}
	return s
}

// Navigate implements guard.Navigator. The screen switch happens before the
// next prompt.
func (s *Shell) Navigate(route guard.Route) {
	s.mu.Lock()
	s.route = route
	s.mu.Unlock()
	s.logger.Debug("navigate", zap.String("route", string(route)))
}

// Route returns the screen currently shown.
func (s *Shell) Route() guard.Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Run serves commands until quit, end of input or ctx cancellation.
func (s *Shell) Run(ctx context.Context) error {
	if s.notifier != nil {
		defer s.notifier.Subscribe(s.onNotification)()
	}
	defer s.leave()

	for {
		if ctx.Err() != nil {
			return nil
		}
		s.syncRoute(ctx)

		line, ok := s.prompt(fmt.Sprintf("%s> ", s.current().title))
		if !ok {
			return s.in.Err()
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		name, args := fields[0], fields[1:]
		switch name {
		case "quit", "exit":
			return nil
		case "help":
			s.printHelp()
			continue
		}

		if err := s.current().dispatcher.Execute(ctx, name, args); err != nil {
			if errors.Is(err, ErrUnknownCommand) {
				s.printf("Unknown command %q. Type help for the list of commands.\n", name)
				continue
			}
			s.logger.Warn("command failed", zap.String("command", name), zap.Error(err))
		}
	}
}

func (s *Shell) current() *screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screens[s.active]
}

// syncRoute enters the screen requested by the last navigation. Entering a
// screen can redirect again, so it loops until the route settles.
func (s *Shell) syncRoute(ctx context.Context) {
	for i := 0; i < len(s.screens)+1; i++ {
		s.mu.Lock()
		route, active := s.route, s.active
		s.mu.Unlock()
		if route == active {
			return
		}
		s.enter(ctx, route)
	}
}

func (s *Shell) enter(ctx context.Context, route guard.Route) {
	sc, ok := s.screens[route]
	if !ok {
		s.logger.Error("unknown route", zap.String("route", string(route)))
		route, sc = guard.RouteSignIn, s.screens[guard.RouteSignIn]
	}

	s.leave()
	s.mu.Lock()
	s.active = route
	s.route = route
	s.mu.Unlock()

	stop := sc.guard.Watch(s.session)
	s.mu.Lock()
	s.stopGuard = stop
	redirected := s.route != route
	s.mu.Unlock()
	if redirected {
		return
	}

	switch sc.guard.View(s.session.Snapshot()) {
	case guard.ViewLoading:
		s.printf("Loading...\n")
	case guard.ViewChildren:
		s.printf("\n== %s ==\n", sc.title)
		if sc.onEnter != nil {
			sc.onEnter(ctx)
		}
	}
}

func (s *Shell) leave() {
	s.mu.Lock()
	stop := s.stopGuard
	s.stopGuard = nil
	s.mu.Unlock()
	if stop != nil {
		stop()
	}
}

func (s *Shell) onNotification(n *domain.Notification) {
	if n == nil {
		return
	}
	s.printf("%s\n", FormatNotification(*n))
}

func (s *Shell) printHelp() {
	s.printf("Commands:\n")
	for _, line := range s.current().dispatcher.Help() {
		s.printf("%s\n", line)
	}
	s.printf("  %-22s %s\n  %-22s %s\n", "help", "show this list", "quit", "leave the shell")
}

func (s *Shell) prompt(label string) (string, bool) {
	line, ok := s.promptSecret(label)
	return strings.TrimSpace(line), ok
}

// promptSecret reads a line verbatim, for passwords.
func (s *Shell) promptSecret(label string) (string, bool) {
	s.printf("%s", label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimRight(s.in.Text(), "\r"), true
}

func (s *Shell) printf(format string, args ...interface{}) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) write(fn func(w io.Writer)) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fn(s.out)
}
