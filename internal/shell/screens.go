package shell

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/guard"
	"github.com/fastygo/todo/internal/validate"
)

const (
	msgSignedIn       = "Signed in successfully!"
	msgAccountCreated = "Account created successfully!"
	msgTaskCreated    = "Task created successfully!"
	msgTaskUpdated    = "Task updated successfully!"
	msgTaskDeleted    = "Task deleted successfully"
	msgSignedOut      = "Signed out"
)

func (s *Shell) signInScreen() *screen {
	d := NewDispatcher()
	d.Register("signin", "signin", "sign in with email and password", s.signIn)
	d.Register("signup", "signup", "go to the sign-up screen", func(context.Context, []string) error {
		s.Navigate(guard.RouteSignUp)
		return nil
	})
	return &screen{
		title:      "Sign In",
		guard:      guard.New(false, s),
		dispatcher: d,
		onEnter: func(context.Context) {
			s.printf("Type signin to sign in, signup to create an account.\n")
		},
	}
}

func (s *Shell) signUpScreen() *screen {
	d := NewDispatcher()
	d.Register("signup", "signup", "create an account", s.signUp)
	d.Register("signin", "signin", "go to the sign-in screen", func(context.Context, []string) error {
		s.Navigate(guard.RouteSignIn)
		return nil
	})
	return &screen{
		title:      "Sign Up",
		guard:      guard.New(false, s),
		dispatcher: d,
		onEnter: func(context.Context) {
			s.printf("Type signup to create an account, signin if you already have one.\n")
		},
	}
}

func (s *Shell) dashboardScreen() *screen {
	d := NewDispatcher()
	d.Register("list", "list [pending|completed]", "show tasks", s.listTasks)
	d.Register("add", "add", "create a task", s.addTask)
	d.Register("edit", "edit <id>", "edit a task", s.editTask)
	d.Register("rm", "rm <id>", "delete a task", s.deleteTask)
	d.Register("toggle", "toggle <id>", "mark a task completed or pending", s.toggleTask)
	d.Register("status", "status", "show backend and token store health", s.showStatus)
	d.Register("logout", "logout", "sign out", s.logout)
	return &screen{
		title:      "Dashboard",
		guard:      guard.New(true, s),
		dispatcher: d,
		onEnter:    s.enterDashboard,
	}
}

func (s *Shell) signIn(ctx context.Context, _ []string) error {
	email, ok := s.prompt("Email: ")
	if !ok {
		return nil
	}
	password, ok := s.promptSecret("Password: ")
	if !ok {
		return nil
	}
	if errs := validate.SignIn(email, password); !errs.Valid() {
		s.printErrors(errs, validate.FieldEmail, validate.FieldPassword)
		return nil
	}

	s.printf("Signing In...\n")
	if err := s.session.Login(ctx, email, password); err != nil {
		s.notify(domain.NotificationError, domain.Message(err))
		return err
	}
	s.notify(domain.NotificationSuccess, msgSignedIn)
	return nil
}

func (s *Shell) signUp(ctx context.Context, _ []string) error {
	email, ok := s.prompt("Email: ")
	if !ok {
		return nil
	}
	password, ok := s.promptSecret("Password: ")
	if !ok {
		return nil
	}
	confirm, ok := s.promptSecret("Confirm password: ")
	if !ok {
		return nil
	}
	if errs := validate.SignUp(email, password, confirm); !errs.Valid() {
		s.printErrors(errs, validate.FieldEmail, validate.FieldPassword, validate.FieldConfirmPassword)
		return nil
	}

	s.printf("Creating Account...\n")
	if err := s.session.Register(ctx, email, password); err != nil {
		s.notify(domain.NotificationError, domain.Message(err))
		return err
	}
	s.notify(domain.NotificationSuccess, msgAccountCreated)
	return nil
}

func (s *Shell) enterDashboard(ctx context.Context) {
	user := s.session.Snapshot().User
	s.printf("Welcome back, %s!\n", user.DisplayName())
	if err := s.tasks.List(ctx); err != nil {
		return
	}
	s.renderTasks("")
}

func (s *Shell) listTasks(ctx context.Context, args []string) error {
	status := ""
	if len(args) > 0 {
		status = args[0]
		if status != "pending" && status != "completed" {
			s.printf("Status must be 'pending' or 'completed'\n")
			return nil
		}
	}
	if s.tasks.Loading() {
		s.printf("Tasks are still loading.\n")
		return nil
	}
	s.printf("Loading tasks...\n")
	if err := s.tasks.List(ctx); err != nil {
		return err
	}
	s.renderTasks(status)
	return nil
}

func (s *Shell) addTask(ctx context.Context, _ []string) error {
	title, ok := s.prompt("Title: ")
	if !ok {
		return nil
	}
	description, ok := s.prompt("Description: ")
	if !ok {
		return nil
	}
	if errs := validate.Task(title, description); !errs.Valid() {
		s.printErrors(errs, validate.FieldTitle, validate.FieldDescription)
		return nil
	}

	created, err := s.tasks.Create(ctx, title, description)
	if err != nil {
		return err
	}
	if created != nil {
		s.notify(domain.NotificationSuccess, msgTaskCreated)
	}
	s.renderTasks("")
	return nil
}

func (s *Shell) editTask(ctx context.Context, args []string) error {
	id, ok := s.taskID(args)
	if !ok {
		return nil
	}
	current, found := s.tasks.Find(id)
	if !found {
		s.printf("Task %d not found. Run list to refresh.\n", id)
		return nil
	}

	title, ok := s.prompt(fmt.Sprintf("Title [%s]: ", current.Title))
	if !ok {
		return nil
	}
	if title == "" {
		title = current.Title
	}
	description, ok := s.prompt(fmt.Sprintf("Description [%s]: ", current.Description))
	if !ok {
		return nil
	}
	if description == "" {
		description = current.Description
	}
	if errs := validate.Task(title, description); !errs.Valid() {
		s.printErrors(errs, validate.FieldTitle, validate.FieldDescription)
		return nil
	}

	updated, err := s.tasks.Update(ctx, id, title, description)
	if err != nil {
		return err
	}
	if updated != nil {
		s.notify(domain.NotificationSuccess, msgTaskUpdated)
	}
	s.renderTasks("")
	return nil
}

func (s *Shell) deleteTask(ctx context.Context, args []string) error {
	id, ok := s.taskID(args)
	if !ok {
		return nil
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.printf("%s\n", msgTaskDeleted)
	s.renderTasks("")
	return nil
}

func (s *Shell) toggleTask(ctx context.Context, args []string) error {
	id, ok := s.taskID(args)
	if !ok {
		return nil
	}
	updated, err := s.tasks.ToggleCompletion(ctx, id)
	if err != nil {
		return err
	}
	if updated != nil {
		s.printf("Task %d is now %s\n", updated.ID, updated.Status())
	}
	return nil
}

func (s *Shell) showStatus(ctx context.Context, _ []string) error {
	if s.status == nil {
		s.printf("Status monitor is not available.\n")
		return nil
	}
	st := s.status(ctx)
	s.write(func(w io.Writer) { RenderStatus(w, st) })
	return nil
}

func (s *Shell) logout(ctx context.Context, _ []string) error {
	err := s.session.Logout(ctx)
	if err != nil {
		s.logger.Error("logout could not clear the stored token", zap.Error(err))
	}
	s.notify(domain.NotificationInfo, msgSignedOut)
	return err
}

func (s *Shell) taskID(args []string) (int64, bool) {
	if len(args) == 0 {
		s.printf("A task id is required.\n")
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		s.printf("Invalid task id %q.\n", args[0])
		return 0, false
	}
	return id, true
}

func (s *Shell) renderTasks(status string) {
	tasks := FilterTasks(s.tasks.Items(), status)
	s.write(func(w io.Writer) { RenderTasks(w, tasks) })
}

// printErrors prints field errors in form order, then anything unexpected.
func (s *Shell) printErrors(errs validate.Errors, order ...string) {
	seen := make(map[string]bool, len(order))
	for _, field := range order {
		seen[field] = true
		if msg, ok := errs[field]; ok {
			s.printf("  %s: %s\n", field, msg)
		}
	}
	rest := make([]string, 0)
	for field := range errs {
		if !seen[field] {
			rest = append(rest, field)
		}
	}
	sort.Strings(rest)
	for _, field := range rest {
		s.printf("  %s: %s\n", field, errs[field])
	}
}

func (s *Shell) notify(kind domain.NotificationKind, message string) {
	if s.notifier == nil {
		s.printf("%s\n", FormatNotification(domain.Notification{Kind: kind, Message: message}))
		return
	}
	s.notifier.Notify(kind, message)
}
