package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/app"
	"github.com/fastygo/todo/internal/config"
	"github.com/fastygo/todo/internal/shell"
	"github.com/fastygo/todo/pkg/logger"
)

type cli struct {
	opts       app.Options
	backendURL string
	logLevel   string

	app         *app.App
	stopNotices func()
}

// execute runs one CLI invocation. The application is closed even when the
// command fails.
func execute(ctx context.Context, opts app.Options, args []string, in io.Reader, out, errOut io.Writer) error {
	c := &cli{opts: opts}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if closeErr := c.close(ctx); err == nil {
		err = closeErr
	}
	return err
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "todo",
		Short:             "Manage your tasks on the todo backend",
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}
	root.PersistentFlags().StringVar(&c.backendURL, "backend-url", "", "backend base URL (overrides BACKEND_URL)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	root.AddCommand(
		c.signInCmd(),
		c.signUpCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.tasksCmd(),
		c.statusCmd(),
		c.shellCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.backendURL != "" {
		cfg.Backend.URL = c.backendURL
	}
	if c.logLevel != "" {
		cfg.Logger.Level = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Output:   cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, cfg, log, c.opts)
	if err != nil {
		return err
	}
	c.app = a
	// Failures come back as command errors; other notices go to stdout.
	c.stopNotices = a.Notifier.Subscribe(func(n *domain.Notification) {
		if n != nil && n.Kind != domain.NotificationError {
			fmt.Fprintln(cmd.OutOrStdout(), shell.FormatNotification(*n))
		}
	})
	return nil
}

func (c *cli) close(ctx context.Context) error {
	if c.app == nil {
		return nil
	}
	if c.stopNotices != nil {
		c.stopNotices()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := c.app.Close(ctx)
	_ = c.app.Logger.Sync()
	c.app = nil
	return err
}

// requireSession fails commands that need a signed-in user.
func (c *cli) requireSession() error {
	if !c.app.Session.Snapshot().Authenticated() {
		return domain.NewError(domain.ErrCodeUnauthorized, "Not signed in. Run todo signin first.")
	}
	return nil
}
