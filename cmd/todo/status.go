package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/todo/internal/shell"
)

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check backend reachability and the token store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := c.app.Monitor.Check(cmd.Context())
			shell.RenderStatus(cmd.OutOrStdout(), st)
			if !st.Backend {
				c.app.Logger.Warn("backend unreachable", zap.String("url", c.app.Client.BaseURL()))
			}
			return nil
		},
	}
}

func (c *cli) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Open the interactive task screens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			c.app.Lifecycle.Listen(cancel)
			c.app.StartMonitor()
			// The shell prints every notification itself.
			if c.stopNotices != nil {
				c.stopNotices()
				c.stopNotices = nil
			}

			sh := shell.New(shell.Options{
				Session:  c.app.Session,
				Tasks:    c.app.Tasks,
				Notifier: c.app.Notifier,
				Status:   c.app.Monitor.Check,
				In:       cmd.InOrStdin(),
				Out:      cmd.OutOrStdout(),
				Logger:   c.app.Logger.Named("shell"),
			})

			done := make(chan error, 1)
			go func() { done <- sh.Run(ctx) }()
			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				return nil
			}
		},
	}
}
