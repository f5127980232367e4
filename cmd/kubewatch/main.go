// Command kubewatch watches a collection of Kubernetes resources and
// prints each event the API server reports.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/EmilyShepherd/kubewatch-go/internal/config"
	"github.com/EmilyShepherd/kubewatch-go/internal/logger"
)

// version is injected at build time via -ldflags
// (e.g. -ldflags "-X main.version=v1.2.3").
var version = "devel"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	conf, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	rootCmd, err := newRootCommand(conf)
	if err != nil {
		return err
	}

	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(conf *config.Config) (*cobra.Command, error) {
	c := &cobra.Command{
		Use:           "kubewatch",
		Short:         "Stream events from a Kubernetes API server watch",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(logger.New(conf.LogLevel(), conf.LogFormat(), cmd.ErrOrStderr()))
		},
	}

	if err := conf.BindFlags(c.PersistentFlags(), config.GlobalOptions); err != nil {
		return nil, err
	}

	watchCmd, err := newWatchCommand(conf)
	if err != nil {
		return nil, err
	}
	c.AddCommand(watchCmd)

	return c, nil
}
