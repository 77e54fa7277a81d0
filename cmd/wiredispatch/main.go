package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/wiredispatch/internal/app"
	"github.com/samvad-hq/wiredispatch/internal/config"
	"github.com/samvad-hq/wiredispatch/internal/logger"
	"github.com/samvad-hq/wiredispatch/pkg/request"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "wiredispatch failed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wiredispatch",
		Short:         "Dispatch catalogued HTTP requests and publish their outcomes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("catalog", "./configs/requests.yaml", "request catalog file (YAML or JSON)")
	pf.String("sinks", "", "sinks file (YAML or JSON); outcomes are only logged when empty")
	pf.Bool("debug", false, "trace requests and responses")
	pf.Bool("strict", false, "complete silent paths with an error")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd(), listCmd())
	return root
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [names...]",
		Short: "Dispatch the named requests, or the whole catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args)
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the requests in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			catalog, err := request.LoadCatalog(cfg.CatalogFile)
			if err != nil {
				return fmt.Errorf("load request catalog: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, e := range catalog.All() {
				fmt.Fprintf(out, "%s\t%s\t%s%s\n", e.Name, e.Method, e.Host, e.Path)
			}
			return nil
		},
	}
}

func run(cmd *cobra.Command, names []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("wiredispatch starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := app.NewRunner(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize runner", "error", err)
		return err
	}
	defer func() {
		if err := runner.Close(); err != nil {
			logger.ErrorObj("runner close failed", "error", err)
		}
	}()

	if _, err := runner.Run(ctx, names...); err != nil {
		return fmt.Errorf("dispatch run: %w", err)
	}
	return nil
}
