package main

import (
	"context"
	"errors"
	"fmt"
	"gatherbeat/cmd/internal/infrastructure/gather"
	"gatherbeat/cmd/internal/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "gatherbeat",
		Short:        "Forward Gather presence as time-tracking heartbeats",
		Long:         "gatherbeat polls a Gather space, matches present players to local accounts and sends per-minute heartbeats to a Wakapi-compatible API.",
		SilenceUsage: true,
		RunE:         runDaemon,
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Poll the space on an interval until interrupted (default)",
			Args:  cobra.NoArgs,
			RunE:  runDaemon,
		},
		&cobra.Command{
			Use:   "tick",
			Short: "Run a single poll pass and exit",
			Args:  cobra.NoArgs,
			RunE:  runTick,
		},
		&cobra.Command{
			Use:   "normalize <name>",
			Short: "Print the account key a display name maps to",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), service.NormalizeKey(args[0]))
			},
		},
	)
	return rootCmd
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := wireApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if _, err = a.feed.Snapshot(ctx); err != nil {
		if errors.Is(err, gather.ErrUnauthorized) || errors.Is(err, gather.ErrNotFound) {
			return fmt.Errorf("connect to gather space %s: %w", a.cfg.SpaceID, err)
		}
		log.Warnf("Gather is not reachable yet, polling anyway: %v", err)
	} else {
		log.Infof("Connected to Gather space %s", a.cfg.SpaceID)
	}

	e := a.newServer()
	go func() {
		if err := e.Start(a.cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("http server stopped: %v", err)
			stop()
		}
	}()

	a.poller.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func runTick(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := wireApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	report, err := a.poller.Tick(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "tick %d: %d seen, %d eligible, %d resolved\n", report.ID, report.Seen, report.Eligible, report.Resolved)
	for _, d := range report.Dispatches {
		if d.OK() {
			fmt.Fprintf(out, "  %s: sent %d heartbeat(s)\n", d.AccountID, d.Events)
			continue
		}
		fmt.Fprintf(out, "  %s: failed: %v\n", d.AccountID, d.Err)
	}

	if n := report.Failures(); n > 0 {
		return fmt.Errorf("%d dispatch(es) failed", n)
	}
	return nil
}
