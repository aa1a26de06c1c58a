package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dimont/diogoboilerplate/app/health"
)

const shutdownTimeout = 10 * time.Second

// serveCmd runs the status server until the command context is cancelled.
func serveCmd(n *node) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve health, metrics and escrow queries over HTTP",
		Long: `Serve the status endpoints:

  /health         liveness
  /health/ready   readiness, failing while the store or an invariant is broken
  /metrics        Prometheus metrics
  /escrows        open escrow ids
  /escrows/{id}   escrow details`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			host, err := n.openHost()
			if err != nil {
				return err
			}
			checker, err := health.NewChecker(n.logger, n.cfg.healthConfig(Version), host)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              n.cfg.Serve.Address,
				Handler:           checker.Handler(n.cfg.serverConfig()),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      15 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()
			n.logger.Info("status server listening", "address", n.cfg.Serve.Address)

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("status server failed: %w", err)
				}
				return nil
			case <-cmd.Context().Done():
			}

			n.logger.Info("shutting down status server")
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
}

// invariantsCmd checks the committed state against every escrow invariant.
func invariantsCmd(n *node) *cobra.Command {
	return &cobra.Command{
		Use:   "invariants",
		Short: "Check every escrow invariant against the committed state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			host, err := n.openHost()
			if err != nil {
				return err
			}
			broken := host.CheckInvariants(cmd.Context())
			if len(broken) > 0 {
				return fmt.Errorf("%d invariant(s) broken:\n%s", len(broken), strings.Join(broken, "\n"))
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "all invariants hold at height %d\n", host.Height())
			return err
		},
	}
}
