package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/Dimont/diogoboilerplate/app"
	"github.com/Dimont/diogoboilerplate/x/escrow/client/cli"
	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

// hostClient runs escrow commands directly against the local host.
type hostClient struct {
	host *app.Host
}

var _ cli.Client = hostClient{}

func (c hostClient) Deliver(cmd *cobra.Command, msg types.Msg) error {
	blockTime, err := blockTimeFlag(cmd)
	if err != nil {
		return err
	}
	res, err := c.host.Deliver(cmd.Context(), msg, blockTime)
	if err != nil {
		return err
	}
	return cli.PrintJSON(cmd, res)
}

func (c hostClient) List(ctx context.Context) (*types.QueryListResponse, error) {
	return c.host.List(ctx)
}

func (c hostClient) Details(ctx context.Context, id string) (*types.QueryDetailsResponse, error) {
	return c.host.Details(ctx, id)
}

func blockTimeFlag(cmd *cobra.Command) (time.Time, error) {
	flag := cmd.Flags().Lookup(cli.FlagBlockTime)
	if flag == nil {
		return time.Now().UTC(), nil
	}
	return ParseBlockTime(flag.Value.String())
}

// ParseBlockTime accepts unix seconds or any layout cast understands, such as RFC3339.
// An empty value means now.
func ParseBlockTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC(), nil
	}
	if secs, err := cast.ToInt64E(raw); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	t, err := cast.ToTimeE(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid block time %q: %w", raw, err)
	}
	return t.UTC(), nil
}
