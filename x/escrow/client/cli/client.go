package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

// Client is what the escrow commands need from the node they run against.
type Client interface {
	// Deliver executes msg and prints the outcome to the command's output.
	Deliver(cmd *cobra.Command, msg types.Msg) error
	List(ctx context.Context) (*types.QueryListResponse, error)
	Details(ctx context.Context, id string) (*types.QueryDetailsResponse, error)
}

// ClientFunc resolves the client for a command.
type ClientFunc func(cmd *cobra.Command) (Client, error)

// PrintJSON writes v to the command's output as indented JSON.
func PrintJSON(cmd *cobra.Command, v interface{}) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}

// ParseFunds parses a comma separated coin list such as "100fee,200stake", keeping the
// given order.
func ParseFunds(raw string) ([]sdk.Coin, error) {
	coins := []sdk.Coin{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		coin, err := sdk.ParseCoinNormalized(part)
		if err != nil {
			return nil, fmt.Errorf("invalid coin %q: %w", part, err)
		}
		coins = append(coins, coin)
	}
	return coins, nil
}

func sender(cmd *cobra.Command) (string, error) {
	from, err := cmd.Flags().GetString(FlagFrom)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(from) == "" {
		return "", fmt.Errorf("--%s is required", FlagFrom)
	}
	return from, nil
}

func funds(cmd *cobra.Command) ([]sdk.Coin, error) {
	raw, err := cmd.Flags().GetString(FlagFunds)
	if err != nil {
		return nil, err
	}
	return ParseFunds(raw)
}

func addSenderFlags(cmd *cobra.Command, withFunds bool) {
	cmd.Flags().String(FlagFrom, "", "Address sending the message")
	if withFunds {
		cmd.Flags().String(FlagFunds, "", "Native coins sent with the message, e.g. 100fee,200stake")
	}
}
