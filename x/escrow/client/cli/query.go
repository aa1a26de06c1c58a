package cli

import (
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cobra"

	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

// GetQueryCmd returns the cli query commands for the escrow module
func GetQueryCmd(getClient ClientFunc) *cobra.Command {
	escrowQueryCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the escrow module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	escrowQueryCmd.AddCommand(
		GetCmdQueryList(getClient),
		GetCmdQueryDetails(getClient),
	)

	return escrowQueryCmd
}

// GetCmdQueryList returns the command to list escrow ids
func GetCmdQueryList(getClient ClientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the ids of all open escrows",
		Long: `List the ids of all open escrows in ascending order.

Example:
  $ escrowd query escrow list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getClient(cmd)
			if err != nil {
				return err
			}
			res, err := c.List(cmd.Context())
			if err != nil {
				return err
			}
			return PrintJSON(cmd, res)
		},
	}
}

// GetCmdQueryDetails returns the command to show one escrow
func GetCmdQueryDetails(getClient ClientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "details [id]",
		Short: "Show an escrow",
		Long: `Show the parties, bounds, balance and whitelist of an escrow.

Example:
  $ escrowd query escrow details foobar`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getClient(cmd)
			if err != nil {
				return err
			}
			res, err := c.Details(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return PrintJSON(cmd, res)
		},
	}
}
