package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cobra"

	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

// GetTxCmd returns the transaction commands for the escrow module
func GetTxCmd(getClient ClientFunc) *cobra.Command {
	escrowTxCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Escrow transaction subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	escrowTxCmd.AddCommand(
		CmdCreate(getClient),
		CmdSetRecipient(getClient),
		CmdApprove(getClient),
		CmdRefund(getClient),
		CmdTopUp(getClient),
		CmdReceive(getClient),
		CmdExec(getClient),
	)

	return escrowTxCmd
}

func deliver(cmd *cobra.Command, getClient ClientFunc, msg types.Msg) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	c, err := getClient(cmd)
	if err != nil {
		return err
	}
	return c.Deliver(cmd, msg)
}

// CmdCreate returns a CLI command handler for creating an escrow
func CmdCreate(getClient ClientFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [id] [arbiter]",
		Short: "Create an escrow funded with native coins",
		Long: `Create an escrow funded with the native coins sent along.

Example:
  $ escrowd tx escrow create foobar cosmos1arbiter... \
    --recipient cosmos1recd... \
    --title "some_title" \
    --end-height 123456 \
    --whitelist cosmos1bar...,cosmos1foo... \
    --funds 100fee,200stake \
    --from cosmos1source...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := sender(cmd)
			if err != nil {
				return err
			}
			create, err := createMsgFromFlags(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			coins, err := funds(cmd)
			if err != nil {
				return err
			}
			return deliver(cmd, getClient, types.NewMsgCreateEscrow(from, create, coins...))
		},
	}

	addSenderFlags(cmd, true)
	addCreateFlags(cmd)
	return cmd
}

func addCreateFlags(cmd *cobra.Command) {
	cmd.Flags().String(FlagRecipient, "", "Address receiving the funds on approval")
	cmd.Flags().String(FlagTitle, "", "Escrow title")
	cmd.Flags().String(FlagDescription, "", "Escrow description")
	cmd.Flags().Uint64(FlagEndHeight, 0, "Block height after which the escrow expires")
	cmd.Flags().Uint64(FlagEndTime, 0, "Unix time in seconds after which the escrow expires")
	cmd.Flags().StringSlice(FlagWhitelist, nil, "Token contracts accepted for top-ups")
}

// createMsgFromFlags builds an escrow description. Bounds are only set when their flag
// was given, so an explicit zero stays distinguishable from no bound.
func createMsgFromFlags(cmd *cobra.Command, id, arbiter string) (types.CreateMsg, error) {
	create := types.CreateMsg{ID: id, Arbiter: arbiter}

	var err error
	if create.Title, err = cmd.Flags().GetString(FlagTitle); err != nil {
		return create, err
	}
	if create.Description, err = cmd.Flags().GetString(FlagDescription); err != nil {
		return create, err
	}
	if create.Cw20Whitelist, err = cmd.Flags().GetStringSlice(FlagWhitelist); err != nil {
		return create, err
	}

	if cmd.Flags().Changed(FlagRecipient) {
		recipient, err := cmd.Flags().GetString(FlagRecipient)
		if err != nil {
			return create, err
		}
		create.Recipient = &recipient
	}
	if cmd.Flags().Changed(FlagEndHeight) {
		endHeight, err := cmd.Flags().GetUint64(FlagEndHeight)
		if err != nil {
			return create, err
		}
		create.EndHeight = &endHeight
	}
	if cmd.Flags().Changed(FlagEndTime) {
		endTime, err := cmd.Flags().GetUint64(FlagEndTime)
		if err != nil {
			return create, err
		}
		create.EndTime = &endTime
	}
	return create, nil
}

// CmdSetRecipient returns a CLI command handler for assigning the recipient
func CmdSetRecipient(getClient ClientFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-recipient [id] [recipient]",
		Short: "Set the recipient of an escrow (arbiter only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := sender(cmd)
			if err != nil {
				return err
			}
			return deliver(cmd, getClient, types.NewMsgSetRecipient(from, args[0], args[1]))
		},
	}

	addSenderFlags(cmd, false)
	return cmd
}

// CmdApprove returns a CLI command handler for releasing an escrow to its recipient
func CmdApprove(getClient ClientFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve [id]",
		Short: "Release an escrow to its recipient (arbiter only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := sender(cmd)
			if err != nil {
				return err
			}
			return deliver(cmd, getClient, types.NewMsgApprove(from, args[0]))
		},
	}

	addSenderFlags(cmd, false)
	return cmd
}

// CmdRefund returns a CLI command handler for returning an escrow to its source
func CmdRefund(getClient ClientFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refund [id]",
		Short: "Return an escrow to its source",
		Long: `Return an escrow to its source. The arbiter may refund at any time; once the
escrow has expired anyone may.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := sender(cmd)
			if err != nil {
				return err
			}
			return deliver(cmd, getClient, types.NewMsgRefund(from, args[0]))
		},
	}

	addSenderFlags(cmd, false)
	return cmd
}

// CmdTopUp returns a CLI command handler for adding native coins to an escrow
func CmdTopUp(getClient ClientFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top-up [id]",
		Short: "Add the native coins sent along to an escrow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := sender(cmd)
			if err != nil {
				return err
			}
			coins, err := funds(cmd)
			if err != nil {
				return err
			}
			return deliver(cmd, getClient, types.NewMsgTopUp(from, args[0], coins...))
		},
	}

	addSenderFlags(cmd, true)
	return cmd
}

// CmdReceive returns a CLI command handler that delivers a token notification. --from is
// the token contract.
func CmdReceive(getClient ClientFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receive [amount] [top-up-id | create-id create-arbiter]",
		Short: "Deliver a token deposit notification",
		Long: `Deliver the notification a token contract sends after tokens were transferred to
the escrow. With one id the tokens top up that escrow; with an id and an arbiter they
fund a new escrow, configured by the create flags.

Example:
  $ escrowd tx escrow receive 7890 foobar --depositor cosmos1source... --from cosmos1bar...`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := sender(cmd)
			if err != nil {
				return err
			}
			amount, ok := math.NewIntFromString(args[0])
			if !ok {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			depositor, err := cmd.Flags().GetString(FlagDepositor)
			if err != nil {
				return err
			}

			var instruction types.ReceiveMsg
			if len(args) == 2 {
				instruction.TopUp = &types.IDMsg{ID: args[1]}
			} else {
				create, err := createMsgFromFlags(cmd, args[1], args[2])
				if err != nil {
					return err
				}
				instruction.CreateEscrow = &create
			}
			bz, err := instruction.Encode()
			if err != nil {
				return err
			}
			return deliver(cmd, getClient, types.NewMsgReceive(token, depositor, amount, bz))
		},
	}

	addSenderFlags(cmd, false)
	addCreateFlags(cmd)
	cmd.Flags().String(FlagDepositor, "", "Address that transferred the tokens")
	return cmd
}

// CmdExec returns a CLI command handler that delivers a wire-format message read from a
// file, or from stdin when the file is "-".
func CmdExec(getClient ClientFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec [file]",
		Short: "Deliver a JSON execute message",
		Long: `Deliver a JSON execute message naming exactly one operation.

Example:
  $ echo '{"approve":{"id":"foobar"}}' | escrowd tx escrow exec - --from cosmos1arbiter...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := sender(cmd)
			if err != nil {
				return err
			}
			coins, err := funds(cmd)
			if err != nil {
				return err
			}

			var bz []byte
			if args[0] == "-" {
				bz, err = io.ReadAll(cmd.InOrStdin())
			} else {
				bz, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			exec, err := types.DecodeExecuteMsg([]byte(strings.TrimSpace(string(bz))))
			if err != nil {
				return err
			}
			msg, err := exec.ToMsg(from, coins)
			if err != nil {
				return err
			}
			return deliver(cmd, getClient, msg)
		},
	}

	addSenderFlags(cmd, true)
	return cmd
}
