package cmd

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/log"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Dimont/diogoboilerplate/app"
	"github.com/Dimont/diogoboilerplate/x/escrow/client/cli"
)

// Version is set at build time.
var Version = "dev"

// node holds the state shared by the escrowd commands. The host is opened on first use
// so commands that never touch the store do not lock the database.
type node struct {
	v      *viper.Viper
	cfg    Config
	logger log.Logger

	host      *app.Host
	telemetry *app.Telemetry
}

// NewRootCmd creates the escrowd root command. The returned cleanup closes the store and
// flushes telemetry; call it once the command has run.
func NewRootCmd() (*cobra.Command, func() error) {
	n := &node{v: newViper(), logger: log.NewNopLogger()}

	rootCmd := &cobra.Command{
		Use:   app.Name,
		Short: "Escrow node",
		Long: `escrowd holds funds in named escrows until an arbiter releases them to a
recipient or returns them to their source. Every accepted message is committed as its
own block.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			cfg, err := LoadConfig(n.v)
			if err != nil {
				return err
			}
			n.cfg = cfg
			n.logger = cfg.NewLogger()
			return nil
		},
	}

	addPersistentFlags(rootCmd)
	if err := bindFlags(n.v, rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(
		initCmd(n),
		queryCommand(n),
		txCommand(n),
		genesisCommand(n),
		invariantsCmd(n),
		serveCmd(n),
		versionCmd(),
	)

	return rootCmd, n.close
}

// Execute runs the root command and releases the node afterwards.
func Execute(ctx context.Context, args []string) error {
	rootCmd, cleanup := NewRootCmd()
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	return errors.Join(err, cleanup())
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(FlagHome, app.DefaultNodeHome, "directory for config and data")
	cmd.PersistentFlags().String(FlagDBBackend, "", "database backend (goleveldb|memdb)")
	cmd.PersistentFlags().String(FlagBech32Prefix, "", "account address prefix")
	cmd.PersistentFlags().String(FlagChainID, "", "chain id placed in block headers")
	cmd.PersistentFlags().String(FlagLogLevel, "", "log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().String(FlagLogFormat, "", "log format (plain|json)")
}

func queryCommand(n *node) *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "query",
		Aliases:                    []string{"q"},
		Short:                      "Querying subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(cli.GetQueryCmd(n.client))
	return cmd
}

func txCommand(n *node) *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "tx",
		Short:                      "Transactions subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.PersistentFlags().String(cli.FlagBlockTime, "", "block time as unix seconds or RFC3339 (default now)")
	cmd.AddCommand(cli.GetTxCmd(n.client))
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the escrowd version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), Version)
			return err
		},
	}
}

// openHost opens the store and the telemetry pipeline on first use.
func (n *node) openHost() (*app.Host, error) {
	if n.host != nil {
		return n.host, nil
	}

	telemetry, err := app.InitTelemetry(n.cfg.telemetryConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	n.telemetry = telemetry

	db, err := app.OpenDB(n.cfg.Home, n.cfg.DBBackend)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	host, err := app.NewHost(db, n.logger, n.cfg.Bech32Prefix,
		app.WithChainID(n.cfg.ChainID),
		app.WithTelemetry(telemetry),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	n.host = host
	return host, nil
}

func (n *node) client(*cobra.Command) (cli.Client, error) {
	host, err := n.openHost()
	if err != nil {
		return nil, err
	}
	return hostClient{host: host}, nil
}

func (n *node) close() error {
	var errs []error
	if n.host != nil {
		errs = append(errs, n.host.Close())
		n.host = nil
	}
	if n.telemetry != nil {
		errs = append(errs, n.telemetry.Shutdown(context.Background()))
		n.telemetry = nil
	}
	return errors.Join(errs...)
}
