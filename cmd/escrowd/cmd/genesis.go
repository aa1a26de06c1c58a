package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/spf13/cobra"

	"github.com/Dimont/diogoboilerplate/x/escrow"
)

func genesisCommand(n *node) *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "genesis",
		Short:                      "Import, export and validate escrow genesis documents",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		genesisExportCmd(n),
		genesisImportCmd(n),
		genesisValidateCmd(n),
		genesisDefaultCmd(),
	)
	return cmd
}

func genesisExportCmd(n *node) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export every open escrow",
		Long: `Export every open escrow as a genesis document, to the given file or to stdout.

Example:
  $ escrowd genesis export genesis.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := n.openHost()
			if err != nil {
				return err
			}
			bz, err := host.ExportGenesis(cmd.Context())
			if err != nil {
				return err
			}

			var out bytes.Buffer
			if err := json.Indent(&out, bz, "", "  "); err != nil {
				return err
			}
			out.WriteByte('\n')

			if len(args) == 0 {
				_, err = cmd.OutOrStdout().Write(out.Bytes())
				return err
			}
			if err := os.MkdirAll(filepath.Dir(args[0]), 0o755); err != nil {
				return err
			}
			return os.WriteFile(args[0], out.Bytes(), 0o644)
		},
	}
}

func genesisImportCmd(n *node) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import escrows from a genesis document",
		Long: `Import escrows from a genesis document, read from the given file or from stdin
when the file is "-". The import is committed as one block and fails without effect
if any escrow already exists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			host, err := n.openHost()
			if err != nil {
				return err
			}
			if err := host.InitGenesis(cmd.Context(), bz); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "genesis imported at height %d\n", host.Height())
			return err
		},
	}
}

func genesisValidateCmd(n *node) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a genesis document without importing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			basic := escrow.NewAppModuleBasic(address.NewBech32Codec(n.cfg.Bech32Prefix))
			if err := basic.ValidateGenesis(bz); err != nil {
				return fmt.Errorf("invalid genesis: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "genesis is valid")
			return err
		},
	}
}

func genesisDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default",
		Short: "Print the default genesis document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), string((escrow.AppModuleBasic{}).DefaultGenesis()))
			return err
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
