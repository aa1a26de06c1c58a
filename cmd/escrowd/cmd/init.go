package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const flagOverwrite = "overwrite"

// initCmd writes the resolved configuration to the home config file.
func initCmd(n *node) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default escrowd config file",
		Long: `Write the resolved configuration to $HOME/.escrowd/config/escrowd.toml so it can
be edited. Existing files are kept unless --overwrite is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			overwrite, err := cmd.Flags().GetBool(flagOverwrite)
			if err != nil {
				return err
			}

			path := configPath(n.cfg.Home)
			if _, err := os.Stat(path); err == nil && !overwrite {
				return fmt.Errorf("config file %s already exists, use --%s to replace it", path, flagOverwrite)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			if err := os.MkdirAll(filepath.Join(n.cfg.Home, "data"), 0o755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			if err := n.v.WriteConfigAs(path); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			n.logger.Info("config written", "path", path)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}

	cmd.Flags().Bool(flagOverwrite, false, "replace an existing config file")
	return cmd
}
