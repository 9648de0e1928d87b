/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nabbar/kestrel/config"
)

func newValidateConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config",
		Short: "load and validate the configuration file, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagConfigFile == "" {
				return fmt.Errorf("--config is required")
			}

			root, err := config.Load(flagConfigFile)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d configuration block(s) loaded\n", len(root.Configurations))
			return nil
		},
	}
}
