/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package main

import (
	"github.com/spf13/cobra"
)

var flagConfigFile string
var flagVerbose int

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "kestrel",
		Short:         "kestrel is a TLS-terminating, multi-protocol HTTP gateway",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVarP(&flagConfigFile, "config", "c", "", "path to the configuration file (YAML/JSON/TOML)")
	root.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "enable verbose logging (multi allowed: v, vv, vvv)")

	root.AddCommand(newServeCommand())
	root.AddCommand(newValidateConfigCommand())
	root.AddCommand(newVersionCommand())

	return root
}
