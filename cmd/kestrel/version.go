/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			rev, dirty := buildRevision()
			fmt.Fprintf(cmd.OutOrStdout(), "kestrel\n\trevision: %s\n\truntime:  %s\n", rev, dirty)
			return nil
		},
	}
}

func buildRevision() (string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown", "unknown"
	}

	rev := "unknown"
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			rev = s.Value
		}
	}

	return rev, info.GoVersion
}
