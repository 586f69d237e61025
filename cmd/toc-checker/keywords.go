// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/toc-checker/internal/toc"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Print the keywords a check run searches for",
	Long: `Keywords prints the effective keyword set: the "keywords" list from the
config file or TOC_CHECKER_KEYWORDS (comma-separated) when set, otherwise the
built-in defaults. Keywords that differ only in case are listed once.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		m := toc.NewMatcher(configuredKeywords())
		for _, kw := range m.Keywords() {
			fmt.Fprintln(cmd.OutOrStdout(), kw)
		}
	},
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
}
