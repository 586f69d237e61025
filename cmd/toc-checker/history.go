// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/toc-checker/internal/history"
	"github.com/pdiddy/toc-checker/internal/report"
	"github.com/pdiddy/toc-checker/pkg/types"
)

const defaultDB = "toc-history.db"

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List results recorded by earlier check runs",
	Long: `History reads the SQLite database written by "check --db" and lists
recorded results, newest first. Use --url to follow one document across runs
or --run to list the results of a single run.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("db", defaultDB, "SQLite history database")
	historyCmd.Flags().String("url", "", "only results for this location")
	historyCmd.Flags().String("run", "", "only results of this run ID")
	historyCmd.Flags().String("status", "", "only results with this status: found, not_found, fetch_error, parse_error")
	historyCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	historyCmd.Flags().String("format", string(types.OutputText), "output format: text, json, or yaml")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	bindFlags(cmd.Flags(), map[string]string{"db": "db"})

	dbPath := viper.GetString("db")
	if dbPath == "" {
		dbPath = defaultDB
	}
	store, err := history.Open(types.HistoryConfig{Path: dbPath})
	if err != nil {
		return err
	}
	defer store.Close()

	url, _ := cmd.Flags().GetString("url")
	runID, _ := cmd.Flags().GetString("run")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	entries, err := store.Query(cmd.Context(), history.Filter{
		URL:        url,
		RunID:      runID,
		Status:     types.Status(status),
		MaxResults: limit,
	})
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return formatHistoryOutput(cmd.OutOrStdout(), entries, types.OutputFormat(format))
}

func formatHistoryOutput(w io.Writer, entries []history.Entry, format types.OutputFormat) error {
	if entries == nil {
		entries = []history.Entry{}
	}

	switch format {
	case types.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case types.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	case types.OutputText, "":
	default:
		return fmt.Errorf("unsupported format %q: use text, json, or yaml", format)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No recorded results.")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-8s  %s\n", "Checked", "Run", "Result")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, e := range entries {
		run := e.RunID
		if len(run) > 8 {
			run = run[:8]
		}
		fmt.Fprintf(w, "%-20s  %-8s  %s\n",
			e.CheckedAt.Local().Format("2006-01-02 15:04:05"), run, report.Line(e.Result))
	}
	fmt.Fprintf(w, "\n%d results\n", len(entries))
	return nil
}
