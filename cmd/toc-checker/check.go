// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/toc-checker/internal/fetch"
	"github.com/pdiddy/toc-checker/internal/history"
	"github.com/pdiddy/toc-checker/internal/report"
	"github.com/pdiddy/toc-checker/internal/secrets"
	"github.com/pdiddy/toc-checker/internal/toc"
	"github.com/pdiddy/toc-checker/internal/urllist"
	"github.com/pdiddy/toc-checker/pkg/types"
)

const (
	defaultTimeout = 15 * time.Second
	defaultPages   = toc.DefaultMaxPages
)

var checkCmd = &cobra.Command{
	Use:   "check <url_file> [--keywords K1 K2 ...]",
	Short: "Check every PDF in a list for a table of contents",
	Long: `Check reads url_file (one location per line, blank lines and # comments
ignored), fetches each PDF, and scans its first pages for a table of contents
keyword. Locations that cannot be fetched or parsed are reported and the run
continues.

--keywords replaces the default keyword set. Words following the flag are
also taken as keywords, so "check urls.txt --keywords Contents Índice" checks
both. The url_file must come before --keywords. In the config file keywords
is a list; TOC_CHECKER_KEYWORDS takes a comma-separated list.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringArray("keywords", nil, "keyword to search for (repeatable; replaces the defaults)")
	checkCmd.Flags().Int("pages", defaultPages, "number of leading pages to scan")
	checkCmd.Flags().Int("min-pages", 0, "report documents with fewer pages as not found (0 = off)")
	checkCmd.Flags().Bool("require-heading", false, "only accept a keyword set apart by size, font, or weight")
	checkCmd.Flags().Bool("require-entries", false, "only accept a keyword on a page with TOC entry lines")
	checkCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	checkCmd.Flags().Duration("delay", 0, "delay between consecutive documents")
	checkCmd.Flags().Int("retries", 0, "retries on HTTP 429 (0 = single attempt)")
	checkCmd.Flags().Int64("max-bytes", fetch.DefaultMaxBytes, "maximum document size in bytes")
	checkCmd.Flags().String("user-agent", "", "User-Agent header (default toc-checker/<version>)")
	checkCmd.Flags().String("format", string(types.OutputText), "output format: text, json, or yaml")
	checkCmd.Flags().String("db", "", "record the run in this SQLite history database")
	checkCmd.Flags().Bool("progress", false, "show a progress bar on stderr")

	rootCmd.AddCommand(checkCmd)
}

var checkFlagKeys = map[string]string{
	"keywords":        "keywords",
	"pages":           "pages",
	"min_pages":       "min-pages",
	"require_heading": "require-heading",
	"require_entries": "require-entries",
	"timeout":         "timeout",
	"delay":           "delay",
	"retries":         "retries",
	"max_bytes":       "max-bytes",
	"user_agent":      "user-agent",
	"format":          "format",
	"db":              "db",
}

func runCheck(cmd *cobra.Command, args []string) error {
	bindFlags(cmd.Flags(), checkFlagKeys)

	keywords, err := collectKeywords(cmd, args[1:])
	if err != nil {
		return err
	}

	listPath := args[0]
	locations, err := urllist.Read(listPath)
	if err != nil {
		return listError(err, cmd.Flags().Changed("keywords"))
	}
	if len(locations) == 0 {
		return fmt.Errorf("no locations in %s", listPath)
	}

	cfg := checkConfig(keywords)
	format := types.OutputFormat(viper.GetString("format"))

	client := &http.Client{
		Timeout: cfg.Timeout,
	}
	logger := log.Log
	checker := toc.NewChecker(fetch.New(client, cfg.HTTPConfig, logger), cfg, logger)

	rep, err := report.New(format, cmd.OutOrStdout(), checker.Keywords())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	bar := newProgressBar(cmd, len(locations))
	started := time.Now()

	var writeErr error
	result := checker.CheckBatch(ctx, locations, func(r types.Result) {
		if bar != nil {
			bar.Add(1)
		}
		if err := rep.Result(r); err != nil && writeErr == nil {
			writeErr = err
		}
	})
	if writeErr != nil {
		return fmt.Errorf("writing report: %w", writeErr)
	}
	if err := rep.Finish(result); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if dbPath := viper.GetString("db"); dbPath != "" {
		run := types.Run{
			ID:        uuid.NewString(),
			StartedAt: started,
			Source:    listPath,
			Keywords:  checker.Keywords(),
		}
		if err := recordRun(ctx, dbPath, run, result.Results); err != nil {
			return err
		}
		log.WithFields(log.Fields{"run": run.ID, "db": dbPath}).Info("run recorded")
	}

	if result.HasFailures() {
		return fmt.Errorf("%d of %d location(s) could not be checked", result.Failed, result.Total())
	}
	return nil
}

// collectKeywords returns the keywords given on the command line or in the
// config. Positional words after the list path are keywords only when
// --keywords was given.
func collectKeywords(cmd *cobra.Command, extra []string) ([]string, error) {
	if !cmd.Flags().Changed("keywords") {
		if len(extra) > 0 {
			return nil, fmt.Errorf("unexpected arguments %q: use --keywords to set keywords", extra)
		}
		return configuredKeywords(), nil
	}
	keywords, _ := cmd.Flags().GetStringArray("keywords")
	return append(keywords, extra...), nil
}

// listError adds a usage hint when the list path is missing and keywords
// were given, as in "check --keywords A B urls.txt" where B is taken as
// the list path.
func listError(err error, keywordsGiven bool) error {
	if keywordsGiven && errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w (the url file must come before --keywords)", err)
	}
	return err
}

// checkConfig assembles the check settings from viper.
func checkConfig(keywords []string) types.CheckConfig {
	userAgent := viper.GetString("user_agent")
	if userAgent == "" {
		userAgent = "toc-checker/" + version
	}
	timeout := viper.GetDuration("timeout")
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return types.CheckConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:       timeout,
			UserAgent:     userAgent,
			MaxRetries:    viper.GetInt("retries"),
			MaxBytes:      viper.GetInt64("max_bytes"),
			Authorization: secretValue(secrets.HTTPAuthorization),
		},
		Keywords:       keywords,
		MaxPages:       viper.GetInt("pages"),
		MinPages:       viper.GetInt("min_pages"),
		RequireHeading: viper.GetBool("require_heading"),
		RequireEntries: viper.GetBool("require_entries"),
		Delay:          viper.GetDuration("delay"),
	}
}

func newProgressBar(cmd *cobra.Command, n int) *progressbar.ProgressBar {
	show, _ := cmd.Flags().GetBool("progress")
	if !show {
		return nil
	}
	w := io.Writer(cmd.ErrOrStderr())
	return progressbar.NewOptions(n,
		progressbar.OptionSetDescription("checking"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetWriter(w),
	)
}

func recordRun(ctx context.Context, dbPath string, run types.Run, results []types.Result) error {
	store, err := history.Open(types.HistoryConfig{Path: dbPath})
	if err != nil {
		return err
	}
	defer store.Close()

	// Record even when the batch was interrupted.
	return store.RecordRun(context.WithoutCancel(ctx), run, results)
}
