// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the toc-checker CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/toc-checker/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the toc-checker CLI.
var rootCmd = &cobra.Command{
	Use:   "toc-checker",
	Short: "Check PDF documents for a table of contents",
	Long: `toc-checker reads a list of PDF locations (http(s) URLs, file:// URLs, or
local paths), downloads each document, and reports whether one of its first
pages contains a table of contents keyword such as "Table of Contents",
"Contents", or "Índice".

Results can be printed as text, JSON, or YAML and optionally recorded in a
SQLite history database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(); err != nil {
			return err
		}
		if f := viper.ConfigFileUsed(); f != "" {
			log.WithField("file", f).Debug("using config file")
		}

		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log.WithField("keys", keys).Debug("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./toc-checker.yaml or ~/.config/toc-checker/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, or error")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("toc-checker")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "toc-checker"))
		}
	}

	viper.SetEnvPrefix("TOC_CHECKER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintln(os.Stderr, "warning: could not read config file:", err)
	}
}

// setupLogging sends diagnostics to stderr at the configured level.
func setupLogging() error {
	level, err := log.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", viper.GetString("log_level"), err)
	}
	log.SetHandler(cli.New(os.Stderr))
	log.SetLevel(level)
	return nil
}

// bindFlags binds the named flags of a command to viper keys. Binding
// happens when the command runs so that commands sharing a key (such as
// --db) do not overwrite each other's binding.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		viper.BindPFlag(key, flags.Lookup(name))
	}
}

// keywordSeparator splits a keyword list given as a single string, as in
// TOC_CHECKER_KEYWORDS="Table of Contents,Índice".
const keywordSeparator = ","

// configuredKeywords returns the keywords from the config file or the
// environment. A string value is split on keywordSeparator so that
// multi-word keywords survive.
func configuredKeywords() []string {
	v, ok := viper.Get("keywords").(string)
	if !ok {
		return viper.GetStringSlice("keywords")
	}
	var keywords []string
	for _, k := range strings.Split(v, keywordSeparator) {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

// secretValue returns the loaded secret for key, or "" when absent.
func secretValue(key string) string {
	return loadedSecrets[key]
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
