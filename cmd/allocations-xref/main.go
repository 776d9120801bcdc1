// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the allocations-xref CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// app is built before every subcommand that talks to a remote service.
var app *application

var rootCmd = &cobra.Command{
	Use:   "allocations-xref",
	Short: "Search compute allocations and cross-reference them with research awards",
	Long: `allocations-xref searches the public catalog of compute allocation
projects and cross-references allocation holders with a research-awards
lookup service.

Subcommands: search ranks or browses projects, funding looks for awards
behind a project, PI, or institution, stats aggregates the catalog, and
call runs a named operation with JSON arguments.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations["offline"] == "true" {
			return nil
		}
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		a, err := newApplication(cfg)
		if err != nil {
			return err
		}
		app = a
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			app.Close()
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./allocations-xref.yaml or ~/.config/allocations-xref/allocations-xref.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: console or json")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address while the command runs")
	flags.String("secrets-dir", "", "directory of secret files (default .secrets)")
	flags.String("catalog-url", "", "allocations catalog base URL")
	flags.String("awards-url", "", "awards service base URL")

	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("log.format", flags.Lookup("log-format"))
	viper.BindPFlag("metrics_addr", flags.Lookup("metrics-addr"))
	viper.BindPFlag("secrets_dir", flags.Lookup("secrets-dir"))
	viper.BindPFlag("catalog.base_url", flags.Lookup("catalog-url"))
	viper.BindPFlag("awards.base_url", flags.Lookup("awards-url"))
}

func initConfig() {
	setDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	configureEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
