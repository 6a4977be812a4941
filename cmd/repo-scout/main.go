// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the repo-scout CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/repo-scout/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when non-empty, then the loaded secret for
// key, then the empty string.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the repo-scout CLI.
var rootCmd = &cobra.Command{
	Use:   "repo-scout",
	Short: "Discover and score software repositories from a free-text request",
	Long: `repo-scout turns a free-text request ("a tool that extracts tables from
PDFs") into a ranked list of candidate repositories, each annotated with a
multi-dimensional quality or suitability score.

The discover command runs the quality-variant pipeline; assess runs the
tool-suitability variant. Both translate the request into a structured
search, fan out several search strategies concurrently, reduce the
candidates, and score the survivors with deterministic formulas plus
model-estimated judgments.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./repo-scout.yaml or ~/.config/repo-scout/config.yaml)")
}

func initConfig() {
	// A local .env is optional; viper picks up whatever it sets.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("repo-scout")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "repo-scout"))
		}
	}

	viper.SetEnvPrefix("REPO_SCOUT")
	viper.AutomaticEnv()

	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("evaluate.concurrency", 4)
	viper.SetDefault("cache.capacity", 128)
	viper.SetDefault("cache.ttl", "1h")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
