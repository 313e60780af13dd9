// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doctool CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doctool/internal/ledger"
	"github.com/pdiddy/doctool/internal/rasterize"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the doctool CLI.
var rootCmd = &cobra.Command{
	Use:   "doctool",
	Short: "Document conversion utilities",
	Long: `doctool collects everyday document chores in one command line tool:
reorder and split PDF pages, batch convert Word documents to PDF, combine
images and PDFs, compress PDFs and render PDF pages to JPG.

External programs are used where they do the job better: LibreOffice for
Word conversion, Ghostscript for aggressive compression and poppler's
pdftoppm for rendering. Their locations can be set in doctool.yaml.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./doctool.yaml or ~/.config/doctool/doctool.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doctool")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doctool"))
		}
	}

	// Defaults make every key known to viper, so DOCTOOL_TOOLS_GHOSTSCRIPT
	// and friends are honoured when unmarshaling.
	viper.SetDefault("tools.ghostscript", "")
	viper.SetDefault("tools.soffice", "")
	viper.SetDefault("tools.pdftoppm", "")
	viper.SetDefault("raster.dpi", rasterize.DefaultDPI)
	viper.SetDefault("split.prefix", "split_")
	viper.SetDefault("ledger.path", ledger.DefaultPath())
	viper.SetDefault("ledger.disabled", false)

	viper.SetEnvPrefix("DOCTOOL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
