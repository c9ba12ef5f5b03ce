// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the dwgview CLI. It finds DWG drawings
// on the local volumes, lets the user pick one, and turns it into a PDF with
// the ODA File Converter and dxf_renderer.py.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/dwgview/internal/logging"
	"github.com/pdiddy/dwgview/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg holds the settings decoded in PersistentPreRunE.
	cfg types.Config

	logger *slog.Logger
)

// rootCmd is the base command for the dwgview CLI.
var rootCmd = &cobra.Command{
	Use:   "dwgview",
	Short: "Find DWG drawings and convert them to PDF",
	Long: `dwgview sweeps the fixed and removable volumes of this machine for DWG
drawings, lists them grouped by folder, and converts the one you pick to PDF.

Conversion runs in two stages: the ODA File Converter writes a DXF next to the
drawing (convertedDXF/), then dxf_renderer.py renders it to PDF
(convertedPDF/). Both tools are located automatically at startup.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c
		logger = logging.BuildLogger(cfg.LogLevel)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./dwgview.yaml or ~/.config/dwgview/dwgview.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	setDefaults(types.DefaultConfig())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("dwgview")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "dwgview"))
		}
	}

	viper.SetEnvPrefix("DWGVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(d types.Config) {
	viper.SetDefault("log_level", d.LogLevel)

	viper.SetDefault("scan.skip_dirs", d.Scan.SkipDirs)
	viper.SetDefault("scan.extension", d.Scan.Extension)
	viper.SetDefault("scan.roots", d.Scan.Roots)
	viper.SetDefault("scan.parallel", d.Scan.Parallel)
	viper.SetDefault("scan.workers", d.Scan.Workers)

	viper.SetDefault("tools.converter_name", d.Tools.ConverterName)
	viper.SetDefault("tools.converter_path", d.Tools.ConverterPath)
	viper.SetDefault("tools.signatures", d.Tools.Signatures)
	viper.SetDefault("tools.install_dirs", d.Tools.InstallDirs)
	viper.SetDefault("tools.renderer_name", d.Tools.RendererName)
	viper.SetDefault("tools.renderer_path", d.Tools.RendererPath)
	viper.SetDefault("tools.interpreter", d.Tools.Interpreter)

	viper.SetDefault("convert.timeout", d.Convert.Timeout)
	viper.SetDefault("convert.output_version", d.Convert.OutputVersion)
	viper.SetDefault("convert.output_format", d.Convert.OutputFormat)
	viper.SetDefault("convert.recurse", d.Convert.Recurse)
	viper.SetDefault("convert.audit", d.Convert.Audit)
	viper.SetDefault("convert.output_dir", d.Convert.OutputDir)
	viper.SetDefault("convert.output_ext", d.Convert.OutputExt)

	viper.SetDefault("render.timeout", d.Render.Timeout)
	viper.SetDefault("render.output_dir", d.Render.OutputDir)
	viper.SetDefault("render.output_ext", d.Render.OutputExt)
}

func loadConfig() (types.Config, error) {
	var c types.Config
	if err := viper.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return types.Config{}, err
	}
	return c, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
