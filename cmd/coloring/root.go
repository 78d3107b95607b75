package main

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"coloring/internal/config"
	"coloring/internal/imaging"
)

//go:embed usage.md
var usageDoc string

type runFlags struct {
	overwrite  bool
	readme     bool
	initConfig bool
	mode       imaging.Mode
	invert     imaging.Invert
	root       string
	configPath string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	flags := &runFlags{}

	rootCmd := &cobra.Command{
		Use:           "coloring",
		Short:         "Turn images into printable coloring pages",
		Long:          "Cleans every image in the workspace with ImageMagick, traces it with potrace, and exports PNG and PDF pages with Inkscape.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.readme {
				_, err := io.WriteString(cmd.OutOrStdout(), usageDoc)
				return err
			}
			if flags.initConfig {
				return writeSampleConfig(cmd, flags.root)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runPipeline(ctx, cmd, flags)
		},
	}

	fs := rootCmd.Flags()
	fs.BoolVarP(&flags.overwrite, "overwrite", "o", false, "Reprocess images even when all outputs already exist")
	fs.BoolVar(&flags.readme, "readme", false, "Print the usage document and exit")
	fs.BoolVar(&flags.initConfig, "init-config", false, "Write a sample coloring.toml into the workspace root and exit")
	fs.Var(&flags.mode, "mode", "Cleaning strategy: auto, color, or bw")
	fs.Var(&flags.invert, "invert", "Negate the image before thresholding: on or off")
	fs.StringVar(&flags.root, "root", "", "Workspace root (defaults to the current directory)")
	fs.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	fs.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, or error")

	return rootCmd
}

func writeSampleConfig(cmd *cobra.Command, root string) error {
	resolved, err := config.ResolveRoot(root)
	if err != nil {
		return err
	}
	path := filepath.Join(resolved, config.FileName)
	if err := config.CreateSample(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", path)
	return nil
}
