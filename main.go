package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ossyrian/hdrpack/internal/archive"
	"github.com/ossyrian/hdrpack/internal/config"
	"github.com/ossyrian/hdrpack/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hdrpack [FILES...] --out ARCHIVE | --unpack ARCHIVE",
	Short: "Pack files into a single archive, or unpack one next to itself",
	Args:  cobra.ArbitraryArgs,
	RunE:  run,

	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")

	// actions
	rootCmd.Flags().StringP("unpack", "u", "", "archive to unpack into its own directory")
	rootCmd.Flags().StringP("out", "o", "", "archive to create from FILES")
	rootCmd.MarkFlagsMutuallyExclusive("unpack", "out")

	// i/o
	rootCmd.Flags().Int("buffer-size", 0, "copy buffer size in bytes (default 10 MiB)")

	// other opts
	rootCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error, fatal)")
	rootCmd.Flags().String("log-output-dir", "", "directory to write log files (if set, logs are written to both stderr and file)")
	rootCmd.Flags().Bool("dry-run", false, "validate inputs or archive header without writing files")

	viper.BindPFlag("unpack", rootCmd.Flags().Lookup("unpack"))
	viper.BindPFlag("out", rootCmd.Flags().Lookup("out"))
	viper.BindPFlag("buffer_size", rootCmd.Flags().Lookup("buffer-size"))
	viper.BindPFlag("log_level", rootCmd.Flags().Lookup("log-level"))
	viper.BindPFlag("log_output_dir", rootCmd.Flags().Lookup("log-output-dir"))
	viper.BindPFlag("dry_run", rootCmd.Flags().Lookup("dry-run"))
}

// initConfig reads in config file and environment variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "hdrpack"))
		}
		viper.AddConfigPath("/etc/hdrpack")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("HDRPACK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// run resolves the requested action and performs it
func run(cmd *cobra.Command, args []string) error {
	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := logging.Setup(cfg.LogLevel, cfg.LogOutputDir); err != nil {
		return fmt.Errorf("could not set up logging: %w", err)
	}

	// cobra prints usage for errors returned here
	act, err := resolveAction(cfg, args)
	if err != nil {
		return err
	}
	for _, w := range act.warnings {
		slog.Warn(w)
	}

	// from here on, failures are reported by report, not as usage errors
	cmd.SilenceUsage = true

	opts := []archive.Option{
		archive.WithBufferSize(cfg.BufferSize),
		archive.WithLogger(slog.Default()),
	}

	switch act.kind {
	case actionUnpack:
		return unpack(act.archive, cfg.DryRun, opts)
	default:
		return pack(act.inputs, act.archive, cfg.DryRun, opts)
	}
}

func pack(inputs []string, output string, dryRun bool, opts []archive.Option) error {
	logger := slog.With("output", output)

	if dryRun {
		h, err := archive.Plan(inputs, opts...)
		if err != nil {
			return err
		}
		for _, m := range h.Members {
			logger.Info("would pack", "name", m.Name, "size", m.Size)
		}
		logger.Info("dry run complete", "header_length", h.Length, "payload_size", h.PayloadSize())
		return nil
	}

	logger.Info("packing", "inputs", len(inputs))

	_, err := archive.Pack(inputs, output, opts...)
	var perr *archive.PartialOutputError
	if errors.As(err, &perr) {
		if rerr := os.Remove(perr.Path); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
			logger.Warn("could not remove incomplete archive", "error", rerr)
		} else {
			logger.Warn("removed incomplete archive")
		}
	}
	return err
}

func unpack(path string, dryRun bool, opts []archive.Option) error {
	logger := slog.With("archive", path)

	a, err := archive.Open(path, opts...)
	if err != nil {
		return err
	}

	if dryRun {
		defer a.Close()
		for _, m := range a.Members() {
			logger.Info("would extract", "name", m.Name, "size", m.Size, "dir", a.Dir())
		}
		logger.Info("dry run complete", "members", len(a.Members()))
		return nil
	}

	logger.Info("unpacking", "members", len(a.Members()), "dir", a.Dir())
	return a.Extract()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		report(slog.Default(), err)
		os.Exit(1)
	}
}
