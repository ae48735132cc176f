package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/filehub/uploader/internal/config"
	"github.com/filehub/uploader/internal/utils"
	"github.com/filehub/uploader/internal/version"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	home, _          = os.UserHomeDir()
	defaultServerURL = "https://files.filehub.dev"
	defaultLogFile   = filepath.Join(home, ".filehub", "logs", "uploader.log")
	configFileName   = "config"
)

var (
	red   = color.New(color.FgHiRed, color.Bold).SprintFunc()
	green = color.New(color.FgHiGreen).SprintFunc()
	cyan  = color.New(color.FgHiCyan).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:     "uploader [files...]",
	Short:   "FileHub upload client",
	Version: version.Detailed(),
	Args:    cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := &config.Config{
			Path:            viper.ConfigFileUsed(),
			ServerURL:       viper.GetString("server_url"),
			Category:        viper.GetString("category"),
			Concurrency:     viper.GetInt("concurrency"),
			DirectThreshold: viper.GetInt("direct_threshold"),
			ChunkSizeMB:     viper.GetInt("chunk_size_mb"),
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		cmd.SilenceUsage = true
		return runUpload(cmd.Context(), cfg, args)
	},
}

func init() {
	rootCmd.Flags().SortFlags = false
	rootCmd.Flags().StringP("server", "s", defaultServerURL, "FileHub server URL")
	rootCmd.Flags().String("category", config.DefaultCategory, "Upload category")
	rootCmd.Flags().Int("concurrency", 0, "Concurrent direct uploads (0 = default)")
	rootCmd.Flags().Int("direct-threshold", 0, "Max file count for the direct path (0 = default)")
	rootCmd.Flags().Int("chunk-size-mb", 0, "Chunked upload threshold in MiB (0 = default)")
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultConfigPath, "Config file")
}

func main() {
	setupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, red("error:"), err)
		os.Exit(1)
	}
}

func setupLogging() {
	stdoutHandler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})

	handlers := []slog.Handler{stdoutHandler}
	if err := utils.EnsureParent(defaultLogFile); err == nil {
		if file, err := os.OpenFile(defaultLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			handlers = append(handlers, slog.NewTextHandler(file, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}))
		}
	}

	slog.SetDefault(slog.New(utils.NewTeeLogHandler(handlers...)))
}

func loadConfig(cmd *cobra.Command) error {
	// config path
	if cmd.Flag("config").Changed {
		configFilePath, _ := cmd.Flags().GetString("config")
		viper.SetConfigFile(configFilePath)
	} else {
		viper.AddConfigPath(filepath.Join(home, ".filehub"))
		viper.AddConfigPath(filepath.Join(home, ".config/filehub"))
		viper.SetConfigName(configFileName)
		viper.SetConfigType("json")
	}

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		enoent := errors.Is(err, os.ErrNotExist)
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !enoent && !notFound {
			return fmt.Errorf("config read '%s': %w", viper.ConfigFileUsed(), err)
		}
	}

	// Bind flags to viper
	viper.BindPFlag("server_url", cmd.Flags().Lookup("server"))
	viper.BindPFlag("category", cmd.Flags().Lookup("category"))
	viper.BindPFlag("concurrency", cmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("direct_threshold", cmd.Flags().Lookup("direct-threshold"))
	viper.BindPFlag("chunk_size_mb", cmd.Flags().Lookup("chunk-size-mb"))

	// Set up environment variables
	viper.SetEnvPrefix("FILEHUB")
	viper.AutomaticEnv()

	return nil
}
