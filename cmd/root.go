package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/synthtutor/internal/api"
	"github.com/abhisek/synthtutor/internal/config"
	"github.com/abhisek/synthtutor/internal/logging"
	"github.com/abhisek/synthtutor/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "synthtutor",
	Short: "Terminal client for the Synthesis tutor",
	Long:  "synthtutor: chat with an AI tutor, work through learning modules and track progress from the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String("api", "", "Backend base URL (overrides SYNTHTUTOR_BACKEND_URL)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("journal", "", "Path to the SQLite request journal (overrides SYNTHTUTOR_JOURNAL)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration and applies flag overrides, which win
// over every other source.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	opts := config.Options{File: file, Strict: file != "", DotEnv: []string{".env"}}
	if file == "" {
		opts.File = config.DefaultFile()
	}

	cfg, err := config.Load(opts)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if u, _ := cmd.Flags().GetString("api"); u != "" {
		cfg.BackendURL = strings.TrimRight(u, "/")
	}
	if p, _ := cmd.Flags().GetString("journal"); p != "" {
		cfg.Journal = p
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg config.Config) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return logging.New(cfg.LogFile, cfg.LogLevel, verbose)
}

// openJournal opens the configured journal. It returns nil when no journal
// path is set.
func openJournal(cfg config.Config) (*store.Store, error) {
	if cfg.Journal == "" {
		return nil, nil
	}
	if err := store.EnsureDir(cfg.Journal); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	st, err := store.Open(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return st, nil
}

func newClient(cfg config.Config, log *zap.Logger) *api.Client {
	return api.New(cfg.BackendURL, api.WithTimeout(cfg.Timeout), api.WithLogger(log))
}
