// twozero is the 2048 sliding-tile game for the terminal.
//
// Usage:
//
//	twozero play             - Play in this terminal
//	twozero scores           - Show the score history
//	twozero serve            - Start the SSH server (and optional spectator socket)
//	twozero config           - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: from config)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.twozero/twozero.db)
//	--config <path>       - Custom config YAML
//	--preset <name>       - Board preset: small, classic, large
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/twozero/internal/config"
	"github.com/vovakirdan/twozero/internal/storage"
)

const (
	envDBPath   = "TWOZERO_DB"
	envLogLevel = "TWOZERO_LOG_LEVEL"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagPreset   string
	flagLogLevel string

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "twozero",
	})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "twozero",
	Short: "2048 in your terminal",
	Long: `twozero is the 2048 sliding-tile puzzle for the terminal.

Slide the board to merge equal tiles and reach 2048. Games are saved when
you leave and can be continued later; scores are kept in a local database.

Available commands:
  play     - Play in this terminal
  scores   - View the score history
  serve    - Start SSH server for remote play
  config   - Print the effective configuration

Examples:
  twozero play
  twozero play --preset small
  twozero serve --ssh :2222 --ws :8080
  twozero scores`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (frames per second, 0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.twozero/twozero.db", "Path to scores database (env "+envDBPath+")")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Board preset: small, classic, large")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (env "+envLogLevel+")")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads .env, lets the environment fill flags the user did not set
// and configures the logger.
func setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	flags := cmd.Flags()
	if v := os.Getenv(envDBPath); v != "" && !flags.Changed("db") {
		flagDBPath = v
	}
	if v := os.Getenv(envLogLevel); v != "" && !flags.Changed("log-level") {
		flagLogLevel = v
	}

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
	}
	logger.SetLevel(level)
	return nil
}

// loadGameConfig resolves the configuration file and applies --preset.
func loadGameConfig() (config.GameConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	if flagPreset != "" {
		preset, err := config.ParsePreset(flagPreset)
		if err != nil {
			return cfg, err
		}
		config.ApplyPreset(&cfg, preset)
		if err := cfg.Validate(); err != nil {
			return cfg, err
		}
	}

	if flagFPS > 0 {
		cfg.Runtime.TickRate = flagFPS
	}
	return cfg, nil
}

// openStore opens the database, or returns nil after a warning so that the
// game still works without persistence.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database, scores and saves are disabled", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}
