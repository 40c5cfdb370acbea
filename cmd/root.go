// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-contributions/internal/config"
	"github.com/naka-gawa/github-contributions/internal/gateway"
	"github.com/naka-gawa/github-contributions/internal/usecase"
)

// Set by the linker at release time.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "github-contributions",
	Short: "Contribution calendar, streaks and repository activity for a GitHub account.",
	Long: `github-contributions aggregates the public contribution calendar of a GitHub
account, computes current and longest daily streaks, and lists top and recently
active repositories. It can print a one-off report, serve the data as a JSON API,
or expose it as MCP tools.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("env-file", "", "Load environment variables from this file (default .env if present)")
}

// app bundles the wired dependencies shared by the subcommands.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	aggregator *usecase.Aggregator
	profile    *usecase.ProfileService
}

// setup loads the environment, builds the logger and wires the gateway into
// the use cases.
func setup(cmd *cobra.Command) (*app, error) {
	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	envFile, _ := cmd.InheritedFlags().GetString("env-file")
	logger := newLogger(os.Stderr, verbose)

	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Debug("config loaded",
		"username", cfg.Username,
		"listen_addr", cfg.ListenAddr,
		"graphql_url", cfg.GraphQLURL,
		"timezone", cfg.Timezone,
	)

	githubGateway, err := gateway.NewGitHubGateway(cfg.GatewayOptions(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		aggregator: usecase.NewAggregator(githubGateway, cfg.Username, logger, usecase.WithLocation(cfg.Location())),
		profile:    usecase.NewProfileService(githubGateway, cfg.Username, logger),
	}, nil
}

// newLogger returns a text logger on w at Info, or Debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. With no path, a missing .env is not an error.
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}
