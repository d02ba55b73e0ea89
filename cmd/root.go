package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/Another0Noob/levelsync/internal/config"
	"github.com/Another0Noob/levelsync/internal/levelindex"
	"github.com/Another0Noob/levelsync/internal/logging"
	"github.com/Another0Noob/levelsync/internal/sync"
	"github.com/Another0Noob/levelsync/internal/uploads"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	envFile    string
	uploadsDir string
	indexFile  string
	logLevel   string
	dryRun     bool
)

var rootCmd = &cobra.Command{
	Use:   "levelsync",
	Short: "Keep levels.json in sync with the uploaded level files",
	Long: `levelsync scans the uploads directory for <level-id>.gdr2 files and
updates levels.json so it maps the name of every uploaded level to its ID.
Names of new levels are fetched from the Geometry Dash servers; entries
whose file was removed are dropped.

Run it with no arguments from the repository root.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context())
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&cfgFile,
		"config",
		"c",
		config.DefaultPath,
		"path to config file (optional)",
	)
	rootCmd.PersistentFlags().StringVar(
		&envFile,
		"env-file",
		".env",
		"path to .env file (optional)",
	)
	rootCmd.PersistentFlags().StringVar(
		&indexFile,
		"index",
		"",
		"path to the level index (default from config: levels.json)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel,
		"log-level",
		"",
		"log level (debug, info, warn, error)",
	)

	rootCmd.Flags().StringVarP(
		&uploadsDir,
		"uploads",
		"u",
		"",
		"uploads directory (default from config: uploads)",
	)
	rootCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"show what would change without writing the index",
	)
}

// setup loads configuration, applies flag overrides and returns a context
// carrying a logger that writes to logOut.
func setup(ctx context.Context, logOut io.Writer) (context.Context, config.Config, error) {
	logCfg := logging.DefaultConfig()
	logCfg.Output = logOut
	if logLevel != "" {
		logCfg.Level = logLevel
	}
	logging.Configure(logCfg)
	ctx = logging.WithLogger(ctx, logging.Default())

	if err := config.LoadEnvFile(envFile); err != nil {
		return ctx, config.Config{}, err
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return ctx, cfg, err
	}
	cfg.ApplyEnv()

	if uploadsDir != "" {
		cfg.Levels.UploadsDir = uploadsDir
	}
	if indexFile != "" {
		cfg.Levels.IndexFile = indexFile
	}
	return ctx, cfg, nil
}

// runSync never fails the process: every problem is logged and the exit
// status stays 0.
func runSync(ctx context.Context) error {
	ctx, cfg, err := setup(ctx, os.Stdout)
	log := logging.FromContext(ctx)
	if err != nil {
		log.Error().Err(err).Msg("cannot load configuration")
		return nil
	}

	log.Info().
		Str("uploads", cfg.Levels.UploadsDir).
		Str("index", cfg.Levels.IndexFile).
		Msg("--- Syncing levels ---")

	r := sync.New(
		levelindex.NewStore(cfg.Levels.IndexFile),
		uploads.NewScanner(cfg.Levels.UploadsDir, cfg.Levels.Extension),
		cfg.Client(),
		sync.WithDryRun(dryRun),
	)

	report, err := r.Sync(ctx)
	if err != nil {
		log.Error().Err(err).Msg("sync failed")
		return nil
	}

	log.Info().
		Int("added", len(report.Added)).
		Int("removed", len(report.Removed)).
		Int("unresolved", len(report.Unresolved)).
		Int("skipped", len(report.Skipped)).
		Int("total", len(report.Index)).
		Msg("--- Done ---")
	for _, u := range report.Unresolved {
		log.Warn().Int64("level_id", u.ID).Msg("level name still unresolved, will retry next run")
	}
	return nil
}
