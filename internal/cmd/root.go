// Package cmd provides the command-line interface for songstage.
// It handles argument parsing, configuration loading and pipeline execution.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/masahif/songstage/internal/catalog"
	"github.com/masahif/songstage/internal/config"
	"github.com/masahif/songstage/internal/ingest"
	"github.com/masahif/songstage/internal/logging"
	"github.com/masahif/songstage/internal/objectstore"
	"github.com/masahif/songstage/internal/storage"
)

// ErrInvalidArguments is returned when positionals are not title/artist pairs
var ErrInvalidArguments = errors.New("expected one or more <title> <artist> pairs")

var (
	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

// Execute runs the root command with signal-aware context
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersionInfo sets version information for the CLI
func SetVersionInfo(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// app carries the state of one command instance
type app struct {
	v       *viper.Viper
	cfgFile string
	envFile string
}

// envBinding maps a config key to the environment variables it reads,
// in priority order
type envBinding struct {
	key  string
	envs []string
}

// The unprefixed names are the ones used by the existing deployment
var envBindings = []envBinding{
	{"store.provider", []string{"SONGSTAGE_STORE_PROVIDER"}},
	{"store.bucket", []string{"SONGSTAGE_STORE_BUCKET", "BUCKET_NAME"}},
	{"store.region", []string{"SONGSTAGE_STORE_REGION", "AWS_REGION"}},
	{"store.access_key_id", []string{"SONGSTAGE_STORE_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID"}},
	{"store.secret_access_key", []string{"SONGSTAGE_STORE_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY"}},
	{"store.endpoint", []string{"SONGSTAGE_STORE_ENDPOINT"}},
	{"store.prefix", []string{"SONGSTAGE_STORE_PREFIX"}},
	{"store.root", []string{"SONGSTAGE_STORE_ROOT"}},
	{"store.requests_per_second", []string{"SONGSTAGE_STORE_REQUESTS_PER_SECOND"}},
	{"database.driver", []string{"SONGSTAGE_DATABASE_DRIVER"}},
	{"database.host", []string{"SONGSTAGE_DATABASE_HOST", "MYSQL_HOST"}},
	{"database.port", []string{"SONGSTAGE_DATABASE_PORT", "MYSQL_PORT"}},
	{"database.user", []string{"SONGSTAGE_DATABASE_USER", "MYSQL_USER"}},
	{"database.password", []string{"SONGSTAGE_DATABASE_PASSWORD", "MYSQL_PASSWORD"}},
	{"database.name", []string{"SONGSTAGE_DATABASE_NAME", "MYSQL_DATABASE"}},
	{"database.path", []string{"SONGSTAGE_DATABASE_PATH"}},
	{"database.sslmode", []string{"SONGSTAGE_DATABASE_SSLMODE"}},
	{"database.init_schema", []string{"SONGSTAGE_DATABASE_INIT_SCHEMA"}},
	{"log.level", []string{"SONGSTAGE_LOG_LEVEL"}},
	{"log.format", []string{"SONGSTAGE_LOG_FORMAT"}},
	{"log.file", []string{"SONGSTAGE_LOG_FILE"}},
	{"log.max_size_mb", []string{"SONGSTAGE_LOG_MAX_SIZE_MB"}},
	{"log.max_backups", []string{"SONGSTAGE_LOG_MAX_BACKUPS"}},
	{"dry_run", []string{"SONGSTAGE_DRY_RUN"}},
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "songstage <title> <artist> [<title> <artist> ...]",
		Short: "Load raw song documents from object storage into the staging database",
		Long: `songstage looks up the raw JSON document of each requested song in the
object store (raw/<artist>_<title>.json), normalizes release dates and
lyrics, and upserts the artist and song rows into the staging database.

Songs without a document are skipped. A failing record is rolled back and
logged without stopping the batch.`,
		Version:           fmt.Sprintf("%s (built %s)", version, buildTime),
		SilenceErrors:     true,
		Args:              titleArtistPairs,
		PersistentPreRunE: a.initConfig,
		RunE:              a.run,
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./songstage.yml)")
	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	flags := cmd.Flags()
	flags.Bool("show-config", false, "Display current configuration in YAML format and exit")
	flags.Bool("dry-run", false, "Fetch and normalize records without writing to the database")

	// Object store flags
	flags.String("provider", config.ProviderS3, "Object store provider: s3, gcs or fs")
	flags.StringP("bucket", "b", "", "Bucket holding the raw documents")
	flags.String("prefix", catalog.ObjectKeyPrefix, "Key prefix of raw documents")
	flags.String("region", "", "AWS region")
	flags.String("endpoint", "", "Custom object store endpoint (MinIO, GCS emulator)")
	flags.String("root", "", "Local directory used by the fs provider")
	flags.Float64("rps", 0, "Maximum object downloads per second (0=unlimited)")

	// Database flags
	flags.String("db-driver", config.DriverMySQL, "Database driver: mysql, postgres or sqlite")
	flags.String("db-host", "", "Database host")
	flags.Int("db-port", 0, "Database port (0=driver default)")
	flags.String("db-user", "", "Database user")
	flags.String("db-name", "", "Database name")
	flags.StringP("database", "d", "./songstage.db", "Path to SQLite database file")
	flags.Bool("init-schema", false, "Create the artists and songs tables if missing")

	// Logging flags
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "json", "Log format: json or text")
	flags.String("log-file", "", "Also write logs to this file (rotated)")

	bindFlags := []struct {
		viperKey string
		flagName string
	}{
		{"dry_run", "dry-run"},
		{"store.provider", "provider"},
		{"store.bucket", "bucket"},
		{"store.prefix", "prefix"},
		{"store.region", "region"},
		{"store.endpoint", "endpoint"},
		{"store.root", "root"},
		{"store.requests_per_second", "rps"},
		{"database.driver", "db-driver"},
		{"database.host", "db-host"},
		{"database.port", "db-port"},
		{"database.user", "db-user"},
		{"database.name", "db-name"},
		{"database.path", "database"},
		{"database.init_schema", "init-schema"},
		{"log.level", "log-level"},
		{"log.format", "log-format"},
		{"log.file", "log-file"},
	}

	for _, bind := range bindFlags {
		if err := a.v.BindPFlag(bind.viperKey, flags.Lookup(bind.flagName)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind flag %s: %v\n", bind.flagName, err)
		}
	}

	return cmd
}

// titleArtistPairs accepts a non-empty, even list of positionals.
// --show-config needs no songs and accepts none.
func titleArtistPairs(cmd *cobra.Command, args []string) error {
	if cmd != nil {
		if showConfig, _ := cmd.Flags().GetBool("show-config"); showConfig && len(args) == 0 {
			return nil
		}
	}
	if len(args) < 2 || len(args)%2 != 0 {
		return fmt.Errorf("%w, got %d argument(s)", ErrInvalidArguments, len(args))
	}
	return nil
}

// parseRequests pairs positionals as (title, artist)
func parseRequests(args []string) []catalog.SongRequest {
	requests := make([]catalog.SongRequest, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		requests = append(requests, catalog.SongRequest{Title: args[i], Artist: args[i+1]})
	}
	return requests
}

// initConfig loads the dotenv file, the config file and the environment
func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("env-file") {
				return fmt.Errorf("failed to load env file %s: %w", a.envFile, err)
			}
		}
	}

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigType("yaml")
		a.v.SetConfigName("songstage")
	}

	a.v.SetEnvPrefix("SONGSTAGE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()
	for _, b := range envBindings {
		if err := a.v.BindEnv(append([]string{b.key}, b.envs...)...); err != nil {
			return fmt.Errorf("failed to bind environment for %s: %w", b.key, err)
		}
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", a.v.ConfigFileUsed())
	}
	return nil
}

// loadConfig merges defaults with everything viper knows about
func (a *app) loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if err := a.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func showCurrentConfig(w io.Writer, cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Configuration validation failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "Displaying configuration anyway...\n\n")
	}

	yamlData, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %w", err)
	}

	fmt.Fprintf(w, "# Current songstage configuration\n")
	fmt.Fprintf(w, "# Generated at: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "# Environment variables prefix: SONGSTAGE_\n\n")
	_, err = w.Write(yamlData)
	return err
}

func (a *app) run(cmd *cobra.Command, args []string) error {
	// Arguments are valid from here on; runtime errors do not need usage
	cmd.SilenceUsage = true

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	if showConfig, _ := cmd.Flags().GetBool("show-config"); showConfig {
		return showCurrentConfig(cmd.OutOrStdout(), cfg)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logCloser, err := logging.SetDefault(logging.FromSettings(cfg.Log))
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	defer func() { _ = logCloser.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report, err := runPipeline(ctx, cfg, parseRequests(args))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Requested: %d, found: %d, stored: %d, failed: %d\n",
		report.Requested, report.Resolved, report.Committed, report.Failed)
	return nil
}

// runPipeline opens the object store and database, runs the batch and
// releases both on every path
func runPipeline(ctx context.Context, cfg *config.Config, requests []catalog.SongRequest) (*ingest.Report, error) {
	bucket, err := objectstore.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open object store: %w", err)
	}
	defer func() {
		if err := bucket.Close(); err != nil {
			slog.Warn("Failed to close object store", "error", err)
		}
	}()

	var store ingest.SongStore
	if !cfg.DryRun {
		db, err := storage.Open(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				slog.Warn("Failed to close database", "error", err)
			}
		}()
		store = db
	}

	fetcher := ingest.NewFetcher(bucket, cfg.Store.Prefix, cfg.Store.RequestsPerSecond)
	pipeline := ingest.NewPipeline(fetcher, store, ingest.WithDryRun(cfg.DryRun))
	return pipeline.Run(ctx, requests)
}
