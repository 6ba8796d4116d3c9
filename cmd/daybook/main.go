package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"eldernews/daybook/internal/classify"
	"eldernews/daybook/internal/config"
	"eldernews/daybook/internal/database"
	"eldernews/daybook/internal/database/migrations"
	"eldernews/daybook/internal/fetch"
	"eldernews/daybook/internal/ingest"
	"eldernews/daybook/internal/server"
	"eldernews/daybook/internal/store"
	"eldernews/daybook/internal/summarize"
)

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

func usage() {
	fmt.Println("Usage: daybook [command] [options]")
	fmt.Println("Commands: fetch, server, migrate")
	fmt.Println("\nFor command-specific options, use: daybook [command] -h")
}

func main() {
	cfg := config.DefaultConfig()

	fetchCmd := flag.NewFlagSet("fetch", flag.ExitOnError)
	fetchCmd.StringVar(&cfg.DBPath, "db", config.GetEnvString("DAYBOOK_DB_PATH", config.DefaultDBPath),
		"Path to the SQLite database file (env: DAYBOOK_DB_PATH)")
	fetchCmd.StringVar(&cfg.Country, "country", config.GetEnvString("DAYBOOK_COUNTRY", config.DefaultCountry),
		"Country code for top headlines (env: DAYBOOK_COUNTRY)")
	fetchCmd.IntVar(&cfg.PageSize, "count", config.GetEnvInt("DAYBOOK_NEWS_COUNT", config.DefaultPageSize),
		"Number of headlines to fetch per cycle (env: DAYBOOK_NEWS_COUNT)")
	fetchCmd.IntVar(&cfg.SummaryLimit, "summaries", config.GetEnvInt("DAYBOOK_SUMMARY_LIMIT", config.DefaultSummaryLimit),
		"Max summaries generated per cycle, 0 to disable (env: DAYBOOK_SUMMARY_LIMIT)")

	var feedURLs string
	fetchCmd.StringVar(&feedURLs, "feeds", config.GetEnvString("DAYBOOK_FEED_URLS", ""),
		"Comma-separated RSS feed URLs; when set, headlines come from RSS instead of the headline API (env: DAYBOOK_FEED_URLS)")

	fetchCmd.DurationVar(&cfg.Interval, "interval", cfg.Interval,
		"Interval between ingestion cycles (e.g. 30m), 0 for one-shot mode (env: DAYBOOK_INTERVAL)")

	var fetchLogLevelStr string
	fetchCmd.StringVar(&fetchLogLevelStr, "log-level", config.GetEnvString("DAYBOOK_LOG_LEVEL", config.DefaultLogLevel),
		"Log level: debug, info, warn, error (env: DAYBOOK_LOG_LEVEL)")

	serverCmd := flag.NewFlagSet("server", flag.ExitOnError)
	serverCmd.StringVar(&cfg.DBPath, "db", config.GetEnvString("DAYBOOK_DB_PATH", config.DefaultDBPath),
		"Path to the SQLite database file (env: DAYBOOK_DB_PATH)")
	serverCmd.StringVar(&cfg.ServerHost, "host", config.GetEnvString("DAYBOOK_HOST", config.DefaultServerHost),
		"Host to bind the server to (env: DAYBOOK_HOST)")
	serverCmd.IntVar(&cfg.ServerPort, "port", config.GetEnvInt("DAYBOOK_PORT", config.DefaultServerPort),
		"Port to listen on (env: DAYBOOK_PORT)")
	serverCmd.BoolVar(&cfg.ReadOnly, "readonly", config.GetEnvBool("DAYBOOK_READONLY", false),
		"Serve only the read endpoints on a read-only database connection (env: DAYBOOK_READONLY)")

	var serverLogLevelStr string
	serverCmd.StringVar(&serverLogLevelStr, "log-level", config.GetEnvString("DAYBOOK_LOG_LEVEL", config.DefaultLogLevel),
		"Log level: debug, info, warn, error (env: DAYBOOK_LOG_LEVEL)")

	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	migrateCmd.StringVar(&cfg.DBPath, "db", config.GetEnvString("DAYBOOK_DB_PATH", config.DefaultDBPath),
		"Path to the SQLite database file (env: DAYBOOK_DB_PATH)")

	var rollbackN int
	migrateCmd.IntVar(&rollbackN, "down", 0,
		"Number of migrations to roll back; 0 only applies pending migrations")

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "fetch":
		fetchCmd.Parse(os.Args[2:])

		if level, err := zerolog.ParseLevel(fetchLogLevelStr); err == nil {
			cfg.LogLevel = level
		}
		zerolog.SetGlobalLevel(cfg.LogLevel)

		if feedURLs != "" {
			for _, u := range strings.Split(feedURLs, ",") {
				if u = strings.TrimSpace(u); u != "" {
					cfg.FeedURLs = append(cfg.FeedURLs, u)
				}
			}
		}

		if err := runFetch(cfg); err != nil {
			log.Error().Err(err).Msg("Ingestion failed")
			os.Exit(1)
		}

	case "server":
		serverCmd.Parse(os.Args[2:])

		if level, err := zerolog.ParseLevel(serverLogLevelStr); err == nil {
			cfg.LogLevel = level
		}
		zerolog.SetGlobalLevel(cfg.LogLevel)

		if err := runServer(cfg); err != nil {
			log.Error().Err(err).Msg("Server failed")
			os.Exit(1)
		}

	case "migrate":
		migrateCmd.Parse(os.Args[2:])

		if err := runMigrate(cfg.DBPath, rollbackN); err != nil {
			log.Error().Err(err).Msg("Migration failed")
			os.Exit(1)
		}

	case "-h", "--help", "help":
		usage()
		os.Exit(0)

	default:
		log.Error().Str("command", os.Args[1]).Msg("Unknown command")
		usage()
		os.Exit(1)
	}
}

// runFetch executes the ingestion trigger either once or periodically based
// on configuration.
func runFetch(cfg *config.Config) error {
	if cfg.Interval <= 0 {
		log.Info().Msg("Running in one-shot mode")
	} else {
		log.Info().Int64("interval_minutes", int64(cfg.Interval.Minutes())).Msg("Running in periodic mode")
	}

	var source ingest.HeadlineSource
	if len(cfg.FeedURLs) > 0 {
		log.Info().Int("feeds", len(cfg.FeedURLs)).Msg("Using RSS headline source")
		source = fetch.NewRSSSource(cfg.FeedURLs)
	} else {
		if cfg.NewsAPIKey == "" {
			return fmt.Errorf("NEWS_API_KEY is not set and no RSS feeds configured")
		}
		source = fetch.NewNewsAPIClient(cfg.NewsAPIKey, cfg.Country, cfg.PageSize)
	}

	db, err := database.NewDB(database.NewConfig(cfg.DBPath))
	if err != nil {
		log.Error().Err(err).Str("path", cfg.DBPath).Msg("Failed to initialize database")
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	st := store.New(db)
	st.Classify = classify.Simple

	summarizer := summarize.New(cfg.OpenAIKey, cfg.OpenAIModel)
	if summarizer.Available() {
		log.Info().Msg("Remote summarization enabled")
	} else {
		log.Info().Msg("Remote summarization disabled, using local fallback")
	}

	trigger := ingest.New(st, source, summarizer, cfg.SummaryLimit)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-shutdown
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
	}()

	if err := runIngestionCycle(ctx, trigger); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("Ingestion cycle canceled by shutdown signal")
			return nil
		}
		if cfg.Interval == 0 {
			return err
		}
		log.Error().Err(err).Msg("Ingestion cycle failed")
	}

	if cfg.Interval == 0 {
		log.Info().Msg("One-shot ingestion completed, exiting")
		return nil
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	log.Info().
		Dur("interval", cfg.Interval).
		Time("next_run", time.Now().Add(cfg.Interval)).
		Msg("Waiting for next ingestion cycle")

	for {
		select {
		case <-ticker.C:
			log.Info().Msg("Starting scheduled ingestion cycle")

			if err := runIngestionCycle(ctx, trigger); err != nil {
				if errors.Is(err, context.Canceled) {
					log.Info().Msg("Ingestion cycle canceled by shutdown signal")
					return nil
				}
				log.Error().Err(err).Msg("Ingestion cycle failed")
				// Continue to the next cycle rather than exiting
			}

			log.Info().
				Time("next_run", time.Now().Add(cfg.Interval)).
				Msg("Waiting for next ingestion cycle")

		case <-ctx.Done():
			log.Info().Msg("Shutting down periodic ingestion")
			return nil
		}
	}
}

// runIngestionCycle executes a single bounded ingestion cycle.
func runIngestionCycle(ctx context.Context, trigger *ingest.Trigger) error {
	cycleCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	startTime := time.Now()
	err := trigger.RunCycle(cycleCtx)
	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Ingestion cycle finished")

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("ingestion error: %w", err)
	}
	return nil
}

// runMigrate applies pending migrations and optionally rolls back the last N.
// Opening the database already applies anything pending.
func runMigrate(dbPath string, down int) error {
	db, err := database.NewDB(database.NewConfig(dbPath))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if down <= 0 {
		log.Info().Msg("Database is up to date")
		return nil
	}

	files, err := migrations.LoadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	if err := migrations.RollbackMigrations(db.DB.DB, files, down); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}

// runServer starts the HTTP API server with the provided configuration.
func runServer(cfg *config.Config) error {
	dbCfg := database.NewConfig(cfg.DBPath)
	dbCfg.ReadOnly = cfg.ReadOnly

	db, err := database.NewDB(dbCfg)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.DBPath).Msg("Failed to initialize database")
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	st := store.New(db)
	st.Classify = classify.Simple

	summarizer := summarize.New(cfg.OpenAIKey, cfg.OpenAIModel)

	return server.RunServer(st, summarizer, log.Logger, server.Options{
		ListenAddr: cfg.ListenAddr(),
		APIKey:     cfg.APIKey,
		ReadOnly:   cfg.ReadOnly,
	})
}
