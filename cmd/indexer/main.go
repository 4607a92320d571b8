// indexer is the skill-catalog crawl and scoring service: a durable
// job-queue worker with a cron scheduler for recurring crawls, plus a
// handful of operator subcommands for running a single pass or applying
// schema migrations.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/skillcatalog/indexer/internal/cache"
	"github.com/skillcatalog/indexer/internal/catalog"
	"github.com/skillcatalog/indexer/internal/catalog/migrations"
	"github.com/skillcatalog/indexer/internal/config"
	"github.com/skillcatalog/indexer/internal/ghclient"
	"github.com/skillcatalog/indexer/internal/jobqueue"
	"github.com/skillcatalog/indexer/internal/log"
	"github.com/skillcatalog/indexer/internal/models"
	"github.com/skillcatalog/indexer/internal/notifier"
	"github.com/skillcatalog/indexer/internal/pipeline"
	"github.com/skillcatalog/indexer/internal/searchindex"
	"github.com/skillcatalog/indexer/internal/tokenpool"
	"github.com/skillcatalog/indexer/pkg/version"
)

func main() {
	if err := log.Init(os.Getenv("INDEXER_LOG_DIR")); err != nil {
		fmt.Fprintf(os.Stderr, "indexer: init logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Close() }()

	if err := rootCmd().Execute(); err != nil {
		log.Errorf("indexer: %v", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "indexer",
		Short:         "Crawl, score, and serve the skill catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd())
	root.AddCommand(crawlCmd())
	root.AddCommand(scoreCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(versionCmd())
	return root
}

// versionCmd prints the build version, commit, and Go runtime info.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version.Full())
			return nil
		},
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

// serveCmd runs the worker pool and cron scheduler until interrupted.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the job-queue worker and cron scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			worker := jobqueue.NewWorker(app.Queue)
			worker.SetConcurrency(models.JobIndexSkill, app.Config.Concurrency)
			app.Pipeline.Register(worker)

			scheduler := jobqueue.NewScheduler(app.Queue)
			if err := scheduler.Start(ctx); err != nil {
				return fmt.Errorf("start scheduler: %w", err)
			}
			defer scheduler.Stop()

			log.Infof("indexer: serving (concurrency=%d min_stars=%d)", app.Config.Concurrency, app.Config.MinStars)
			worker.Run(ctx)
			return nil
		},
	}
}

// crawlCmd enqueues one full or incremental crawl job and exits; the
// scheduler normally enqueues these on its own cadence, this is for an
// operator-triggered off-cycle run.
func crawlCmd() *cobra.Command {
	var full bool
	var incremental bool

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Enqueue a full or incremental crawl",
		RunE: func(cmd *cobra.Command, args []string) error {
			if full == incremental {
				return fmt.Errorf("specify exactly one of --full or --incremental")
			}

			ctx := cmd.Context()
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if full {
				return app.Queue.Enqueue(ctx, models.JobFullCrawl, jobqueue.FullCrawlPayload{})
			}
			return app.Queue.Enqueue(ctx, models.JobIncrementalCrawl, jobqueue.IncrementalCrawlPayload{})
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "enqueue a full crawl")
	cmd.Flags().BoolVar(&incremental, "incremental", false, "enqueue an incremental crawl")
	return cmd
}

// scoreCmd enqueues a score-batch job and exits.
func scoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Enqueue a score-batch pass over the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()
			return app.Queue.Enqueue(cmd.Context(), models.JobScoreBatch, jobqueue.ScoreBatchPayload{})
		},
	}
}

// migrateCmd applies every pending schema migration and exits.
func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := sql.Open("pgx", cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = db.Close() }()
			return migrations.Up(db)
		},
	}
}

// app holds every long-lived collaborator serve/crawl/score need.
type app struct {
	Config   *config.Config
	Queue    *jobqueue.Queue
	Catalog  *catalog.Store
	Pipeline *pipeline.Pipeline
}

func (a *app) Close() {
	_ = a.Catalog.Close()
	_ = a.Queue.Close()
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	var c cache.Cache
	if cfg.CacheEnabled() {
		c, err = cache.New(cache.DefaultConfig(cfg.RedisURL))
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
	}

	var index searchindex.Index
	if cfg.SearchIndexEnabled() {
		index = searchindex.New(searchindex.Config{URL: cfg.MeiliURL, APIKey: cfg.MeiliMasterKey})
	}

	store, err := catalog.New(catalog.Config{DSN: cfg.DatabaseURL, Cache: c, Index: index})
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	queue, err := jobqueue.New(jobqueue.Config{DSN: cfg.DatabaseURL})
	if err != nil {
		return nil, fmt.Errorf("open job queue: %w", err)
	}

	pool := tokenpool.New(cfg.GitHub.Tokens, cfg.GitHub.TokenNames)
	client := ghclient.New(pool, cfg.GitHub.Tokens)

	var notify notifier.Sender = notifier.NoOp{}
	if cfg.NotifierEnabled() {
		notify = notifier.New(notifier.Config{APIKey: cfg.ResendAPIKey, FromAddress: cfg.ResendFromAddress})
	}

	return &app{
		Config:   cfg,
		Queue:    queue,
		Catalog:  store,
		Pipeline: pipeline.New(queue, store, client, notify, cfg.MinStars),
	}, nil
}
