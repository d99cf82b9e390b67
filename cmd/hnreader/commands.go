package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"hn_reader/internal/config"
	"hn_reader/internal/domain"
	"hn_reader/internal/feed"
	"hn_reader/internal/metrics"
	"hn_reader/internal/publisher"
	"hn_reader/internal/render"
	"hn_reader/internal/scheduler"
	"hn_reader/internal/server"
	"hn_reader/internal/service"
	"hn_reader/internal/source/hn"
	"hn_reader/internal/storage/postgres"
)

const clearScreen = "\033[H\033[2J"

func newFeed(cfg *config.Config, logger *slog.Logger, opts ...feed.Option) *feed.Feed {
	src := hn.New(hn.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, logger)

	opts = append([]feed.Option{feed.WithObserver(metrics.FeedObserver{})}, opts...)

	return feed.New(src, feed.Config{
		PageSize:      cfg.API.PageSize,
		MaxConcurrent: cfg.API.MaxConcurrent,
		Retry: feed.RetryPolicy{
			MaxAttempts:    cfg.API.Retry.MaxAttempts,
			InitialBackoff: cfg.API.Retry.InitialBackoff,
			MaxBackoff:     cfg.API.Retry.MaxBackoff,
		},
	}, logger, opts...)
}

func displaySettings(cfg *config.Config, opts *options) render.Settings {
	return render.Settings{
		DarkMode: cfg.Display.DarkMode,
		ShowText: cfg.Display.ShowText,
		Width:    cfg.Display.Width,
		NoColor:  opts.noColor,
	}
}

// fetchOnce refreshes a fresh feed and waits until it settles.
func fetchOnce(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*feed.Feed, error) {
	f := newFeed(cfg, logger)
	svc := service.NewRefreshService(f, nil, nil, nil, nil, logger, cfg.Refresh)

	_, err := svc.Refresh(ctx)
	if err != nil && !errors.Is(err, service.ErrListFailed) {
		f.Close()
		return nil, err
	}
	return f, err
}

func runShow(cmd *cobra.Command, args []string, opts *options) error {
	cfg, err := loadConfig(cmd, args, opts)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.LogLevel, os.Stderr)

	f, refreshErr := fetchOnce(cmd.Context(), cfg, logger)
	if f == nil {
		return refreshErr
	}
	defer f.Close()

	term := render.NewTerminal(cmd.OutOrStdout())
	if err := term.Render(f.Snapshot(), displaySettings(cfg, opts), time.Now()); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return refreshErr
}

func runExport(cmd *cobra.Command, args []string, opts *options) error {
	cfg, err := loadConfig(cmd, args, opts)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.LogLevel, os.Stderr)

	f, err := fetchOnce(cmd.Context(), cfg, logger)
	if f != nil {
		defer f.Close()
	}
	if err != nil {
		return err
	}

	doc, err := render.Atom(f.Snapshot(), time.Now())
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		file, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	if _, err := io.WriteString(out, doc); err != nil {
		return fmt.Errorf("write atom feed: %w", err)
	}
	logger.Info("atom feed written", "category", cfg.Refresh.Category, "bytes", len(doc))
	return nil
}

// runWatch is the render loop: it polls the feed every frame and repaints
// whenever a request completed. Nothing in it waits on the network.
func runWatch(cmd *cobra.Command, args []string, opts *options) error {
	cfg, err := loadConfig(cmd, args, opts)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.LogLevel, os.Stderr)
	ctx := cmd.Context()

	redraw := make(chan struct{}, 1)
	requestRedraw := func() {
		select {
		case redraw <- struct{}{}:
		default:
		}
	}

	f := newFeed(cfg, logger, feed.WithUpdateFunc(requestRedraw))
	defer f.Close()

	term := render.NewTerminal(cmd.OutOrStdout())
	settings := displaySettings(cfg, opts)
	paint := func() error {
		if _, err := io.WriteString(cmd.OutOrStdout(), clearScreen); err != nil {
			return err
		}
		return term.Render(f.Snapshot(), settings, time.Now())
	}

	refresh := func() {
		metrics.RefreshesTotal.WithLabelValues(cfg.Refresh.Category.Slug(), "watch").Inc()
		f.Refresh(cfg.Refresh.Category, cfg.Refresh.Offset)
		requestRedraw()
	}
	refresh()

	frame := time.NewTicker(cfg.Refresh.FrameInterval)
	defer frame.Stop()
	refreshTicker := time.NewTicker(cfg.Refresh.Interval)
	defer refreshTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-refreshTicker.C:
			refresh()
		case <-frame.C:
			if f.Poll() > 0 {
				requestRedraw()
			}
		case <-redraw:
			if err := paint(); err != nil {
				return fmt.Errorf("render: %w", err)
			}
		}
	}
}

func runServe(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, nil, opts)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.LogLevel, os.Stdout)
	ctx := cmd.Context()

	f := newFeed(cfg, logger)
	defer f.Close()

	var (
		states    service.RefreshStateStore
		logs      service.RefreshLogStore
		txManager service.TransactionManager
		history   server.RefreshHistory
		pub       service.Publisher
	)

	if cfg.Database.Enabled {
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			return err
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Error("failed to ping database", "error", err)
			return err
		}
		logger.Info("connected to database")

		logStore := postgres.NewRefreshLogStore(db)
		states = postgres.NewRefreshStateStore(db)
		logs = logStore
		history = logStore
		txManager = postgres.NewTransactionManager(db)
	}

	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			return err
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	refreshService := service.NewRefreshService(f, states, logs, txManager, pub, logger, cfg.Refresh)
	sched := scheduler.NewScheduler(
		scheduledRefresher{refreshService},
		cfg.Refresh.Interval,
		cfg.Refresh.SettleTimeout+cfg.API.Timeout,
		logger,
	)
	srv := server.New(f, history, server.Config{
		Addr:        cfg.Server.Addr,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, logger)

	logger.Info("starting hn reader",
		"category", cfg.Refresh.Category,
		"interval", cfg.Refresh.Interval,
		"page_size", cfg.API.PageSize,
		"database", cfg.Database.Enabled,
		"rabbitmq", cfg.RabbitMQ.Enabled,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Start(gctx) })
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return pollLoop(gctx, f, cfg.Refresh.FrameInterval) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}

// pollLoop keeps retries going for refreshes triggered through the API.
func pollLoop(ctx context.Context, f *feed.Feed, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			f.Poll()
		}
	}
}

type scheduledRefresher struct {
	*service.RefreshService
}

func (r scheduledRefresher) Refresh(ctx context.Context) (*domain.RefreshStats, error) {
	category, _ := r.Target()
	metrics.RefreshesTotal.WithLabelValues(category.Slug(), "schedule").Inc()
	return r.RefreshService.Refresh(ctx)
}
