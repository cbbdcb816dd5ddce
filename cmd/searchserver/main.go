package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/dedup"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/tracing"
)

func main() {
	configPath := flag.String("config", "configs/example.yaml", "path to config file")
	printMetrics := flag.Bool("print-metrics", false, "write collected metrics to stdout on exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(apperrors.ExitCode(err))
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metricsOut io.Writer
	if *printMetrics {
		metricsOut = os.Stdout
	}
	if err := run(ctx, cfg, metricsOut); err != nil {
		slog.Error("search server run failed", "error", err)
		stop()
		os.Exit(apperrors.ExitCode(err))
	}
}

// app is the wired search server.
type app struct {
	engine   *indexer.Engine
	exec     *executor.Executor
	queue    *analytics.RequestQueue
	metrics  *metrics.Metrics
	detector *dedup.Detector
	logger   *slog.Logger
}

func newApp(cfg *config.Config) (*app, error) {
	normalize, err := tokenizer.NormalizerByName(cfg.Search.Stemmer)
	if err != nil {
		return nil, err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	engine, err := indexer.NewEngine(cfg.Search.StopWords,
		indexer.WithMetrics(m),
		indexer.WithNormalizer(normalize),
	)
	if err != nil {
		return nil, fmt.Errorf("building index engine: %w", err)
	}

	opts := []executor.Option{
		executor.WithMetrics(m),
		executor.WithMaxResults(cfg.Search.MaxResults),
		executor.WithEpsilon(cfg.Search.RelevanceEpsilon),
	}
	if cfg.Search.CacheSize > 0 {
		opts = append(opts, executor.WithCache(cache.New(cfg.Search.CacheSize, m)))
	}
	exec := executor.New(engine, opts...)

	return &app{
		engine:   engine,
		exec:     exec,
		queue:    analytics.NewRequestQueue(exec, cfg.Search.RequestWindow),
		metrics:  m,
		detector: dedup.New(m),
		logger:   logger.WithComponent("searchserver"),
	}, nil
}

// run seeds the configured corpus, removes duplicates and answers the
// configured queries. Metrics are written to metricsOut when it is non-nil.
func run(ctx context.Context, cfg *config.Config, metricsOut io.Writer) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	ctx, root := tracing.StartSpan(ctx, "searchserver", uuid.New().String())
	defer func() {
		root.End()
		root.Log(a.logger)
	}()

	if err := tracing.Run(ctx, "seed", func(ctx context.Context) error {
		return a.seed(ctx, cfg.Documents)
	}); err != nil {
		return err
	}

	if err := tracing.Run(ctx, "dedup", a.removeDuplicates); err != nil {
		return err
	}

	queryErr := tracing.Run(ctx, "queries", func(ctx context.Context) error {
		return a.runQueries(ctx, cfg.Queries)
	})

	a.logger.Info("request window",
		"requests", a.queue.Len(),
		"no_result_requests", a.queue.NoResultRequests(),
	)

	if metricsOut != nil && a.metrics != nil {
		if err := a.metrics.WriteText(metricsOut); err != nil {
			return errors.Join(queryErr, fmt.Errorf("writing metrics: %w", err))
		}
	}
	return queryErr
}

// seed adds every configured document. A document that cannot be added is
// logged and skipped.
func (a *app) seed(ctx context.Context, docs []config.DocumentConfig) error {
	var failed int
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		status, err := parseStatus(d.Status)
		if err == nil {
			err = a.engine.AddDocument(d.ID, d.Text, status, d.Ratings)
		}
		if err != nil {
			failed++
			a.logger.Warn("document skipped", "doc_id", d.ID, "error", err)
		}
	}
	tracing.SpanFromContext(ctx).SetAttr("failed", failed)
	a.logger.Info("corpus seeded", "documents", a.engine.DocumentCount(), "failed", failed)
	return nil
}

// removeDuplicates only fails when ctx is already done.
func (a *app) removeDuplicates(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	removed := a.detector.RemoveDuplicates(a.engine)
	tracing.SpanFromContext(ctx).SetAttr("removed", len(removed))
	a.logger.Info("duplicates removed", "count", len(removed), "remaining", a.engine.DocumentCount())
	return nil
}

func (a *app) runQueries(ctx context.Context, queries []config.QueryConfig) error {
	var errs []error
	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return err
		}
		status, err := parseStatus(q.Status)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		docs, err := a.queue.AddFindRequestByStatus(q.Query, status)
		if err != nil {
			a.logger.Warn("query rejected", "query", q.Query, "error", err)
			errs = append(errs, err)
			continue
		}
		a.logger.Info("query answered", "query", q.Query, "status", status.String(), "results", len(docs))
		for _, doc := range docs {
			a.logResult(q.Query, doc)
		}
	}
	return errors.Join(errs...)
}

func (a *app) logResult(query string, doc ranker.ScoredDoc) {
	attrs := []any{
		"query", query,
		"doc_id", doc.ID,
		"relevance", doc.Relevance,
		"rating", doc.Rating,
	}
	if match, err := a.exec.MatchDocument(query, doc.ID); err == nil {
		attrs = append(attrs, "matched_words", match.Words)
	}
	a.logger.Info("search result", attrs...)
}

// parseStatus treats an empty name as ACTUAL.
func parseStatus(name string) (index.Status, error) {
	if name == "" {
		return index.StatusActual, nil
	}
	return index.ParseStatus(name)
}
