// internal/engine/batch/runner.go
package batch

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/pricewatch/internal/discount"
	"github.com/law-makers/pricewatch/internal/engine"
	"github.com/law-makers/pricewatch/internal/pacing"
	"github.com/law-makers/pricewatch/internal/reqctx"
	"github.com/law-makers/pricewatch/internal/retry"
	"github.com/law-makers/pricewatch/internal/store"
	"github.com/law-makers/pricewatch/pkg/models"
)

// Session is the browser session a run drives
type Session interface {
	Page() engine.Page
	Warmup(ctx context.Context, store models.Store) error
	PersistCookies(ctx context.Context) error
	Close() error
}

// Launcher opens a session. It is only called when there is work to do.
type Launcher func(ctx context.Context) (Session, error)

// Options controls a run
type Options struct {
	Headless bool
	// Stores lists the enabled stores; nil enables all of them
	Stores map[models.Store]bool
	Retry  retry.Config
	// Dumper saves failed pages when set
	Dumper engine.Dumper
}

// Runner drives one batch of product URLs through a single browser session
type Runner struct {
	launch   Launcher
	registry *engine.Registry
	pacing   *pacing.Policy
	opts     Options

	// OnProgress is called synchronously after each target
	OnProgress func(models.Progress)
}

// New creates a Runner
func New(launch Launcher, registry *engine.Registry, pace *pacing.Policy, opts Options) *Runner {
	if registry == nil {
		registry = engine.DefaultRegistry()
	}
	if pace == nil {
		pace = pacing.New(1)
	}
	if opts.Stores == nil {
		opts.Stores = store.All()
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = retry.DefaultConfig()
	}
	return &Runner{
		launch:   launch,
		registry: registry,
		pacing:   pace,
		opts:     opts,
	}
}

// Run scrapes urls in order and returns one record per enabled target.
// Failed targets are records, not errors. The error is non-nil only when the
// session could not be started or was lost, or ctx was cancelled; records
// gathered up to that point are still returned.
func (r *Runner) Run(ctx context.Context, urls []string) (records []models.ScrapeRecord, err error) {
	ctx = reqctx.WithRun(ctx)
	logger := log.With().Str("run_id", reqctx.FromContext(ctx).RunID).Logger()

	targets, rejected := store.Targets(urls, r.opts.Stores)
	for _, t := range rejected {
		logger.Warn().Str("url", t.URL).Str("store", string(t.Store)).Msg("Skipping URL: unknown or disabled store")
	}
	if len(targets) == 0 {
		logger.Info().Msg("No products to scrape")
		return nil, nil
	}

	session, err := r.launch(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to start browser session")
		return nil, reqctx.NewRunError(ctx, err)
	}
	defer func() {
		if perr := session.PersistCookies(ctx); perr != nil {
			logger.Warn().Err(perr).Msg("Failed to persist cookies")
		}
		if cerr := session.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("Failed to close browser session")
		}
	}()

	if !r.opts.Headless {
		for _, s := range warmupStores(targets) {
			if werr := session.Warmup(ctx, s); werr != nil {
				logger.Warn().Err(werr).Str("store", s.String()).Msg("Could not prime session, continuing anyway")
			}
		}
	}

	logger.Info().Int("products", len(targets)).Msg("Starting scrape")

	records = make([]models.ScrapeRecord, 0, len(targets))
	for i, target := range targets {
		if cerr := ctx.Err(); cerr != nil {
			return records, reqctx.NewRunError(ctx, cerr)
		}

		logger.Info().
			Int("index", i+1).
			Int("total", len(targets)).
			Str("url", target.URL).
			Msg("Scraping product")

		record, fatal := r.scrape(ctx, session, target)
		records = append(records, record)
		r.report(logger, i, len(targets), record)

		if fatal != nil {
			logger.Error().Err(fatal).Int("remaining", len(targets)-i-1).Msg("Aborting run")
			return records, reqctx.NewRunError(ctx, fatal)
		}

		if perr := r.pacing.After(ctx, i, targets); perr != nil {
			return records, reqctx.NewRunError(ctx, perr)
		}
	}

	return records, nil
}

func (r *Runner) scrape(ctx context.Context, session Session, target models.Target) (models.ScrapeRecord, error) {
	strategy, err := r.registry.For(target.Store)
	if err != nil {
		return models.Failure(target, err.Error(), 0), nil
	}
	return engine.Attempt(ctx, strategy, session.Page(), target, r.opts.Retry, r.opts.Dumper)
}

func (r *Runner) report(logger zerolog.Logger, i, total int, record models.ScrapeRecord) {
	if record.OK() {
		d := discount.ClassifyProduct(record.Product)
		logger.Info().
			Str("name", record.Product.Name).
			Str("price", record.Product.Price).
			Str("promotion", d.Label).
			Int("attempts", record.Attempts).
			Msg("Scraped")
	} else {
		logger.Warn().
			Str("url", record.URL).
			Str("error", record.Error).
			Int("attempts", record.Attempts).
			Msg("Failed")
	}

	if r.OnProgress != nil {
		r.OnProgress(models.Progress{Completed: i + 1, Total: total, Record: record})
	}
}

// Summarize aggregates records into the figures shown after a run
func Summarize(records []models.ScrapeRecord, total int, elapsed time.Duration) models.RunSummary {
	s := models.RunSummary{Total: total, Duration: elapsed}
	for _, rec := range records {
		if !rec.OK() {
			continue
		}
		s.Successful++
		if discount.OnSpecial(rec.Product) {
			s.OnSpecial++
		}
	}
	return s
}
