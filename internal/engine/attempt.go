package engine

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/pricewatch/internal/retry"
	"github.com/law-makers/pricewatch/pkg/models"
)

// Attempt runs strategy against target with bounded retries. Every outcome is
// captured in the returned record. With a dumper set, the page is saved after
// every attempt except those ended by a fatal error. The error is non-nil only when the session is
// gone or ctx was cancelled, in which case the batch cannot continue.
func Attempt(ctx context.Context, strategy Strategy, page Page, target models.Target, cfg retry.Config, dumper Dumper) (models.ScrapeRecord, error) {
	cfg.Permanent = IsFatal

	var product *models.Product
	attempts, err := retry.WithRetry(ctx, cfg, func(attempt int) error {
		log.Debug().
			Str("url", target.URL).
			Int("attempt", attempt).
			Msg("Extracting product")

		p, err := strategy.Extract(ctx, page, target.URL)
		if err != nil {
			log.Warn().
				Str("url", target.URL).
				Int("attempt", attempt).
				Err(err).
				Msg("Attempt failed")
			dump(ctx, page, target, dumper, err)
			return err
		}
		product = p
		dump(ctx, page, target, dumper, nil)
		return nil
	})

	if err == nil {
		return models.Success(target, product, attempts), nil
	}

	last := err
	var ex *retry.ExhaustedError
	if errors.As(err, &ex) {
		last = ex.Last
	}
	record := models.Failure(target, last.Error(), attempts)

	if IsFatal(last) || ctx.Err() != nil {
		if ctx.Err() != nil {
			return record, ctx.Err()
		}
		return record, last
	}
	return record, nil
}

func dump(ctx context.Context, page Page, target models.Target, dumper Dumper, cause error) {
	if dumper == nil || IsFatal(cause) {
		return
	}
	html, err := page.HTML(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("Could not read page for debug dump")
		return
	}
	path, err := dumper.Dump(target.Store, target.URL, html)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to write debug dump")
		return
	}
	log.Info().Str("path", path).Msg("Saved debug dump")
}
