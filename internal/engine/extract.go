package engine

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/pricewatch/pkg/models"
)

// FieldSpec describes how to read one product field
type FieldSpec struct {
	Name     string
	Selector string
	Timeout  time.Duration
	// Fallback is the sentinel stored when the field is absent
	Fallback string
	// Parse normalizes the raw text; ok=false marks the field absent
	Parse func(raw string) (value string, ok bool)
}

// ExtractField reads one field. A missing or unparseable field is an
// absent FieldResult, never an error.
func ExtractField(ctx context.Context, page Page, field FieldSpec) models.FieldResult {
	raw, err := page.Text(ctx, field.Selector, field.Timeout)
	if err != nil {
		log.Debug().
			Str("field", field.Name).
			Str("selector", field.Selector).
			Err(err).
			Msg("Field not extracted")
		return models.Absent(err.Error())
	}

	value := strings.TrimSpace(raw)
	if field.Parse != nil {
		parsed, ok := field.Parse(value)
		if !ok {
			return models.Absent("unparseable: " + value)
		}
		value = strings.TrimSpace(parsed)
	}
	if value == "" {
		return models.Absent("empty")
	}
	return models.Found(value)
}

// ExtractValue reads one field and substitutes its fallback when absent
func ExtractValue(ctx context.Context, page Page, field FieldSpec) string {
	return ExtractField(ctx, page, field).ValueOr(field.Fallback)
}

// ExtractRequired reads a field that has no fallback. Absence fails the attempt.
func ExtractRequired(ctx context.Context, page Page, field FieldSpec) (string, error) {
	res := ExtractField(ctx, page, field)
	if !res.Present {
		return "", NewEngineError(ErrCodeNotFound, "required field "+field.Name+" missing: "+res.Reason, ErrFieldNotFound).
			WithRetry().
			WithDetail("selector", field.Selector)
	}
	return res.Value, nil
}
