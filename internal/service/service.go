// Package service holds the domain services. They orchestrate the
// repositories, enforce the rules that span entities (delete guards,
// completion cascades, single-level subtask nesting), and hand DTOs to
// callers.
package service

import (
	"log/slog"

	"github.com/mesh-intelligence/nextlevel/pkg/types"
)

// MaxPageSize bounds the Take of every listing served through a service.
const MaxPageSize = 100

// clampPage caps page.Take at MaxPageSize.
func clampPage(page types.Page) types.Page {
	if page.Take > MaxPageSize {
		page.Take = MaxPageSize
	}
	return page
}

func orDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}

// dtoPtr converts an optional entity with fn.
func dtoPtr[T, D any](v *T, fn func(T) D) *D {
	if v == nil {
		return nil
	}
	d := fn(*v)
	return &d
}
