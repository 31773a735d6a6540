// Package parser turns raw vision-model responses into ordered, typed,
// optionally located elements. Each output convention the models emit is
// handled by one FormatParser; the Registry picks the right one by trying
// Detect in a fixed priority order.
package parser

import "pagelens/internal/domain"

// FormatParser decodes one textual output convention.
//
// Detect must be a cheap, side-effect-free sentinel check; it is called on
// every response during registry selection. Parse must never panic on
// malformed input: structurally broken segments are skipped and reported
// through ParseResult.Warnings.
type FormatParser interface {
	Name() string
	Detect(raw string) bool
	Parse(raw string) *domain.ParseResult
}
