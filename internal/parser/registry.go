package parser

import (
	"strings"

	"pagelens/internal/domain"
)

// Registry selects the right parser for a raw response by trying Detect in
// a fixed priority order: more specific formats first, the plaintext
// fallback last. Registries are stateless after construction and safe for
// concurrent use.
type Registry struct {
	parsers []FormatParser
}

// NewRegistry builds the default registry: grounding, markdown, plaintext.
func NewRegistry() *Registry {
	return &Registry{
		parsers: []FormatParser{
			NewGroundingParser(),
			NewMarkdownParser(),
			NewPlaintextParser(),
		},
	}
}

// Names lists the registered parsers in priority order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.parsers))
	for _, p := range r.parsers {
		names = append(names, p.Name())
	}
	return names
}

// ParserFor returns the first parser whose Detect answers true. For
// non-empty input it never returns nil because the plaintext fallback
// always detects.
func (r *Registry) ParserFor(raw string) FormatParser {
	for _, p := range r.parsers {
		if p.Detect(raw) {
			return p
		}
	}
	return nil
}

// Parse decodes a raw response with the auto-detected parser. Empty input
// is the only hard failure: zero elements, Success=false.
func (r *Registry) Parse(raw string) *domain.ParseResult {
	if strings.TrimSpace(raw) == "" {
		return &domain.ParseResult{
			RawText:      raw,
			Format:       "none",
			Success:      false,
			ErrorMessage: domain.ErrEmptyOutput.Error(),
		}
	}

	p := r.ParserFor(raw)
	if p == nil {
		return NewPlaintextParser().Parse(raw)
	}
	return p.Parse(raw)
}
