package parser

import (
	"strings"

	"pagelens/internal/domain"
)

// PlaintextParser is the terminal fallback: the whole response, trimmed,
// becomes the content of a single unlocated element of type "text". Its
// Detect always answers true, so it must stay last in registry order.
type PlaintextParser struct{}

// NewPlaintextParser creates a PlaintextParser.
func NewPlaintextParser() *PlaintextParser {
	return &PlaintextParser{}
}

func (p *PlaintextParser) Name() string { return "plaintext" }

func (p *PlaintextParser) Detect(raw string) bool { return true }

func (p *PlaintextParser) Parse(raw string) *domain.ParseResult {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return &domain.ParseResult{
			RawText:      raw,
			Format:       p.Name(),
			Success:      false,
			ErrorMessage: domain.ErrEmptyOutput.Error(),
		}
	}

	elem, _ := domain.NewTextElement(1, "text", trimmed)
	return &domain.ParseResult{
		Elements: []domain.Element{elem},
		RawText:  raw,
		Format:   p.Name(),
		Success:  true,
	}
}
