package domain

// ParseResult is the outcome of parsing one raw model response.
//
// Elements preserve appearance order, which approximates reading order.
// RawText keeps the untouched input for audit. Warnings records malformed
// segments that were skipped without aborting the parse; a warning never
// implies failure. Success is false only when no elements could be produced
// at all, which for non-empty input never happens because the plaintext
// fallback always yields one element.
type ParseResult struct {
	Elements     []Element `json:"elements"`
	RawText      string    `json:"-"`
	Format       string    `json:"format"`
	Success      bool      `json:"success"`
	Warnings     []string  `json:"warnings"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// ElementCount returns the number of parsed elements.
func (r *ParseResult) ElementCount() int {
	return len(r.Elements)
}

// ElementsByType filters elements by their type tag.
func (r *ParseResult) ElementsByType(elementType string) []Element {
	var out []Element
	for _, e := range r.Elements {
		if e.Type == elementType {
			out = append(out, e)
		}
	}
	return out
}
