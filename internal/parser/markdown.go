package parser

import (
	"fmt"
	"strings"

	"pagelens/internal/domain"
)

// MarkdownParser decodes structured prose responses produced when grounding
// is disabled: headings, tables, lists and code fences become typed,
// unlocated elements. Plain prose with no markdown structure at all is left
// for the plaintext fallback.
type MarkdownParser struct{}

// NewMarkdownParser creates a MarkdownParser.
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{}
}

func (p *MarkdownParser) Name() string { return "markdown" }

// Detect looks for at least one structural markdown line. Responses that
// carry grounding tags are excluded so the grounding parser is never
// shadowed.
func (p *MarkdownParser) Detect(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	if strings.Contains(raw, refOpen) || strings.Contains(raw, detOpen) {
		return false
	}
	for _, line := range strings.Split(raw, "\n") {
		if isStructural(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

func isStructural(line string) bool {
	switch {
	case line == "":
		return false
	case strings.HasPrefix(line, "#"):
		return true
	case strings.HasPrefix(line, "|"):
		return true
	case strings.HasPrefix(line, "```"):
		return true
	case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "), strings.HasPrefix(line, "+ "):
		return true
	case strings.Contains(strings.ToLower(line), "<table>"):
		return true
	}
	return false
}

// Parse walks the text line by line, grouping consecutive lines of the same
// structure into one element each.
func (p *MarkdownParser) Parse(raw string) *domain.ParseResult {
	result := &domain.ParseResult{
		RawText: raw,
		Format:  p.Name(),
		Success: true,
	}

	lines := strings.Split(raw, "\n")
	id := 1
	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}

		var (
			elem     domain.Element
			consumed int
		)
		switch {
		case strings.HasPrefix(line, "#"):
			elem, consumed = parseHeading(line, id)
		case strings.HasPrefix(line, "|"):
			elem, consumed = parseBlock(lines, i, id, "table", func(l string) bool {
				return strings.HasPrefix(l, "|")
			})
		case strings.HasPrefix(line, "```"):
			elem, consumed = parseCodeFence(lines, i, id)
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "), strings.HasPrefix(line, "+ "):
			elem, consumed = parseBlock(lines, i, id, "list", func(l string) bool {
				return strings.HasPrefix(l, "- ") || strings.HasPrefix(l, "* ") || strings.HasPrefix(l, "+ ")
			})
		case strings.Contains(strings.ToLower(line), "<table>"):
			elem, consumed = parseHTMLTable(lines, i, id)
		default:
			elem, consumed = parseParagraph(lines, i, id)
		}

		result.Elements = append(result.Elements, elem)
		id++
		i += consumed
	}

	if len(result.Elements) == 0 {
		return NewPlaintextParser().Parse(raw)
	}
	return result
}

func parseHeading(line string, id int) (domain.Element, int) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	content := strings.TrimSpace(line[level:])
	elem, _ := domain.NewTextElement(id, fmt.Sprintf("heading_%d", level), content)
	return elem, 1
}

func parseBlock(lines []string, start, id int, elementType string, member func(string) bool) (domain.Element, int) {
	var block []string
	i := start
	for i < len(lines) && member(strings.TrimSpace(lines[i])) {
		block = append(block, strings.TrimSpace(lines[i]))
		i++
	}
	elem, _ := domain.NewTextElement(id, elementType, strings.Join(block, "\n"))
	return elem, i - start
}

func parseCodeFence(lines []string, start, id int) (domain.Element, int) {
	var block []string
	i := start + 1
	for i < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
		block = append(block, lines[i])
		i++
	}
	if i < len(lines) {
		i++ // closing fence
	}
	elem, _ := domain.NewTextElement(id, "code", strings.Join(block, "\n"))
	return elem, i - start
}

func parseHTMLTable(lines []string, start, id int) (domain.Element, int) {
	var block []string
	i := start
	for i < len(lines) {
		block = append(block, strings.TrimSpace(lines[i]))
		if strings.Contains(strings.ToLower(lines[i]), "</table>") {
			i++
			break
		}
		i++
	}
	elem, _ := domain.NewTextElement(id, "table", strings.Join(block, "\n"))
	return elem, i - start
}

func parseParagraph(lines []string, start, id int) (domain.Element, int) {
	var block []string
	i := start
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" || isStructural(line) {
			break
		}
		block = append(block, line)
		i++
	}
	elem, _ := domain.NewTextElement(id, "text", strings.Join(block, "\n"))
	return elem, i - start
}
