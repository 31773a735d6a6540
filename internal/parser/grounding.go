package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"pagelens/internal/domain"
)

// Grounding tag pair emitted by DeepSeek-style OCR models:
//
//	<|ref|>table<|/ref|><|det|>[[59, 53, 582, 105]]<|/det|>
//	content until the next unit...
const (
	refOpen  = "<|ref|>"
	refClose = "<|/ref|>"
	detOpen  = "<|det|>"
	detClose = "<|/det|>"
)

// boxRe matches one [x1,y1,x2,y2] group inside a det list. Coordinates may
// be integers or floats.
var boxRe = regexp.MustCompile(`\[\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*\]`)

// GroundingParser decodes tag-delimited responses carrying bounding boxes.
// When a det list holds several boxes only the first is kept as the
// element's bbox; the remaining boxes are dropped.
type GroundingParser struct{}

// NewGroundingParser creates a GroundingParser.
func NewGroundingParser() *GroundingParser {
	return &GroundingParser{}
}

func (p *GroundingParser) Name() string { return "grounding" }

// Detect checks for the full ref/det sentinel pair.
func (p *GroundingParser) Detect(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	return strings.Contains(raw, refOpen) && strings.Contains(raw, refClose) &&
		strings.Contains(raw, detOpen) && strings.Contains(raw, detClose)
}

// Parse scans left to right for repeating ref/det units. Malformed units
// are skipped with a warning and scanning resumes at the next ref marker.
// If detection succeeded but no unit parses, the whole text degrades to a
// single plaintext element rather than an empty failed result.
func (p *GroundingParser) Parse(raw string) *domain.ParseResult {
	result := &domain.ParseResult{
		RawText: raw,
		Format:  p.Name(),
		Success: true,
	}

	id := 1
	pos := 0
	for {
		start := strings.Index(raw[pos:], refOpen)
		if start < 0 {
			break
		}
		start += pos

		elem, next, warn := p.parseUnit(raw, start, id)
		if warn != "" {
			result.Warnings = append(result.Warnings, warn)
		}
		if elem != nil {
			result.Elements = append(result.Elements, *elem)
			id++
		}
		if next <= start {
			next = start + len(refOpen)
		}
		pos = next
	}

	if len(result.Elements) == 0 {
		// Sentinel matched but nothing decoded; degrade to plaintext so a
		// non-empty response always yields at least one element.
		fallback := NewPlaintextParser().Parse(raw)
		fallback.Warnings = append(result.Warnings, fallback.Warnings...)
		return fallback
	}
	return result
}

// parseUnit decodes one unit starting at the refOpen found at start.
// It returns the element (nil when malformed), the offset where scanning
// should resume, and a warning message for skipped units.
func (p *GroundingParser) parseUnit(raw string, start, id int) (*domain.Element, int, string) {
	typeStart := start + len(refOpen)

	refEnd := strings.Index(raw[typeStart:], refClose)
	if refEnd < 0 {
		return nil, len(raw), fmt.Sprintf("unterminated %s marker at offset %d", refOpen, start)
	}
	refEnd += typeStart
	elementType := strings.TrimSpace(raw[typeStart:refEnd])

	// The location marker must follow the type marker, separated by at most
	// whitespace.
	afterRef := refEnd + len(refClose)
	detStart := strings.Index(raw[afterRef:], detOpen)
	if detStart < 0 || strings.TrimSpace(raw[afterRef:afterRef+detStart]) != "" {
		return nil, afterRef, fmt.Sprintf("missing %s after type %q at offset %d", detOpen, elementType, start)
	}
	detStart += afterRef

	coordStart := detStart + len(detOpen)
	detEnd := strings.Index(raw[coordStart:], detClose)
	if detEnd < 0 {
		return nil, len(raw), fmt.Sprintf("unterminated %s marker for type %q at offset %d", detOpen, elementType, detStart)
	}
	detEnd += coordStart
	coords := raw[coordStart:detEnd]

	if strings.Count(coords, "[") != strings.Count(coords, "]") {
		return nil, detEnd + len(detClose), fmt.Sprintf("unbalanced brackets in location list for type %q", elementType)
	}

	bbox, ok := firstBox(coords)
	if !ok {
		return nil, detEnd + len(detClose), fmt.Sprintf("no well-formed box in location list for type %q", elementType)
	}

	contentStart := detEnd + len(detClose)
	contentEnd := strings.Index(raw[contentStart:], refOpen)
	if contentEnd < 0 {
		contentEnd = len(raw)
	} else {
		contentEnd += contentStart
	}
	content := strings.TrimSpace(raw[contentStart:contentEnd])

	elem, err := domain.NewElement(id, elementType, bbox, content, nil)
	if err != nil {
		return nil, contentEnd, fmt.Sprintf("invalid element for type %q: %v", elementType, err)
	}
	return &elem, contentEnd, ""
}

// firstBox returns the first well-ordered box in a det coordinate list.
func firstBox(coords string) (domain.BBox, bool) {
	for _, m := range boxRe.FindAllStringSubmatch(coords, -1) {
		x1, err1 := strconv.ParseFloat(m[1], 64)
		y1, err2 := strconv.ParseFloat(m[2], 64)
		x2, err3 := strconv.ParseFloat(m[3], 64)
		y2, err4 := strconv.ParseFloat(m[4], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		box := domain.BBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
		if box.Valid() {
			return box, true
		}
	}
	return domain.BBox{}, false
}
