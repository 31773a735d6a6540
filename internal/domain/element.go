package domain

import (
	"encoding/json"
	"fmt"
)

// BBox is an axis-aligned bounding box in the pixel space of the canonical
// (resized) image that was sent for extraction. Coordinates are never
// rescaled to the original source resolution here.
type BBox struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// Valid reports whether the box is well ordered.
func (b BBox) Valid() bool {
	return b.X1 <= b.X2 && b.Y1 <= b.Y2
}

// MarshalJSON renders the box as [x1, y1, x2, y2].
func (b BBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.X1, b.Y1, b.X2, b.Y2})
}

// UnmarshalJSON accepts the [x1, y1, x2, y2] array form.
func (b *BBox) UnmarshalJSON(data []byte) error {
	var coords [4]float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("bbox must be a 4-element array: %w", err)
	}
	b.X1, b.Y1, b.X2, b.Y2 = coords[0], coords[1], coords[2], coords[3]
	return nil
}

// Element is one typed, optionally located unit of document content.
// Type is an open set: parsers may emit any string and consumers must not
// assume a closed enumeration. IDs start at 1 and follow appearance order
// within a single ParseResult.
type Element struct {
	ID         int      `json:"id"`
	Type       string   `json:"type"`
	BBox       *BBox    `json:"bbox"`
	Content    string   `json:"content"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// NewElement creates a located element, validating the box ordering and the
// confidence range.
func NewElement(id int, elementType string, bbox BBox, content string, confidence *float64) (Element, error) {
	if id < 1 {
		return Element{}, fmt.Errorf("element id must be positive, got %d: %w", id, ErrInvalidElement)
	}
	if !bbox.Valid() {
		return Element{}, fmt.Errorf("bbox [%v,%v,%v,%v] is inverted: %w",
			bbox.X1, bbox.Y1, bbox.X2, bbox.Y2, ErrInvalidBBox)
	}
	if confidence != nil && (*confidence < 0 || *confidence > 1) {
		return Element{}, fmt.Errorf("confidence %v outside [0,1]: %w", *confidence, ErrInvalidConfidence)
	}
	return Element{
		ID:         id,
		Type:       elementType,
		BBox:       &bbox,
		Content:    content,
		Confidence: confidence,
	}, nil
}

// NewTextElement creates an unlocated element; the bbox is forced absent.
func NewTextElement(id int, elementType, content string) (Element, error) {
	if id < 1 {
		return Element{}, fmt.Errorf("element id must be positive, got %d: %w", id, ErrInvalidElement)
	}
	return Element{ID: id, Type: elementType, Content: content}, nil
}

// Located reports whether the element carries a bounding box.
func (e Element) Located() bool {
	return e.BBox != nil
}
