package domain

import "errors"

var (
	ErrInvalidElement      = errors.New("invalid element")
	ErrInvalidBBox         = errors.New("bounding box coordinates out of order")
	ErrInvalidConfidence   = errors.New("confidence outside [0,1]")
	ErrEmptyOutput         = errors.New("empty model output")
	ErrFileNotFound        = errors.New("input file not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrNoPages             = errors.New("document expanded to zero pages")
)
