package port

import "context"

// PageExpander turns a document reference into an ordered list of per-page
// source images: identity for a single image, one image per page for a
// multi-page source.
type PageExpander interface {
	Expand(ctx context.Context, inputPath, workDir string) ([]string, error)
}
