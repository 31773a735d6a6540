package port

import "context"

// Preprocessor produces the canonical image for one page: a deterministic
// resize to the fixed target resolution. All bbox coordinates downstream
// are expressed in the canonical image's pixel space, so the returned path
// is the one that must be handed to extraction and any visualization.
type Preprocessor interface {
	Prepare(ctx context.Context, imagePath, destDir string) (string, error)
}
