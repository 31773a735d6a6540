package pipeline

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"pagelens/internal/port"
)

// presignExpirySecs bounds how long mirrored artifact links stay valid.
const presignExpirySecs int64 = 3600

// Mirror copies combined artifacts to object storage after a run. Mirroring
// is best-effort: failures are logged and never fail the document.
type Mirror struct {
	storage port.ObjectStorage
	bucket  string
	prefix  string
}

// NewMirror creates an artifact mirror. Returns nil when bucket is empty,
// which disables mirroring.
func NewMirror(storage port.ObjectStorage, bucket, prefix string) *Mirror {
	if storage == nil || bucket == "" {
		return nil
	}
	return &Mirror{storage: storage, bucket: bucket, prefix: prefix}
}

// MirrorArtifacts uploads the given files, keyed by their path relative to
// the document directory, and returns a presigned download link per
// mirrored artifact. An upload failure rolls the already-uploaded keys
// back so the bucket never holds a partial document. Safe to call on a
// nil receiver.
func (m *Mirror) MirrorArtifacts(ctx context.Context, docDir string, paths []string) []string {
	if m == nil {
		return nil
	}
	docName := filepath.Base(docDir)

	var keys []string
	for _, path := range paths {
		rel, err := filepath.Rel(docDir, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		key := strings.TrimPrefix(m.prefix+"/"+docName+"/"+filepath.ToSlash(rel), "/")

		f, err := os.Open(path)
		if err != nil {
			log.Printf("pipeline.MirrorArtifacts: open %s: %v", path, err)
			continue
		}
		_, err = m.storage.Upload(ctx, port.UploadInput{
			Bucket:      m.bucket,
			Key:         key,
			Body:        f,
			ContentType: contentTypeFor(path),
		})
		f.Close()
		if err != nil {
			log.Printf("pipeline.MirrorArtifacts: upload %s: %v", key, err)
			m.rollback(ctx, keys)
			return nil
		}
		keys = append(keys, key)
	}

	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		url, err := m.storage.GetPresignedURL(ctx, m.bucket, key, presignExpirySecs)
		if err != nil {
			log.Printf("pipeline.MirrorArtifacts: presign %s: %v", key, err)
			continue
		}
		urls = append(urls, url)
	}
	log.Printf("pipeline.MirrorArtifacts: mirrored %d artifacts to s3://%s/%s",
		len(keys), m.bucket, strings.TrimPrefix(m.prefix+"/"+docName, "/"))
	return urls
}

func (m *Mirror) rollback(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := m.storage.Delete(ctx, m.bucket, key); err != nil {
			log.Printf("pipeline.MirrorArtifacts: rollback delete %s: %v", key, err)
		}
	}
}

func contentTypeFor(path string) string {
	switch filepath.Ext(path) {
	case ".json":
		return "application/json"
	case ".md":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
