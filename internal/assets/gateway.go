// Package assets stores and deletes the binary objects (images, videos,
// PDFs) referenced by entity records. An asset lives in one bucket and is
// addressed by a URL; the gateway never tracks which entity references it.
package assets

import (
	"context"
	"errors"
)

// ErrUpload indicates the object store rejected or failed a write. The
// caller must treat the asset as not persisted.
var ErrUpload = errors.New("assets: upload failed")

// File is one in-memory upload taken from a multipart request.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Bucket folders, one per asset field family.
const (
	FolderDeveloperLogo    = "DeveloperLogo"
	FolderProjectImages    = "ProjectImages"
	FolderProjectVideos    = "ProjectVideos"
	FolderProjectBrochures = "ProjectBrochures"
	FolderSeriesLayouts    = "SeriesLayouts"
	FolderSeriesImages     = "SeriesImages"
	FolderSeriesVideos     = "SeriesVideos"
	FolderAmenityLogos     = "AmenityLogos"
)

// Gateway is the object-store surface used by the entity lifecycle.
type Gateway interface {
	// Upload stores one file publicly readable and returns its URL.
	Upload(ctx context.Context, file File, folder, entityID string) (string, error)
	// UploadAll uploads every file concurrently. Any single failure fails
	// the whole call. Objects already written are not rolled back here;
	// their URLs are returned alongside the error so the orchestrator can
	// clean them up.
	UploadAll(ctx context.Context, files []File, folder, entityID string) ([]string, error)
	// Delete removes the object behind the URL. Missing objects are a no-op.
	// Accepts both public HTTPS and gs:// URL forms.
	Delete(ctx context.Context, fileURL string) error
	// DeleteAll is best-effort: every URL is attempted and individual
	// failures are joined into the returned error.
	DeleteAll(ctx context.Context, fileURLs []string) error
	// Exists reports whether the object behind the URL is retrievable.
	Exists(ctx context.Context, fileURL string) (bool, error)
}
