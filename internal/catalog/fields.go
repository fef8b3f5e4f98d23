package catalog

import (
	"fmt"
	"path"
	"strings"

	"acredge.in/internal/assets"
	"acredge.in/internal/docstore"
)

const mb = 1 << 20

var (
	imageExts = []string{".jpg", ".jpeg", ".png"}
	videoExts = []string{".mp4", ".mov"}
	pdfExts   = []string{".pdf"}
)

// FieldSpec describes one multipart asset field of an entity kind: where
// its objects land in the bucket and the per-field ceilings enforced before
// any upload happens.
type FieldSpec struct {
	Name     string // multipart field name, also the entity field it feeds
	Folder   string
	MaxCount int
	MaxBytes int64
	Exts     []string
	// DeleteKey is the form key carrying URLs to remove on update.
	// Single-valued fields have none: a new file replaces the old one.
	DeleteKey string
}

// fieldSpecs maps collection name to its upload fields. Towers carry no
// asset fields.
var fieldSpecs = map[string][]FieldSpec{
	docstore.Developers: {
		{Name: "logoUrl", Folder: assets.FolderDeveloperLogo, MaxCount: 1, MaxBytes: 2 * mb, Exts: imageExts},
	},
	docstore.Projects: {
		{Name: "images", Folder: assets.FolderProjectImages, MaxCount: 20, MaxBytes: 10 * mb, Exts: imageExts, DeleteKey: "deleteImages"},
		{Name: "videos", Folder: assets.FolderProjectVideos, MaxCount: 5, MaxBytes: 50 * mb, Exts: videoExts, DeleteKey: "deleteVideos"},
		{Name: "brochureUrl", Folder: assets.FolderProjectBrochures, MaxCount: 1, MaxBytes: 50 * mb, Exts: pdfExts},
	},
	docstore.Series: {
		{Name: "layoutPlanUrl", Folder: assets.FolderSeriesLayouts, MaxCount: 1, MaxBytes: 50 * mb, Exts: pdfExts},
		{Name: "insideImagesUrls", Folder: assets.FolderSeriesImages, MaxCount: 20, MaxBytes: 10 * mb, Exts: imageExts, DeleteKey: "deleteInsideImages"},
		{Name: "insideVideosUrls", Folder: assets.FolderSeriesVideos, MaxCount: 5, MaxBytes: 50 * mb, Exts: videoExts, DeleteKey: "deleteInsideVideos"},
	},
	docstore.Amenities: {
		{Name: "logoUrl", Folder: assets.FolderAmenityLogos, MaxCount: 1, MaxBytes: 2 * mb, Exts: imageExts},
	},
	docstore.Towers: nil,
}

// FieldSpecsFor returns the upload fields for a collection.
func FieldSpecsFor(collection string) []FieldSpec {
	return fieldSpecs[collection]
}

// CheckFile validates one incoming file against the field's extension
// whitelist and size ceiling. Returns a client-facing message, or "".
func (f FieldSpec) CheckFile(file assets.File) string {
	ext := strings.ToLower(path.Ext(file.Name))
	allowed := false
	for _, e := range f.Exts {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Sprintf("%s must be one of %s", f.Name, strings.Join(f.Exts, ", "))
	}
	if int64(len(file.Data)) > f.MaxBytes {
		return fmt.Sprintf("%s size must be less than %dMB", f.Name, f.MaxBytes/mb)
	}
	return ""
}
