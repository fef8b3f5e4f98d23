package assets

import (
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const publicHost = "https://storage.googleapis.com/"

// objectName builds a collision-free object path. Time plus a random id
// keeps concurrent uploads of same-named files from colliding; the entity
// id segment is omitted when no entity exists yet.
func objectName(folder, entityID, fileName string, now time.Time) string {
	ext := strings.ToLower(path.Ext(fileName))
	base := strconv.FormatInt(now.UnixMilli(), 10) + "-" + uuid.NewString() + ext
	if entityID == "" {
		return folder + "/" + base
	}
	return folder + "/" + entityID + "/" + base
}

// publicURL returns the stable HTTPS form for an object.
func publicURL(bucket, object string) string {
	return publicHost + bucket + "/" + object
}

// objectPath resolves a stored URL back to a bucket-relative object path.
// Both the public HTTPS form and the native gs:// form are accepted; a bare
// path passes through. Query strings and URL escaping are stripped.
func objectPath(fileURL string) string {
	name := strings.TrimSpace(fileURL)
	switch {
	case strings.HasPrefix(name, publicHost):
		name = strings.TrimPrefix(name, publicHost)
		name = dropBucketSegment(name)
	case strings.HasPrefix(name, "gs://"):
		name = strings.TrimPrefix(name, "gs://")
		name = dropBucketSegment(name)
	}
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}
	if decoded, err := url.QueryUnescape(name); err == nil {
		name = decoded
	}
	return name
}

func dropBucketSegment(s string) string {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return ""
}
