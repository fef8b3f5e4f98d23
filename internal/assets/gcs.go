package assets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"

	"acredge.in/internal/obs"
)

// GCS implements Gateway on a Google Cloud Storage bucket. Objects are
// written with a public-read ACL so the returned URLs resolve without
// signing.
type GCS struct {
	bucket     *storage.BucketHandle
	bucketName string
	now        func() time.Time
}

// NewGCS resolves the bucket from a storage client.
func NewGCS(client *storage.Client, bucketName string) *GCS {
	return NewGCSBucket(client.Bucket(bucketName), bucketName)
}

// NewGCSBucket wraps an already resolved bucket handle, as handed out by
// the Firebase app.
func NewGCSBucket(bucket *storage.BucketHandle, bucketName string) *GCS {
	return &GCS{
		bucket:     bucket,
		bucketName: bucketName,
		now:        time.Now,
	}
}

func (g *GCS) Upload(ctx context.Context, file File, folder, entityID string) (string, error) {
	name := objectName(folder, entityID, file.Name, g.now())
	w := g.bucket.Object(name).NewWriter(ctx)
	w.ContentType = file.ContentType
	w.PredefinedACL = "publicRead"
	w.Metadata = map[string]string{
		"entityId":     entityID,
		"originalName": file.Name,
	}

	_, werr := w.Write(file.Data)
	cerr := w.Close()
	err := errors.Join(werr, cerr)
	obs.ObserveAssetOp("upload", err)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUpload, name, err)
	}
	return publicURL(g.bucketName, name), nil
}

func (g *GCS) UploadAll(ctx context.Context, files []File, folder, entityID string) ([]string, error) {
	urls := make([]string, len(files))
	group, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		group.Go(func() error {
			u, err := g.Upload(gctx, f, folder, entityID)
			if err != nil {
				return err
			}
			urls[i] = u
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return completed(urls), err
	}
	return urls, nil
}

// completed filters out slots whose upload never finished.
func completed(urls []string) []string {
	var done []string
	for _, u := range urls {
		if u != "" {
			done = append(done, u)
		}
	}
	return done
}

func (g *GCS) Delete(ctx context.Context, fileURL string) error {
	name := objectPath(fileURL)
	if name == "" {
		return nil
	}
	err := g.bucket.Object(name).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		err = nil
	}
	obs.ObserveAssetOp("delete", err)
	if err != nil {
		return fmt.Errorf("assets: delete %s: %w", name, err)
	}
	return nil
}

func (g *GCS) DeleteAll(ctx context.Context, fileURLs []string) error {
	var errs []error
	for _, u := range fileURLs {
		if err := g.Delete(ctx, u); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (g *GCS) Exists(ctx context.Context, fileURL string) (bool, error) {
	name := objectPath(fileURL)
	if name == "" {
		return false, nil
	}
	_, err := g.bucket.Object(name).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("assets: stat %s: %w", name, err)
	}
	return true, nil
}
