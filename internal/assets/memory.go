package assets

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Memory implements Gateway in process for tests. It honors the same
// naming and URL-parsing rules as the GCS gateway.
type Memory struct {
	bucketName string

	mu      sync.Mutex
	objects map[string][]byte
	now     func() time.Time

	// FailUploads makes every Upload fail, for rollback-path tests.
	FailUploads bool
}

// NewMemory creates an empty in-memory gateway.
func NewMemory(bucketName string) *Memory {
	return &Memory{
		bucketName: bucketName,
		objects:    make(map[string][]byte),
		now:        time.Now,
	}
}

func (m *Memory) Upload(ctx context.Context, file File, folder, entityID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailUploads {
		return "", fmt.Errorf("%w: simulated failure", ErrUpload)
	}
	name := objectName(folder, entityID, file.Name, m.now())
	m.objects[name] = append([]byte(nil), file.Data...)
	return publicURL(m.bucketName, name), nil
}

func (m *Memory) UploadAll(ctx context.Context, files []File, folder, entityID string) ([]string, error) {
	urls := make([]string, len(files))
	group, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		group.Go(func() error {
			u, err := m.Upload(gctx, f, folder, entityID)
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

func (m *Memory) Delete(ctx context.Context, fileURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, objectPath(fileURL))
	return nil
}

func (m *Memory) DeleteAll(ctx context.Context, fileURLs []string) error {
	var errs []error
	for _, u := range fileURLs {
		if err := m.Delete(ctx, u); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Memory) Exists(ctx context.Context, fileURL string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[objectPath(fileURL)]
	return ok, nil
}

// Len reports the number of stored objects.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
