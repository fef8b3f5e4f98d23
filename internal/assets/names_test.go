package assets

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestObjectNameLayout(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	name := objectName(FolderProjectImages, "proj-1", "photo.JPG", now)
	if !strings.HasPrefix(name, "ProjectImages/proj-1/1700000000000-") {
		t.Fatalf("unexpected prefix: %s", name)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Fatalf("extension should be lowercased: %s", name)
	}

	// No entity id: the segment is omitted entirely.
	name = objectName(FolderAmenityLogos, "", "logo.png", now)
	if strings.Count(name, "/") != 1 {
		t.Fatalf("expected folder/file layout, got %s", name)
	}
}

func TestObjectNameUnique(t *testing.T) {
	now := time.Now()
	a := objectName(FolderSeriesImages, "s1", "x.png", now)
	b := objectName(FolderSeriesImages, "s1", "x.png", now)
	if a == b {
		t.Fatalf("same-named concurrent uploads must not collide: %s", a)
	}
}

func TestObjectPathForms(t *testing.T) {
	cases := map[string]string{
		"https://storage.googleapis.com/acredge-media/DeveloperLogo/d1/1-a.png": "DeveloperLogo/d1/1-a.png",
		"gs://acredge-media/SeriesLayouts/s1/2-b.pdf":                           "SeriesLayouts/s1/2-b.pdf",
		"ProjectImages/p1/3-c.jpg":                                              "ProjectImages/p1/3-c.jpg",
		"https://storage.googleapis.com/acredge-media/a%20b.png?alt=media":      "a b.png",
	}
	for in, want := range cases {
		if got := objectPath(in); got != want {
			t.Errorf("objectPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMemoryDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("acredge-media")

	u, err := m.Upload(ctx, File{Name: "a.png", Data: []byte("x")}, FolderDeveloperLogo, "d1")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if ok, _ := m.Exists(ctx, u); !ok {
		t.Fatal("uploaded object should exist")
	}

	if err := m.Delete(ctx, u); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := m.Delete(ctx, u); err != nil {
		t.Fatalf("deleting a missing object must be a no-op, got %v", err)
	}
	if ok, _ := m.Exists(ctx, u); ok {
		t.Fatal("object should be gone")
	}
}

func TestMemoryUploadAllAllOrError(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("acredge-media")

	files := []File{
		{Name: "a.png", Data: []byte("a")},
		{Name: "b.png", Data: []byte("b")},
	}
	urls, err := m.UploadAll(ctx, files, FolderProjectImages, "p1")
	if err != nil {
		t.Fatalf("upload all: %v", err)
	}
	if len(urls) != 2 || urls[0] == "" || urls[1] == "" {
		t.Fatalf("expected two urls, got %v", urls)
	}

	m.FailUploads = true
	if _, err := m.UploadAll(ctx, files, FolderProjectImages, "p1"); err == nil {
		t.Fatal("expected failure to surface")
	}
}
