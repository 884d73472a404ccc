package filestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir, "/media/")
	ctx := context.Background()

	ref, err := s.Upload(ctx, "apply/7/cv.pdf", "application/pdf", strings.NewReader("resume"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if ref != "apply/7/cv.pdf" {
		t.Fatalf("ref = %q", ref)
	}
	b, err := os.ReadFile(filepath.Join(dir, "apply", "7", "cv.pdf"))
	if err != nil || string(b) != "resume" {
		t.Fatalf("stored file = %q, %v", b, err)
	}
	if got := s.URL(ref); got != "/media/apply/7/cv.pdf" {
		t.Fatalf("URL = %q", got)
	}

	if err := s.Delete(ctx, ref); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, ref); err != nil {
		t.Fatalf("second Delete should ignore missing file: %v", err)
	}
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	s := NewLocalStore(t.TempDir(), "/media")
	for _, p := range []string{"../escape.txt", "apply/../../x", ""} {
		if _, err := s.Upload(context.Background(), p, "", strings.NewReader("x")); err == nil {
			t.Errorf("Upload(%q) should fail", p)
		}
	}
}
