package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FileSpec describes a file to be written by MustWriteTestFiles.
type FileSpec struct {
	// Path is relative to the target directory.
	Path    string
	Content string
}

// MustWriteTestFiles writes the files under dir and returns their absolute
// filenames.
func MustWriteTestFiles(t *testing.T, dir string, files []FileSpec) []string {
	t.Helper()
	var filenames []string
	for _, file := range files {
		abs := filepath.Join(dir, file.Path)
		if err := os.MkdirAll(filepath.Dir(abs), os.ModePerm); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(file.Content), 0o644); err != nil {
			t.Fatal(err)
		}
		filenames = append(filenames, abs)
	}
	return filenames
}

// MustReadTestFile reads a file under dir.
func MustReadTestFile(t *testing.T, dir string, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		ListFiles(t, dir)
		t.Fatal("reading", filename, ":", err)
	}
	return string(data)
}

// ExpectErrorContains asserts that got is nil when want is empty, and
// otherwise that its message contains want.  Return value is true if the
// "want" argument is non-empty.
func ExpectErrorContains(t *testing.T, want string, got error) bool {
	t.Helper()
	if want == "" {
		if got != nil {
			t.Fatal("unexpected error:", got)
		}
		return false
	}
	if got == nil || !strings.Contains(got.Error(), want) {
		t.Fatalf("errors: want containing %q, got: %v", want, got)
	}
	return true
}

// ListFiles is a convenience debugging function to log the files under a given dir.
func ListFiles(t *testing.T, dir string) {
	t.Log("Listing files under:", dir)
	if err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		t.Log(path)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
}
