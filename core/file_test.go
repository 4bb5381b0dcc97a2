package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateFile_MakesParentDirs(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a", "b", "c.txt")

	f, err := CreateFile(path)
	if err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}
	defer f.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected file to exist: %v", err)
	}
}

func TestFileExists(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "exists.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	exists, err := FileExists(path)
	if err != nil {
		t.Fatalf("FileExists failed: %v", err)
	}
	if !exists {
		t.Error("Expected file to exist")
	}

	exists, err = FileExists(filepath.Join(root, "missing.txt"))
	if err != nil {
		t.Fatalf("FileExists failed: %v", err)
	}
	if exists {
		t.Error("Expected missing file to not exist")
	}

	// Directories are not files.
	exists, err = FileExists(root)
	if err != nil {
		t.Fatalf("FileExists failed: %v", err)
	}
	if exists {
		t.Error("Expected directory to not count as a file")
	}
}
