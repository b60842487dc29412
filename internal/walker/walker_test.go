package walker

import (
	"os"
	"path/filepath"
	"testing"

	"dirsize/internal/transcript"
	"dirsize/internal/tree"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for f, content := range files {
		fullPath := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}
}

func TestRecord_Transcript(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"b.txt":       "12345",
		"a/f":         "123",
		"a/e/i":       "1",
		"d/j":         "1234567",
		"d/empty/.ok": "",
	})

	result, err := Record(tmpDir, []string{}, nil)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	expected := []string{
		"$ cd /",
		"$ ls",
		"dir a",
		"5 b.txt",
		"dir d",
		"$ cd a",
		"$ ls",
		"dir e",
		"3 f",
		"$ cd e",
		"$ ls",
		"1 i",
		"$ cd ..",
		"$ cd ..",
		"$ cd d",
		"$ ls",
		"dir empty",
		"7 j",
		"$ cd empty",
		"$ ls",
		"0 .ok",
		"$ cd ..",
		"$ cd ..",
	}

	if len(result.Lines) != len(expected) {
		t.Fatalf("Expected %d lines, got %d: %q", len(expected), len(result.Lines), result.Lines)
	}
	for i := range expected {
		if result.Lines[i] != expected[i] {
			t.Errorf("Line %d: expected %q, got %q", i+1, expected[i], result.Lines[i])
		}
	}

	if result.Directories != 5 {
		t.Errorf("Expected 5 directories, got %d", result.Directories)
	}
	if result.Files != 5 {
		t.Errorf("Expected 5 files, got %d", result.Files)
	}
	if result.Bytes != 16 {
		t.Errorf("Expected 16 bytes, got %d", result.Bytes)
	}
}

func TestRecord_RoundTripsThroughBuilder(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"x/y/z.bin": "0123456789",
		"x/w.txt":   "abc",
		"top.txt":   "a",
	})

	result, err := Record(tmpDir, []string{}, nil)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if _, err := transcript.Parse(result.Lines); err != nil {
		t.Fatalf("Recorded transcript does not parse: %v", err)
	}

	built, err := tree.BuildLines(result.Lines)
	if err != nil {
		t.Fatalf("Recorded transcript does not build: %v", err)
	}
	sizes, err := tree.Aggregate(built)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if sizes.Root() != 14 {
		t.Errorf("Expected root size 14, got %d", sizes.Root())
	}
	h, ok := built.Resolve("/x")
	if !ok {
		t.Fatal("Directory /x missing from built tree")
	}
	if size, _ := sizes.Of(h); size != 13 {
		t.Errorf("Expected /x size 13, got %d", size)
	}
}

func TestRecord_WithExclusions(t *testing.T) {
	tmpDir := t.TempDir()

	files := map[string]bool{
		"file1.txt":           false, // should be included
		"file2.tmp":           true,  // should be excluded (*.tmp)
		"file3.log":           true,  // should be excluded (*.log)
		"node_modules/lib.js": true,  // should be excluded (node_modules/)
		"src/main.go":         false, // should be included
		"dist/output.js":      true,  // should be excluded (dist/)
		".git/config":         true,  // should be excluded (.git/)
	}

	contents := make(map[string]string, len(files))
	for f := range files {
		contents[f] = "content"
	}
	writeFiles(t, tmpDir, contents)

	exclusions := []string{
		"*.tmp",
		"*.log",
		"node_modules/",
		"dist/",
		".git/",
	}

	result, err := Record(tmpDir, exclusions, nil)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if result.Files != 2 {
		t.Errorf("Expected 2 files, got %d", result.Files)
	}
	// Root and src.
	if result.Directories != 2 {
		t.Errorf("Expected 2 directories, got %d", result.Directories)
	}
	for _, line := range result.Lines {
		if line == "dir node_modules" || line == "dir dist" || line == "dir .git" {
			t.Errorf("Excluded directory listed: %q", line)
		}
	}
}

func TestRecord_GlobPatternExclusion(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"test.go":      "x",
		"test_test.go": "x",
		"main_test.go": "x",
		"main.go":      "x",
	})

	result, err := Record(tmpDir, []string{"*_test.go"}, nil)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if result.Files != 2 {
		t.Errorf("Expected 2 files, got %d", result.Files)
	}
}

func TestRecord_EmptyDirectory(t *testing.T) {
	result, err := Record(t.TempDir(), []string{}, nil)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if len(result.Lines) != 2 {
		t.Errorf("Expected only cd and ls lines, got %q", result.Lines)
	}
}

func TestRecord_NonExistentDirectory(t *testing.T) {
	_, err := Record("/nonexistent/directory", []string{}, nil)
	if err == nil {
		t.Error("Record should return error for nonexistent directory")
	}
}
