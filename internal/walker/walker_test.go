package walker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func relPaths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func TestWalkIncludeExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "readme.md", "# hello")
	writeFile(t, root, "notes.txt", "notes")
	writeFile(t, root, "main.go", "package main")
	writeFile(t, root, "docs/guide.md", "# guide")
	writeFile(t, root, "node_modules/pkg/readme.md", "# vendored")

	files, err := Walk(Config{
		RootDir: root,
		Include: []string{"**/*.md", "**/*.txt"},
		Exclude: []string{"node_modules"},
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := relPaths(files)
	want := map[string]bool{"readme.md": true, "notes.txt": true, "docs/guide.md": true}
	if len(got) != len(want) {
		t.Fatalf("expected %d files, got %v", len(want), got)
	}
	for _, p := range got {
		if !want[p] {
			t.Errorf("unexpected file %q", p)
		}
	}
}

func TestWalkSkipsBinaryFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "doc.txt", "text")
	writeFile(t, root, "blob.txt", "bin\x00ary")

	files, err := Walk(Config{RootDir: root})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "doc.txt" {
		t.Errorf("expected only doc.txt, got %v", relPaths(files))
	}
}

func TestWalkSkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.txt", "ok")
	writeFile(t, root, "big.txt", strings.Repeat("a", 20))

	files, err := Walk(Config{RootDir: root, MaxFileSize: 10})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "small.txt" {
		t.Errorf("expected only small.txt, got %v", relPaths(files))
	}
}

func TestMatchesFilters(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		include  bool
		exclude  bool
	}{
		{"docs/a.md", []string{"**/*.md"}, true, true},
		{"docs/a.md", []string{"*.txt"}, false, false},
		{"a.md", nil, true, false},
		{".git/config", []string{".git"}, false, false},
		{"nested/.git/config", []string{"**/.git/**"}, true, true},
	}

	for _, tt := range tests {
		if got := MatchesInclude(tt.path, tt.patterns); got != tt.include {
			t.Errorf("MatchesInclude(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.include)
		}
		if got := MatchesExclude(tt.path, tt.patterns); got != tt.exclude {
			t.Errorf("MatchesExclude(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.exclude)
		}
	}
}
