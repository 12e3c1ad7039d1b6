package fileutils

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"docs/index.md":             {Data: []byte("# Home")},
		"docs/guide/intro.md":       {Data: []byte("# Intro")},
		"docs/guide/setup.md":       {Data: []byte("# Setup")},
		"docs/assets/logo.png":      {Data: []byte("png")},
		"docs/.vitepress/config.ts": {Data: []byte("x")},
	}
}

func skipHidden(rel string, d fs.DirEntry) bool {
	return strings.HasPrefix(d.Name(), ".")
}

func TestWalkTreeFS(t *testing.T) {
	tree, err := WalkTreeFS(testFS(), "docs", skipHidden)
	if err != nil {
		t.Fatalf("WalkTreeFS() error = %v", err)
	}

	var names []string
	for _, child := range tree.Root.Children {
		names = append(names, child.Name)
	}
	want := []string{"assets", "guide", "index.md"}
	if !slices.Equal(names, want) {
		t.Errorf("root children = %v, want %v", names, want)
	}

	guide, ok := tree.Node("guide")
	if !ok {
		t.Fatal("expected guide node")
	}
	if !guide.IsDir || len(guide.Children) != 2 {
		t.Errorf("guide = %+v, want dir with 2 children", guide)
	}
	if guide.Parent != tree.Root {
		t.Error("guide parent should be root")
	}

	if _, ok := tree.Node(".vitepress/config.ts"); ok {
		t.Error("hidden directory should be skipped")
	}

	intro, ok := guide.Child("intro.md")
	if !ok || intro.Path != "guide/intro.md" {
		t.Errorf("intro = %+v, want path guide/intro.md", intro)
	}
}

func TestTraverseOrder(t *testing.T) {
	tree, err := WalkTreeFS(testFS(), "docs/guide", nil)
	if err != nil {
		t.Fatalf("WalkTreeFS() error = %v", err)
	}

	var trace []string
	tree.Traverse(func(n *FSNode, depth int) {
		trace = append(trace, "enter:"+n.Path)
	}, func(n *FSNode, depth int) {
		trace = append(trace, "leave:"+n.Path)
	})

	want := []string{
		"enter:.",
		"enter:intro.md", "leave:intro.md",
		"enter:setup.md", "leave:setup.md",
		"leave:.",
	}
	if !slices.Equal(trace, want) {
		t.Errorf("trace = %v, want %v", trace, want)
	}
}

func TestWalkFilesFS(t *testing.T) {
	files, err := WalkFilesFS(testFS(), ".", skipHidden)
	if err != nil {
		t.Fatalf("WalkFilesFS() error = %v", err)
	}

	want := []string{
		"docs/assets/logo.png",
		"docs/guide/intro.md",
		"docs/guide/setup.md",
		"docs/index.md",
	}
	if !slices.Equal(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}
}

func TestWalkFilesFSMissingRoot(t *testing.T) {
	if _, err := WalkFilesFS(testFS(), "missing", nil); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "robots.txt")

	if err := os.WriteFile(target, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := AtomicWrite(target, func(w io.Writer) error {
		_, err := io.WriteString(w, "new")
		return err
	})
	if err != nil {
		t.Fatalf("AtomicWrite() error = %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("content = %q, want %q", got, "new")
	}

	info, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != FileMode {
		t.Errorf("mode = %v, want %v", info.Mode().Perm(), FileMode)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected temp files to be cleaned up, got %d entries", len(entries))
	}
}

func TestAtomicWriteGeneratorError(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")

	err := AtomicWrite(target, func(w io.Writer) error {
		return io.ErrUnexpectedEOF
	})
	if err != io.ErrUnexpectedEOF {
		t.Errorf("error = %v, want %v", err, io.ErrUnexpectedEOF)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("target should not exist after failed write")
	}
}

func TestAtomicEditKeepsIdenticalFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "same.txt")

	if err := os.WriteFile(target, []byte("same"), 0o600); err != nil {
		t.Fatal(err)
	}
	before, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}

	err = AtomicEdit(target, func(w io.Writer) error {
		_, err := io.WriteString(w, "same")
		return err
	})
	if err != nil {
		t.Fatalf("AtomicEdit() error = %v", err)
	}

	after, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}
	// an untouched file keeps its original mode
	if after.Mode().Perm() != before.Mode().Perm() {
		t.Errorf("identical file was replaced (mode %v -> %v)", before.Mode().Perm(), after.Mode().Perm())
	}
}

func TestAtomicEditCreatesMissing(t *testing.T) {
	target := filepath.Join(t.TempDir(), "fresh.txt")

	err := AtomicEdit(target, func(w io.Writer) error {
		_, err := io.WriteString(w, "fresh")
		return err
	})
	if err != nil {
		t.Fatalf("AtomicEdit() error = %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil || string(got) != "fresh" {
		t.Errorf("content = %q, %v; want %q", got, err, "fresh")
	}
}
