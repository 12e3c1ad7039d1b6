package fileutils

import (
	"io/fs"
	"path"
	"strings"
)

// WalkFilesFS walks a filesystem tree and returns the file paths below root,
// relative to root and in lexical order.
func WalkFilesFS(fsys fs.FS, root string, skip SkipFunc) ([]string, error) {
	root = path.Clean(root)
	files := make([]string, 0)

	err := fs.WalkDir(fsys, root, func(current string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel := relTo(root, current)
		if rel == "." {
			return nil
		}

		if skip != nil && skip(rel, d) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if !d.IsDir() {
			files = append(files, rel)
		}
		return nil
	})

	return files, err
}

// relTo returns p relative to root, both being clean slash paths within an fs.FS.
func relTo(root, p string) string {
	if root == "." {
		return p
	}
	if p == root {
		return "."
	}
	return strings.TrimPrefix(p, root+"/")
}
