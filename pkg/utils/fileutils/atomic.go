package fileutils

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FileMode is the mode of files written by AtomicWrite and AtomicEdit.
const FileMode fs.FileMode = 0o644

// AtomicWrite writes a file atomically, replacing whatever is at path.
func AtomicWrite(path string, gen func(w io.Writer) error) error {
	return replace(path, gen, false)
}

// AtomicEdit is AtomicWrite, except that the existing file is left untouched
// when the generated content is identical to it.
func AtomicEdit(path string, gen func(w io.Writer) error) error {
	return replace(path, gen, true)
}

func replace(path string, gen func(w io.Writer) error, keepSame bool) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return err
	}
	defer func(tmp *os.File) {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}(tmp)

	if err := gen(tmp); err != nil {
		return err
	}
	if err := tmp.Chmod(FileMode); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if keepSame {
		if eq, err := sameContent(tmp.Name(), path); err != nil {
			return err
		} else if eq {
			return nil
		}
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	if df, err := os.Open(dir); err == nil {
		_ = df.Sync()
		_ = df.Close()
	}

	return nil
}

// sameContent reports whether the files at a and b hold the same bytes.
// A missing b is not an error, it is simply different.
func sameContent(a, b string) (bool, error) {
	bInfo, err := os.Stat(b)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	if bInfo.IsDir() {
		return false, &fs.PathError{Op: "compare", Path: b, Err: errors.New("is a directory")}
	}

	aInfo, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	if aInfo.Size() != bInfo.Size() {
		return false, nil
	}

	aData, err := os.ReadFile(a)
	if err != nil {
		return false, err
	}
	bData, err := os.ReadFile(b)
	if err != nil {
		return false, err
	}

	return bytes.Equal(aData, bData), nil
}
