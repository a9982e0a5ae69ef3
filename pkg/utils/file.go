package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ryanuber/go-glob"
)

// ErrExists is returned when a file would be overwritten without permission.
var ErrExists = errors.New("file exists")

// Exists will check if the provided file or directory exists.
func Exists(path string) (bool, error) {
	// get file info
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}

	// check for known error
	if os.IsNotExist(err) {
		return false, nil
	}

	return true, err
}

// Resolve will resolve a path and us the provided base for relative paths.
func Resolve(path, base string) (string, error) {
	// only clean already absolute paths
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}

	// ensure base
	if base == "" {
		var err error
		base, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}

	// return path joined with base
	return filepath.Join(base, path), nil
}

// Sync will synchronize the two files. It will only copy if the destination is
// absent or differs. Missing parent directories of the destination are
// created.
func Sync(src, dst string) error {
	// read source
	srcData, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	// get source mode
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	// check similarity if destination exists
	dstData, err := os.ReadFile(dst)
	if err == nil && bytes.Equal(srcData, dstData) {
		return nil
	} else if err != nil && !os.IsNotExist(err) {
		return err
	}

	// ensure directory
	err = os.MkdirAll(filepath.Dir(dst), 0755)
	if err != nil {
		return err
	}

	// write file
	err = os.WriteFile(dst, srcData, info.Mode().Perm())
	if err != nil {
		return err
	}

	return nil
}

// Clean will remove the directory with all its contents and create it again
// empty.
func Clean(dir string) error {
	// remove directory
	err := os.RemoveAll(dir)
	if err != nil {
		return err
	}

	// create directory
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return nil
}

// Contains reports whether path equals dir or is located below it.
func Contains(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Copy will sync all files below src whose slash separated relative path
// matches one of the glob patterns into dst, keeping the relative layout. The
// destination is skipped if it is located below the source. It returns the
// relative paths of the copied files.
func Copy(src, dst string, patterns ...string) ([]string, error) {
	// check source
	ok, err := Exists(src)
	if err != nil {
		return nil, err
	} else if !ok {
		return nil, nil
	}

	// walk source
	var copied []string
	err = filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// skip directories and the destination
		if entry.IsDir() {
			if path != src && filepath.Clean(path) == filepath.Clean(dst) {
				return filepath.SkipDir
			}
			return nil
		}

		// get relative path
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		// check patterns
		if !Match(rel, patterns...) {
			return nil
		}

		// sync file
		err = Sync(path, filepath.Join(dst, filepath.FromSlash(rel)))
		if err != nil {
			return fmt.Errorf("copy %s: %w", rel, err)
		}

		copied = append(copied, rel)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return copied, nil
}

// Match reports whether the slash separated path matches one of the glob
// patterns. A "*" also matches path separators.
func Match(path string, patterns ...string) bool {
	for _, pattern := range patterns {
		if glob.Glob(pattern, path) {
			return true
		}
	}
	return false
}

// Write will write data to the specified file. An existing file is only
// replaced if overwrite is set. The path "-" writes to standard output.
func Write(path string, data []byte, overwrite bool) error {
	// handle stdout
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	// check existence
	if !overwrite {
		ok, err := Exists(path)
		if err != nil {
			return err
		} else if ok {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
	}

	// write file
	err := os.WriteFile(path, data, 0644)
	if err != nil {
		return err
	}

	return nil
}

// Read will read the specified file. The path "-" reads standard input.
func Read(path string) ([]byte, error) {
	// handle stdin
	if path == "" || path == "-" {
		var buf bytes.Buffer
		_, err := buf.ReadFrom(os.Stdin)
		return buf.Bytes(), err
	}

	return os.ReadFile(path)
}
