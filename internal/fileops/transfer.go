package fileops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

var (
	PermFile os.FileMode = 0o664
	PermDir  os.FileMode = 0o775
)

// ErrIntoItself is returned when a folder would be placed inside itself.
var ErrIntoItself = fmt.Errorf("destination is inside the source: %w", ErrInvalid)

// within reports whether path is dir itself or lies below it.
func within(dir, path string) bool {
	dir = filepath.Clean(dir)
	path = filepath.Clean(path)
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

// validateDestination refuses to put a folder into its own subtree.
func validateDestination(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if info.IsDir() && within(src, dst) {
		return fmt.Errorf("%s into %s: %w", src, dst, ErrIntoItself)
	}
	return nil
}

// moveEntry renames src to dst. Only when the two live on different volumes
// is the entry copied and the source removed afterwards.
func moveEntry(src, dst string) error {
	if err := validateDestination(src, dst); err != nil {
		return err
	}
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%s: %w", dst, ErrExists)
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("rename: %w", err)
	}

	if err := copyEntry(src, dst); err != nil {
		return fmt.Errorf("copy fallback: %w", err)
	}
	if err := os.RemoveAll(src); err != nil {
		return fmt.Errorf("remove source: %w", err)
	}
	return nil
}

// copyEntry copies a file or a directory tree from src to dst. A failed
// copy leaves nothing behind at dst.
func copyEntry(src, dst string) error {
	if err := validateDestination(src, dst); err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%s: %w", dst, ErrExists)
	}

	if info.IsDir() {
		err = copyDirectory(src, dst)
	} else {
		err = copySingleFile(src, dst)
	}
	if err != nil {
		_ = os.RemoveAll(dst)
		return err
	}
	return nil
}

func copySingleFile(source, dest string) error {
	src, err := os.Open(source)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dest), PermDir); err != nil {
		return err
	}

	dst, err := os.OpenFile(dest, os.O_RDWR|os.O_CREATE|os.O_EXCL, PermFile)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

func copyDirectory(source, dest string) error {
	if err := os.MkdirAll(dest, PermDir); err != nil {
		return err
	}

	entries, err := os.ReadDir(source)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(source, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			if err := copyDirectory(srcPath, destPath); err != nil {
				return err
			}
			continue
		}
		if err := copySingleFile(srcPath, destPath); err != nil {
			return err
		}
	}
	return nil
}
