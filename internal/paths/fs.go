package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// NotADirectoryError reports a path expected to be a directory.
type NotADirectoryError struct {
	Path string
}

func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("not a directory: '%s'", e.Path)
}

// NotAFileError reports a path expected to be a regular file.
type NotAFileError struct {
	Path string
}

func (e *NotAFileError) Error() string {
	return fmt.Sprintf("not a file: '%s'", e.Path)
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory. Symlinks are
// followed.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// IsFile is FileExists with errors treated as absence.
func IsFile(path string) bool {
	ok, err := FileExists(path)
	return err == nil && ok
}

// IsDir is DirExists with errors treated as absence.
func IsDir(path string) bool {
	ok, err := DirExists(path)
	return err == nil && ok
}

// IsSymlink reports whether path itself is a symbolic link.
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// AssertIsDirectory returns a *NotADirectoryError unless path is a directory.
func AssertIsDirectory(path string) error {
	if !IsDir(path) {
		return &NotADirectoryError{Path: path}
	}
	return nil
}

// AssertIsFile returns a *NotAFileError unless path is a regular file.
func AssertIsFile(path string) error {
	if !IsFile(path) {
		return &NotAFileError{Path: path}
	}
	return nil
}

// ToAbsolute resolves path against the working directory.
func ToAbsolute(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}
