package fileops

import (
	"os"

	"github.com/pkg/errors"
)

// Exists reports whether something is present at path.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	} else if os.IsNotExist(err) {
		return false, nil
	} else {
		return false, err
	}
}

// Create opens path for writing, creating it or truncating what is there.
// The parent directory must exist.
func Create(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// IsDir reports whether path names an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// CheckParent fails when the directory that would hold path is missing.
func CheckParent(dir string) error {
	if dir == "" || IsDir(dir) {
		return nil
	}
	return errors.Errorf("directory %s does not exist", dir)
}
