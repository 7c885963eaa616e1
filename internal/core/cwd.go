package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// CWD is a validated, absolute directory path.
type CWD struct {
	path string
}

func CWDFromPath(path string) (*CWD, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		return &CWD{path: wd}, nil
	}

	absPath := path
	if !filepath.IsAbs(path) {
		var err error
		absPath, err = filepath.Abs(path)
		if err != nil {
			return nil, err
		}
	}

	if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
		absPath = filepath.Dir(absPath)
	}

	return &CWD{path: absPath}, nil
}

func (c *CWD) PathStr() string {
	if c == nil {
		return ""
	}
	return c.path
}

func (c *CWD) Validate() error {
	if c == nil || c.path == "" {
		return errors.New("current working directory not set")
	}
	return nil
}

// JoinAndCheck resolves path relative to c and confirms it exists on disk.
func (c *CWD) JoinAndCheck(path string) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	joined, err := filepath.Abs(filepath.Join(c.path, path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	if _, err := os.Stat(joined); err != nil {
		return "", fmt.Errorf("file not found or inaccessible: %w", err)
	}
	return joined, nil
}

// Exists reports whether path exists on disk, without requiring it to.
// A relative path is resolved against the process working directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dir (and parents) if it does not already exist.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
