// Package confkit holds the small pieces shared by every config loader:
// path resolution relative to the main config file, optional sections that
// live in their own file, and one-shot .env loading.
package confkit

import (
	"os"
	"path/filepath"
)

// ResolvePath expands environment references in file and, when the result is
// relative, anchors it at base.
func ResolvePath(base, file string) string {
	file = os.ExpandEnv(file)
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(base, file)
}

// BaseDir returns the directory holding the main config file.
func BaseDir(mainPath string) string {
	return filepath.Dir(mainPath)
}

// Section is a config block stored in a separate file and parsed by a
// package-specific loader.
type Section[T any] struct {
	File  string `json:",optional"`
	Value *T     `json:"-"`
}

// Hydrate runs loader on the resolved File and keeps the result.
// An empty File leaves the section unset.
func (s *Section[T]) Hydrate(base string, loader func(string) (*T, error)) error {
	if s.File == "" {
		return nil
	}
	path := ResolvePath(base, s.File)
	value, err := loader(path)
	if err != nil {
		return err
	}
	s.File, s.Value = path, value
	return nil
}

// Configured reports whether the section was hydrated.
func (s Section[T]) Configured() bool {
	return s.Value != nil
}
