package confkit

import (
	"fmt"
	"os"
	"path/filepath"
)

const maxRootDepth = 8

// ProjectRoot walks upward from the working directory looking for go.mod or
// .git. The working directory itself is returned when neither is found.
func ProjectRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return ".", fmt.Errorf("getwd: %w", err)
	}
	dir := wd
	for i := 0; i < maxRootDepth; i++ {
		if exists(filepath.Join(dir, "go.mod")) || exists(filepath.Join(dir, ".git")) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return wd, nil
}

// MustProjectPath joins rel onto ProjectRoot and panics when the working
// directory cannot be determined.
func MustProjectPath(rel string) string {
	root, err := ProjectRoot()
	if err != nil {
		panic(err)
	}
	return filepath.Join(root, rel)
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
