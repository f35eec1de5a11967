package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindConfig looks upwards from startDir for a pinboard.yaml file and
// returns its absolute path.
func FindConfig(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, DefaultConfigFile) {
			return filepath.Join(dir, DefaultConfigFile), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%s not found", DefaultConfigFile)
}

func hasFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}
