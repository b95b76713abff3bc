package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFileName is the config file looked up by FindConfig.
const ConfigFileName = "fieldboard.yaml"

// ErrNoConfig is returned by FindConfig when no directory up the tree has a config file.
var ErrNoConfig = fmt.Errorf("%s not found", ConfigFileName)

// FindConfig walks up from startDir looking for fieldboard.yaml and returns its absolute path.
func FindConfig(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoConfig
		}
		dir = parent
	}
}
