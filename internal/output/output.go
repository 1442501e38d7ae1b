// Package output writes conversion results to disk.
package output

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes content to path, creating missing parent directories.
// An existing file is replaced.
func WriteFile(path, content string) error {
	if path == "" {
		return fmt.Errorf("output path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
