package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SetupDirectories creates every directory in dirs, including parents.
func SetupDirectories(dirs ...string) error {
	for _, d := range dirs {
		if d == "" {
			continue
		}
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", d, err)
		}
	}
	return nil
}

// Cleanup deletes every *.png file directly inside dirs and returns how many
// were removed. Missing directories are skipped. Removal continues past
// individual failures, which are joined into the returned error.
func Cleanup(dirs ...string) (int, error) {
	removed := 0
	var errs []error
	for _, d := range dirs {
		if d == "" {
			continue
		}
		entries, err := os.ReadDir(d)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to read %s: %w", d, err))
			continue
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".png" {
				continue
			}
			if err := os.Remove(filepath.Join(d, e.Name())); err != nil {
				errs = append(errs, err)
				continue
			}
			removed++
		}
	}
	return removed, errors.Join(errs...)
}
