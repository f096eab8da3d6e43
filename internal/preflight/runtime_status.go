package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"subkatsu/internal/config"
)

// ModelFile describes a model found in the model directory.
type ModelFile struct {
	Name     string
	Path     string
	Size     int64
	Modified time.Time
}

// ScanModels lists model files in dir, newest first. A missing directory
// yields no models rather than an error.
func ScanModels(dir string) ([]ModelFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read model directory: %w", err)
	}
	var models []ModelFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), config.ModelExtension) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		models = append(models, ModelFile{
			Name:     strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Path:     filepath.Join(dir, entry.Name()),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}
	slices.SortFunc(models, func(a, b ModelFile) int {
		return b.Modified.Compare(a.Modified)
	})
	return models, nil
}
