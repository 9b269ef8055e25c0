package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/zeroos/internal/client/models"
	"github.com/dmitrijs2005/zeroos/internal/filex"
)

func readLocal(path string) (models.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Source{}, fmt.Errorf("read %s: %w", path, err)
	}
	return models.Source{Name: filepath.Base(path), Data: data}, nil
}

func writeLocal(path string, a models.Artifact) (string, error) {
	if path == "" {
		path = "."
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, a.Name)
	}
	if err := filex.WriteFileAtomic(path, a.Data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
