package config

import (
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Initialize writes the default configuration into the directory unless one
// already exists there, then loads whatever the directory now holds.
func Initialize(fsys afero.Fs, path string, logger *log.Logger) (*Configuration, error) {
	configPath := filepath.Join(path, ConfigurationName)

	exists, err := afero.Exists(fsys, configPath)
	switch {
	case err != nil:
		return nil, err
	case exists:
		logger.Info("configuration already exists, leaving it alone", "path", configPath)
	default:
		if err := fsys.MkdirAll(path, 0700); err != nil {
			return nil, err
		}
		if err := afero.WriteFile(fsys, configPath, defaultConfigData, 0600); err != nil {
			return nil, err
		}
		logger.Info("wrote default configuration", "path", configPath)
	}

	return Load(fsys, path)
}
