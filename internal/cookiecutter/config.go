package cookiecutter

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/websauna/scaffoldenv/internal/fileutil"
)

// Directory and file names inside the user dir.
const (
	UserDirName      = "user_dir"
	CookiecuttersDir = "cookiecutters"
	ReplayDir        = "cookiecutter_replay"
	ConfigFileName   = "config"
)

// UserConfig is the subset of cookiecutter's user config that is written.
type UserConfig struct {
	CookiecuttersDir string `yaml:"cookiecutters_dir"`
	ReplayDir        string `yaml:"replay_dir"`
}

// WriteConfig creates <baseDir>/user_dir with empty cookiecutters and
// replay directories plus a config file pointing at them, and returns the
// config file path.
func WriteConfig(fs afero.Fs, baseDir string) (string, error) {
	userDir := filepath.Join(baseDir, UserDirName)
	cfg := UserConfig{
		CookiecuttersDir: filepath.Join(userDir, CookiecuttersDir),
		ReplayDir:        filepath.Join(userDir, ReplayDir),
	}
	for _, dir := range []string{cfg.CookiecuttersDir, cfg.ReplayDir} {
		if err := fileutil.EnsureDir(fs, dir); err != nil {
			return "", err
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal cookiecutter config: %w", err)
	}
	path := filepath.Join(userDir, ConfigFileName)
	if err := fileutil.WriteFile(fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("write cookiecutter config: %w", err)
	}
	return path, nil
}

// readConfig parses a config written by WriteConfig.
func readConfig(fs afero.Fs, path string) (UserConfig, error) {
	var cfg UserConfig
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return cfg, fmt.Errorf("read cookiecutter config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse cookiecutter config %s: %w", path, err)
	}
	return cfg, nil
}
