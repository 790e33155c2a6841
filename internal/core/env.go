package core

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by LoadEnv.
const EnvPrefix = "SCAFFOLDENV"

// Environment keys, without the prefix.
const (
	EnvPostgresDSN  = "postgres_dsn"
	EnvPython       = "python"
	EnvTemplate     = "template"
	EnvFrameworkDir = "framework_dir"
	EnvServerPort   = "server_port"
	EnvKeepFolder   = "keep_folder"
)

// Env holds overrides read from the environment. Zero values mean unset.
type Env struct {
	PostgresDSN  string
	Python       string
	Template     string
	FrameworkDir string
	ServerPort   int
	KeepFolder   bool
}

// LoadEnv reads SCAFFOLDENV_* variables. When dotenvPath names an existing
// file its SCAFFOLDENV_* entries serve as defaults; the process
// environment wins. A missing dotenv file is not an error.
func LoadEnv(fsys afero.Fs, dotenvPath string) (Env, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if dotenvPath != "" {
		if err := loadDotenv(fsys, dotenvPath, v); err != nil {
			return Env{}, err
		}
	}

	env := Env{
		PostgresDSN:  v.GetString(EnvPostgresDSN),
		Python:       v.GetString(EnvPython),
		Template:     v.GetString(EnvTemplate),
		FrameworkDir: v.GetString(EnvFrameworkDir),
	}

	if s := strings.TrimSpace(v.GetString(EnvServerPort)); s != "" {
		port, err := strconv.Atoi(s)
		if err != nil {
			return Env{}, fmt.Errorf("%s_%s: %w", EnvPrefix, strings.ToUpper(EnvServerPort), err)
		}
		env.ServerPort = port
	}
	if s := strings.TrimSpace(v.GetString(EnvKeepFolder)); s != "" {
		keep, err := strconv.ParseBool(s)
		if err != nil {
			return Env{}, fmt.Errorf("%s_%s: %w", EnvPrefix, strings.ToUpper(EnvKeepFolder), err)
		}
		env.KeepFolder = keep
	}
	return env, nil
}

func loadDotenv(fsys afero.Fs, path string, v *viper.Viper) error {
	content, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	entries, err := godotenv.Parse(bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	prefix := EnvPrefix + "_"
	for k, val := range entries {
		if key, ok := strings.CutPrefix(k, prefix); ok {
			v.SetDefault(strings.ToLower(key), val)
		}
	}
	return nil
}

// ApplySession copies the set overrides into cfg.
func (e Env) ApplySession(cfg *SessionConfig) {
	if e.Python != "" {
		cfg.Python = e.Python
	}
	if e.Template != "" {
		cfg.Template = e.Template
	}
	if e.FrameworkDir != "" {
		cfg.FrameworkDir = e.FrameworkDir
	}
	if e.ServerPort != 0 {
		cfg.Server.Port = e.ServerPort
	}
	if e.KeepFolder {
		cfg.KeepFolder = true
	}
}
