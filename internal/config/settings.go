package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/johanforsgren/upmsetup/internal/storage"
)

// Settings are the process settings. Every field can be set from the
// environment; command line flags override them.
type Settings struct {
	ProjectDir    string        `env:"UPMSETUP_PROJECT" envDefault:"."`
	ManifestPath  string        `env:"UPMSETUP_MANIFEST"`
	UPMConfigPath string        `env:"UPMSETUP_UPMCONFIG"`
	AuthSection   string        `env:"UPMSETUP_AUTH_SECTION" envDefault:"scope"`
	ConfigPath    string        `env:"UPMSETUP_CONFIG"`
	LogFile       string        `env:"UPMSETUP_LOG_FILE"`
	HTTPTimeout   time.Duration `env:"UPMSETUP_HTTP_TIMEOUT" envDefault:"30s"`
}

// LoadSettings reads Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

// Manifest is the package manifest to edit: ManifestPath when set,
// otherwise Packages/manifest.json inside the project.
func (s Settings) Manifest() string {
	if s.ManifestPath != "" {
		return s.ManifestPath
	}
	return filepath.Join(s.ProjectDir, "Packages", "manifest.json")
}

// UPMConfig is the credential file to edit, by default the one in the
// user's home directory.
func (s Settings) UPMConfig() (string, error) {
	if s.UPMConfigPath != "" {
		return s.UPMConfigPath, nil
	}
	return storage.DefaultUPMConfigPath()
}
