package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/johanforsgren/upmsetup/internal/domain"
	"github.com/johanforsgren/upmsetup/internal/logger"
)

//go:embed default.jsonc
var defaultInstallation []byte

type RegistryConfig struct {
	Name   string   `json:"name"`
	URL    string   `json:"url"`
	Scopes []string `json:"scopes"`
}

func (r RegistryConfig) Registry() domain.Registry {
	return domain.Registry{
		Name:   r.Name,
		URL:    r.URL,
		Scopes: append([]string(nil), r.Scopes...),
	}
}

// InstallationConfig describes what the wizard sets up: the registry users
// log in to, further registries that only need a manifest entry, and the
// packages that become available.
type InstallationConfig struct {
	PrimaryRegistry RegistryConfig   `json:"primaryRegistry"`
	OtherRegistries []RegistryConfig `json:"otherRegistries"`
	Packages        []string         `json:"packages"`
}

// DefaultInstallation returns the built-in installation config.
func DefaultInstallation() *InstallationConfig {
	cfg, err := ParseInstallation(defaultInstallation)
	if err != nil {
		panic(fmt.Sprintf("built-in installation config: %v", err))
	}
	return cfg
}

// LoadInstallation reads an installation config file. An empty path yields
// the built-in config.
func LoadInstallation(path string) (*InstallationConfig, error) {
	if path == "" {
		return DefaultInstallation(), nil
	}

	logger.LogFileOpen(path)
	data, err := os.ReadFile(path)
	if err != nil {
		logger.LogError("LOAD", path, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrIO, err)
	}

	cfg, err := ParseInstallation(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return cfg, nil
}

// ParseInstallation decodes an installation config. Comments and trailing
// commas are allowed.
func ParseInstallation(data []byte) (*InstallationConfig, error) {
	var cfg InstallationConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return nil, fmt.Errorf("%w: installation config: %v", domain.ErrParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *InstallationConfig) Validate() error {
	for i, r := range c.AllRegistries() {
		if r.Name == "" {
			return fmt.Errorf("%w: registry %d has no name", domain.ErrValidation, i)
		}
		if r.URL == "" {
			return fmt.Errorf("%w: registry %s has no url", domain.ErrValidation, r.Name)
		}
	}
	return nil
}

// AllRegistries lists the primary registry first, followed by the others.
func (c *InstallationConfig) AllRegistries() []domain.Registry {
	registries := make([]domain.Registry, 0, len(c.OtherRegistries)+1)
	registries = append(registries, c.PrimaryRegistry.Registry())
	for _, r := range c.OtherRegistries {
		registries = append(registries, r.Registry())
	}
	return registries
}

// AuthRegistryURL is the registry credentials are requested from.
func (c *InstallationConfig) AuthRegistryURL() string {
	return c.PrimaryRegistry.URL
}
