package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/johanforsgren/upmsetup/internal/config"
	"github.com/johanforsgren/upmsetup/internal/domain"
	"github.com/johanforsgren/upmsetup/internal/logger"
	"github.com/johanforsgren/upmsetup/internal/manifest"
	"github.com/johanforsgren/upmsetup/internal/registry/common"
	"github.com/johanforsgren/upmsetup/internal/registry/github"
	"github.com/johanforsgren/upmsetup/internal/registry/npm"
	"github.com/johanforsgren/upmsetup/internal/storage"
)

// environment holds the resolved settings shared by all commands. Flags
// override the values read from the environment.
type environment struct {
	settings     config.Settings
	flags        config.Settings
	installation *config.InstallationConfig
	httpClient   *http.Client
}

func (e *environment) bindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&e.flags.ProjectDir, "project", "p", "", "Unity project directory")
	flags.StringVar(&e.flags.ManifestPath, "manifest", "", "Package manifest (default <project>/Packages/manifest.json)")
	flags.StringVar(&e.flags.UPMConfigPath, "upmconfig", "", "Credential file (default ~/.upmconfig.toml)")
	flags.StringVar(&e.flags.AuthSection, "section", "", "Table name of credential blocks, e.g. npmAuth")
	flags.StringVarP(&e.flags.ConfigPath, "config", "c", "", "Installation config (JSON with comments)")
	flags.StringVar(&e.flags.LogFile, "log-file", "", "Append the session log to this file")
	flags.DurationVar(&e.flags.HTTPTimeout, "timeout", 0, "HTTP timeout per request")
}

func (e *environment) load(cmd *cobra.Command) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("project") {
		settings.ProjectDir = e.flags.ProjectDir
	}
	if flags.Changed("manifest") {
		settings.ManifestPath = e.flags.ManifestPath
	}
	if flags.Changed("upmconfig") {
		settings.UPMConfigPath = e.flags.UPMConfigPath
	}
	if flags.Changed("section") {
		settings.AuthSection = e.flags.AuthSection
	}
	if flags.Changed("config") {
		settings.ConfigPath = e.flags.ConfigPath
	}
	if flags.Changed("log-file") {
		settings.LogFile = e.flags.LogFile
	}
	if flags.Changed("timeout") {
		settings.HTTPTimeout = e.flags.HTTPTimeout
	}
	e.settings = settings

	if err := logger.Init(settings.LogFile); err != nil {
		return err
	}

	installation, err := config.LoadInstallation(settings.ConfigPath)
	if err != nil {
		return err
	}
	e.installation = installation
	e.httpClient = common.NewHTTPClient(settings.HTTPTimeout)

	logger.Log("Settings: manifest=%s section=%s timeout=%s", settings.Manifest(), settings.AuthSection, settings.HTTPTimeout)
	return nil
}

func (e *environment) close() {
	logger.Close()
}

func (e *environment) manifest() *manifest.Editor {
	return manifest.NewEditor(e.settings.Manifest(), storage.OSFiles{})
}

func (e *environment) credentials() (*storage.UPMConfig, error) {
	path, err := e.settings.UPMConfig()
	if err != nil {
		return nil, err
	}
	return storage.NewUPMConfig(path, e.settings.AuthSection), nil
}

func (e *environment) authenticator() *npm.Authenticator {
	return npm.NewAuthenticator(e.httpClient)
}

// verifier picks the token check that fits registryURL.
func (e *environment) verifier(registryURL string) domain.TokenVerifier {
	if github.IsGitHubRegistry(registryURL) {
		return github.NewVerifier(e.httpClient)
	}
	return npm.NewVerifier(e.httpClient)
}

func (e *environment) registryURL(override string) string {
	if override != "" {
		return override
	}
	return e.installation.AuthRegistryURL()
}

func requireValue(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: --%s is required", domain.ErrValidation, name)
	}
	return nil
}
