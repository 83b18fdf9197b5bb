package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/johanforsgren/upmsetup/internal/domain"
	"github.com/johanforsgren/upmsetup/internal/logger"
)

const (
	UPMConfigFileName = ".upmconfig.toml"
	DefaultSection    = "scope"
)

// UPMConfig edits the per-user credential file of the package manager. The
// file is a sequence of blocks
//
//	[<section>."<registry url>"]
//	token = "<token>"
//	alwaysAuth = true
//
// separated by blank lines. Only these blocks are understood; any other
// content is carried over unchanged.
type UPMConfig struct {
	path    string
	section string
}

// DefaultUPMConfigPath is the credential file in the user's home directory.
func DefaultUPMConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, UPMConfigFileName), nil
}

func NewUPMConfig(path, section string) *UPMConfig {
	if section == "" {
		section = DefaultSection
	}
	return &UPMConfig{
		path:    path,
		section: section,
	}
}

func (c *UPMConfig) Path() string {
	return c.path
}

// Block renders the credential block for one registry.
func (c *UPMConfig) Block(registryURL, token string) string {
	return fmt.Sprintf("[%s.\"%s\"]\ntoken = \"%s\"\nalwaysAuth = true", c.section, registryURL, token)
}

// IsRegistryPresent reports whether the file holds exactly the block for
// registryURL and token. A block with a different token counts as absent.
func (c *UPMConfig) IsRegistryPresent(registryURL, token string) bool {
	content, err := c.load()
	if err != nil || content == "" {
		return false
	}
	return strings.Contains(content, c.Block(registryURL, token))
}

// AddRegistry stores token for registryURL. Any earlier block mentioning
// registryURL is removed and the new block is appended at the end of the
// file.
func (c *UPMConfig) AddRegistry(registryURL, token string) error {
	content, err := c.load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", domain.ErrIO, err)
	}

	if content != "" && strings.Contains(content, registryURL) {
		logger.Log("UPM config: replacing credentials for %s", registryURL)
		content = removeBlocks(content, registryURL)
	}

	content = strings.TrimRight(content, "\r\n")
	if content != "" {
		content += "\n\n"
	}
	content += c.Block(registryURL, token)

	if err := WriteFileAtomic(c.path, []byte(content), 0600); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIO, err)
	}

	logger.Log("UPM config: stored credentials for %s in %s", registryURL, c.path)
	return nil
}

func (c *UPMConfig) load() (string, error) {
	logger.LogFileOpen(c.path)
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.LogError("LOAD", c.path, err)
		}
		return "", err
	}
	return string(data), nil
}

// removeBlocks drops every line that mentions registryURL together with the
// lines after it, up to the next table header.
func removeBlocks(content, registryURL string) string {
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))

	removing := false
	for _, line := range lines {
		if removing && isTableHeader(line) {
			removing = false
		}
		if !removing && strings.Contains(line, registryURL) {
			removing = true
		}
		if removing {
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}

func isTableHeader(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "[")
}
