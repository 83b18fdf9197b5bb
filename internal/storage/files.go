package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/johanforsgren/upmsetup/internal/logger"
)

// OSFiles reads and writes whole text files as lines.
type OSFiles struct{}

func (OSFiles) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (OSFiles) ReadLines(path string) ([]string, error) {
	logger.LogFileOpen(path)
	data, err := os.ReadFile(path)
	if err != nil {
		logger.LogError("READ", path, err)
		return nil, err
	}
	return SplitLines(string(data)), nil
}

// WriteLines replaces path with lines, each terminated by the line ending
// the file used before (LF for new files).
func (OSFiles) WriteLines(path string, lines []string) error {
	newline := "\n"
	if data, err := os.ReadFile(path); err == nil && strings.Contains(string(data), "\r\n") {
		newline = "\r\n"
	}

	content := strings.Join(lines, newline) + newline
	return WriteFileAtomic(path, []byte(content), 0644)
}

// SplitLines splits text into lines, dropping "\r\n" and "\n" terminators.
// A terminator at the very end does not start another line.
func SplitLines(text string) []string {
	if text == "" {
		return []string{}
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers see either the old or the new content. An
// existing file keeps its permissions; perm applies to new files.
func WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	logger.LogFileWrite(path)

	dir := filepath.Dir(path)
	file, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		logger.LogError("WRITE", path, err)
		return fmt.Errorf("creating temporary file: %w", err)
	}
	temporaryPath := file.Name()

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary file: %w", err)
	}
	if err := os.Chmod(temporaryPath, perm); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		logger.LogError("WRITE", path, err)
		return fmt.Errorf("renaming %s into place: %w", filepath.Base(path), err)
	}

	return nil
}
