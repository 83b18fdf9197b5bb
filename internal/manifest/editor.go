package manifest

import (
	"fmt"
	"strings"

	"github.com/johanforsgren/upmsetup/internal/domain"
	"github.com/johanforsgren/upmsetup/internal/logger"
	"github.com/johanforsgren/upmsetup/internal/textregion"
)

// Files is the file access the editor needs. Lines carry no line
// terminators.
type Files interface {
	Exists(path string) bool
	ReadLines(path string) ([]string, error)
	WriteLines(path string, lines []string) error
}

// Editor edits the scopedRegistries field of one manifest file. It keeps no
// state between calls; every operation reads the file again.
type Editor struct {
	path  string
	files Files
}

func NewEditor(path string, files Files) *Editor {
	return &Editor{
		path:  path,
		files: files,
	}
}

func (e *Editor) Path() string {
	return e.path
}

// CheckPresence reports, per registry name, whether the manifest already
// holds the registry with all of its scopes. Any problem reading the
// manifest reports every registry as absent.
func (e *Editor) CheckPresence(registries []domain.Registry) map[string]bool {
	result := make(map[string]bool, len(registries))
	for _, r := range registries {
		result[r.Name] = false
	}

	present, err := e.Registries()
	if err != nil {
		logger.Warn("Manifest: presence check on %s: %v", e.path, err)
		return result
	}

	for _, r := range registries {
		result[r.Name] = present.ContainsAll(r.URL, r.Scopes)
	}
	return result
}

// Registries returns the scoped registries currently listed in the
// manifest. A manifest without the field yields an empty collection.
func (e *Editor) Registries() (*Registries, error) {
	lines, err := e.read()
	if err != nil {
		return nil, err
	}

	region := textregion.Locate(lines, fieldMarker)
	if !region.Found() || region.Empty() {
		return NewRegistries(), nil
	}

	return ParseRegion(lines, region)
}

// AddRegistries merges registries into the manifest. The file is only
// rewritten when a registry or scope was actually added, and only the lines
// of the scopedRegistries field change.
func (e *Editor) AddRegistries(registries []domain.Registry) error {
	lines, err := e.read()
	if err != nil {
		return err
	}

	lines, region := textregion.LocateOrCreate(lines, fieldMarker, emptyField)
	if !region.Found() && textregion.HasMarker(lines, fieldMarker) {
		err := fmt.Errorf("%w: '%s' in %s is never closed", domain.ErrParse, fieldName, e.path)
		logger.LogError("MANIFEST_REGION", e.path, err)
		return err
	}
	if !region.Found() {
		err := fmt.Errorf("%w: can not detect or add '%s' in %s", domain.ErrStructure, fieldName, e.path)
		logger.LogError("MANIFEST_REGION", e.path, err)
		return err
	}

	present := NewRegistries()
	if region.Empty() {
		if content := textregion.InlineContent(lines[region.Begin]); content != "" {
			logger.Warn("Manifest: one-line '%s' in %s is replaced, its entries are dropped: %s", fieldName, e.path, content)
		}
	} else {
		present, err = ParseRegion(lines, region)
		if err != nil {
			logger.LogError("MANIFEST_PARSE", e.path, err)
			return fmt.Errorf("%w (%s)", err, e.path)
		}
	}

	changed := false
	for _, r := range registries {
		if present.Upsert(r.Name, r.URL, r.Scopes) {
			logger.Log("Manifest: registry %s (%s) added or extended", r.Name, r.URL)
			changed = true
		}
	}

	if !changed {
		logger.Log("Manifest: %s already up to date", e.path)
		return nil
	}

	block, err := present.Lines()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	out := textregion.Splice(lines, region, block)
	next := region.Begin + len(block)
	if next < len(out) && !strings.HasPrefix(out[next], "}") {
		out[next-1] += ","
	}

	if err := e.files.WriteLines(e.path, out); err != nil {
		logger.LogError("MANIFEST_WRITE", e.path, err)
		return fmt.Errorf("%w: %v", domain.ErrIO, err)
	}

	logger.Log("Manifest: wrote %d registries to %s", present.Len(), e.path)
	return nil
}

func (e *Editor) read() ([]string, error) {
	if !e.files.Exists(e.path) {
		return nil, fmt.Errorf("%w: can not find manifest %s", domain.ErrIO, e.path)
	}

	lines, err := e.files.ReadLines(e.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIO, err)
	}

	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: can not read manifest %s, check that it is valid", domain.ErrParse, e.path)
	}
	return lines, nil
}
