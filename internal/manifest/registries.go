package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/johanforsgren/upmsetup/internal/domain"
	"github.com/johanforsgren/upmsetup/internal/textregion"
)

const (
	fieldName   = "scopedRegistries"
	fieldMarker = `"` + fieldName + `": [`
	indent      = "  "
)

var emptyField = []string{indent + `"` + fieldName + `": []`}

type entry struct {
	Name   string   `json:"name"`
	URL    string   `json:"url"`
	Scopes []string `json:"scopes"`
}

type document struct {
	ScopedRegistries []entry `json:"scopedRegistries"`
}

// Registries is the ordered set of scoped registries of a manifest, unique
// by URL. Entries are only ever appended and scopes only ever added.
type Registries struct {
	entries []entry
}

func NewRegistries() *Registries {
	return &Registries{}
}

func (r *Registries) Len() int {
	return len(r.entries)
}

// List returns a copy of the entries in manifest order.
func (r *Registries) List() []domain.Registry {
	out := make([]domain.Registry, len(r.entries))
	for i, e := range r.entries {
		out[i] = domain.Registry{
			Name:   e.Name,
			URL:    e.URL,
			Scopes: slices.Clone(e.Scopes),
		}
	}
	return out
}

func (r *Registries) find(url string) *entry {
	for i := range r.entries {
		if domain.SameURL(r.entries[i].URL, url) {
			return &r.entries[i]
		}
	}
	return nil
}

// ContainsAll reports whether the registry at url exists and lists every
// scope in scopes.
func (r *Registries) ContainsAll(url string, scopes []string) bool {
	e := r.find(url)
	if e == nil {
		return false
	}

	for _, scope := range scopes {
		if !slices.Contains(e.Scopes, scope) {
			return false
		}
	}
	return true
}

// Upsert adds a registry, or the missing scopes of an existing one. The
// name of an existing registry is never overwritten. It reports whether
// anything changed.
func (r *Registries) Upsert(name, url string, scopes []string) bool {
	if e := r.find(url); e != nil {
		changed := false
		for _, scope := range scopes {
			if slices.Contains(e.Scopes, scope) {
				continue
			}
			e.Scopes = append(e.Scopes, scope)
			changed = true
		}
		return changed
	}

	added := entry{Name: name, URL: url, Scopes: make([]string, 0, len(scopes))}
	for _, scope := range scopes {
		if !slices.Contains(added.Scopes, scope) {
			added.Scopes = append(added.Scopes, scope)
		}
	}
	r.entries = append(r.entries, added)
	return true
}

// Lines renders the collection as the scopedRegistries field of a
// two-space indented manifest, without a trailing comma.
func (r *Registries) Lines() ([]string, error) {
	doc := document{ScopedRegistries: make([]entry, len(r.entries))}
	for i, e := range r.entries {
		doc.ScopedRegistries[i] = e
		if e.Scopes == nil {
			doc.ScopedRegistries[i].Scopes = []string{}
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", fieldName, err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) < 3 {
		return nil, fmt.Errorf("failed to encode %s: unexpected output", fieldName)
	}
	return lines[1 : len(lines)-1], nil
}

// ParseRegion decodes the scopedRegistries field held by region. Lines
// outside the region are ignored; comments and trailing commas inside it
// are tolerated.
func ParseRegion(lines []string, region textregion.Region) (*Registries, error) {
	if !region.Found() {
		return nil, fmt.Errorf("%w: %s region not found", domain.ErrParse, fieldName)
	}

	var b strings.Builder
	b.WriteString("{\n")
	for i := region.Begin; i <= region.End; i++ {
		b.WriteString(lines[i])
		b.WriteString("\n")
	}
	b.WriteString("}\n")

	var doc document
	if err := json.Unmarshal(jsonc.ToJSON([]byte(b.String())), &doc); err != nil {
		return nil, fmt.Errorf("%w: cannot decode %s: %v", domain.ErrParse, fieldName, err)
	}

	registries := NewRegistries()
	for _, e := range doc.ScopedRegistries {
		if e.Scopes == nil {
			e.Scopes = []string{}
		}
		registries.entries = append(registries.entries, e)
	}
	return registries, nil
}
