package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Entry is a named Descriptor declared in a catalog file.
type Entry struct {
	Name       string `json:"name" yaml:"name"`
	Descriptor `json:",inline" yaml:",inline"`
}

type catalogFile struct {
	Requests []Entry `json:"requests" yaml:"requests"`
}

// Catalog holds request entries loaded from a YAML/JSON file.
type Catalog struct {
	mu      sync.RWMutex
	entries []Entry
	idx     map[string]Entry
}

// LoadCatalog reads the catalog file at path.
func LoadCatalog(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("catalog file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	return ParseCatalog(raw, filepath.Ext(path))
}

// ParseCatalog decodes catalog content. ext selects the decoder (".yaml",
// ".yml", ".json"); an empty ext tries each in turn.
func ParseCatalog(data []byte, ext string) (*Catalog, error) {
	file, err := parseCatalogFile(data, ext)
	if err != nil {
		return nil, err
	}
	if len(file.Requests) == 0 {
		return nil, errors.New("catalog file contains no requests entries")
	}

	cat := &Catalog{
		entries: make([]Entry, len(file.Requests)),
		idx:     make(map[string]Entry, len(file.Requests)),
	}
	for i := range file.Requests {
		e, err := sanitizeEntry(file.Requests[i])
		if err != nil {
			return nil, fmt.Errorf("requests[%d]: %w", i, err)
		}
		if _, exists := cat.idx[e.Name]; exists {
			return nil, fmt.Errorf("duplicate request name %q", e.Name)
		}
		cat.entries[i] = e
		cat.idx[e.Name] = e
	}
	return cat, nil
}

func parseCatalogFile(data []byte, ext string) (catalogFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var file catalogFile
		if err := d.fn(data, &file); err == nil {
			return file, nil
		}
	}

	return catalogFile{}, errors.New("catalog file format not recognized (expected YAML or JSON)")
}

func sanitizeEntry(e Entry) (Entry, error) {
	e.Name = strings.TrimSpace(e.Name)
	e.Host = strings.TrimSpace(e.Host)
	if e.Name == "" {
		return Entry{}, errors.New("name is required")
	}

	if strings.TrimSpace(string(e.Method)) == "" {
		e.Method = GET
	}
	m, err := ParseMethod(string(e.Method))
	if err != nil {
		return Entry{}, fmt.Errorf("request %q: %w", e.Name, err)
	}
	e.Method = m
	return e, nil
}

// ByName returns the entry registered under name.
func (c *Catalog) ByName(name string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.idx[name]
	if !ok {
		return Entry{}, false
	}
	e.Descriptor = e.Descriptor.Clone()
	return e, true
}

// All returns every entry in file order.
func (c *Catalog) All() []Entry {
	if c == nil {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		e.Descriptor = e.Descriptor.Clone()
		out[i] = e
	}
	return out
}

// Select returns the entries for names, or every entry when names is empty.
func (c *Catalog) Select(names ...string) ([]Entry, error) {
	if len(names) == 0 {
		return c.All(), nil
	}
	out := make([]Entry, 0, len(names))
	for _, n := range names {
		e, ok := c.ByName(n)
		if !ok {
			return nil, fmt.Errorf("request %q not found in catalog", n)
		}
		out = append(out, e)
	}
	return out, nil
}
