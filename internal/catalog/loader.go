package catalog

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

type document struct {
	Language string          `yaml:"language"`
	Fields   []fieldDocument `yaml:"fields"`
}

type fieldDocument struct {
	ID       string `yaml:"id"`
	RiskType string `yaml:"risk_type"`
}

// LoadFS walks fsys and parses every YAML catalog it finds. A catalog for
// DefaultLanguage is required, and every other variant must define exactly
// the same field ids.
func LoadFS(fsys fs.FS) (*Registry, error) {
	reg := &Registry{catalogs: make(map[string]*Catalog)}

	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(p) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", p, err)
		}

		c, err := parseCatalog(data, p)
		if err != nil {
			return err
		}
		if _, exists := reg.catalogs[c.language]; exists {
			return fmt.Errorf("catalog: duplicate language %q (file %s)", c.language, p)
		}
		reg.catalogs[c.language] = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	fallback, ok := reg.catalogs[DefaultLanguage]
	if !ok {
		return nil, fmt.Errorf("catalog: no %q catalog found", DefaultLanguage)
	}
	reg.fallback = fallback

	for lang, c := range reg.catalogs {
		if err := sameKeys(fallback, c); err != nil {
			return nil, fmt.Errorf("catalog: %s: %w", lang, err)
		}
	}

	return reg, nil
}

func isCatalogFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func parseCatalog(data []byte, p string) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", p, err)
	}

	lang := PrimaryLanguage(doc.Language)
	if lang == "" {
		return nil, fmt.Errorf("catalog: file %s has invalid language %q", p, doc.Language)
	}
	if len(doc.Fields) == 0 {
		return nil, fmt.Errorf("catalog: file %s defines no fields", p)
	}

	c := &Catalog{
		language: lang,
		keys:     make([]string, 0, len(doc.Fields)),
		defs:     make(map[string]Definition, len(doc.Fields)),
	}
	for i, f := range doc.Fields {
		id := strings.TrimSpace(f.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog: file %s field %d has an empty id", p, i)
		}
		if _, dup := c.defs[id]; dup {
			return nil, fmt.Errorf("catalog: file %s defines field %q twice", p, id)
		}
		c.keys = append(c.keys, id)
		c.defs[id] = Definition{ID: id, RiskType: f.RiskType, Order: i}
	}
	return c, nil
}

func sameKeys(want, got *Catalog) error {
	for _, k := range want.keys {
		if !got.Has(k) {
			return fmt.Errorf("missing field %q", k)
		}
	}
	for _, k := range got.keys {
		if !want.Has(k) {
			return fmt.Errorf("unexpected field %q", k)
		}
	}
	return nil
}
