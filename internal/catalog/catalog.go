// Package catalog holds the static risk-observation field definitions.
//
// A catalog exists per supported language. Every variant carries the same
// field ids; only the risk-type label of a field may differ. Catalogs are
// immutable once loaded.
package catalog

import (
	"embed"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// DefaultLanguage is the catalog used for any unrecognized language code.
const DefaultLanguage = "en"

//go:embed catalogs/*.yaml
var catalogFS embed.FS

// Definition is the static description of one observation field.
type Definition struct {
	ID       string
	RiskType string
	Order    int
}

// Catalog is the immutable set of field definitions for one language.
type Catalog struct {
	language string
	keys     []string
	defs     map[string]Definition
}

// Language returns the language code this catalog was loaded for.
func (c *Catalog) Language() string {
	return c.language
}

// Keys returns the field ids in catalog order.
func (c *Catalog) Keys() []string {
	return slices.Clone(c.keys)
}

// Len returns the number of fields in the catalog.
func (c *Catalog) Len() int {
	return len(c.keys)
}

// Has reports whether key is a field id of this catalog.
func (c *Catalog) Has(key string) bool {
	_, ok := c.defs[key]
	return ok
}

// Definition returns the definition for key.
func (c *Catalog) Definition(key string) (Definition, bool) {
	d, ok := c.defs[key]
	return d, ok
}

// Registry holds every loaded language variant.
type Registry struct {
	catalogs map[string]*Catalog
	fallback *Catalog
}

// Select returns the catalog for the primary language of code. Unknown,
// empty or malformed codes resolve to the default catalog.
func (r *Registry) Select(code string) *Catalog {
	if c, ok := r.catalogs[PrimaryLanguage(code)]; ok {
		return c
	}
	return r.fallback
}

// Languages returns the loaded language codes in sorted order.
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.catalogs))
	for lang := range r.catalogs {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// PrimaryLanguage extracts the lower-case primary language subtag from a
// language code such as "fi-FI" or "en_US". It returns "" when the code
// cannot be parsed.
func PrimaryLanguage(code string) string {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the embedded catalogs.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := LoadFS(catalogFS)
		if err != nil {
			panic("catalog: embedded catalogs are invalid: " + err.Error())
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Select resolves code against the embedded catalogs.
func Select(code string) *Catalog {
	return Default().Select(code)
}
