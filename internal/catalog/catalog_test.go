package catalog

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_Finnish(t *testing.T) {
	for _, code := range []string{"fi", "fi-FI", "fi_FI", "FI"} {
		c := Select(code)
		assert.Equal(t, "fi", c.Language(), "code %q", code)
	}
}

func TestSelect_FallsBackToEnglish(t *testing.T) {
	for _, code := range []string{"en", "en-US", "de", "", "not a language", "zz-999-??"} {
		c := Select(code)
		assert.Equal(t, DefaultLanguage, c.Language(), "code %q", code)
	}
}

func TestSelect_KeySetIdenticalAcrossLanguages(t *testing.T) {
	reg := Default()
	want := reg.Select(DefaultLanguage).Keys()
	require.NotEmpty(t, want)

	for _, lang := range reg.Languages() {
		assert.Equal(t, want, reg.Select(lang).Keys(), "language %s", lang)
	}
}

func TestCatalog_OnlyRiskTypeLabelDiffers(t *testing.T) {
	en := Select("en")
	fi := Select("fi")

	d, ok := en.Definition("personal_fall_protection")
	require.True(t, ok)
	assert.Equal(t, "fall protection", d.RiskType)

	d, ok = fi.Definition("personal_fall_protection")
	require.True(t, ok)
	assert.Equal(t, "putoamissuojaus", d.RiskType)
}

func TestCatalog_KeysIsACopy(t *testing.T) {
	c := Select("en")
	keys := c.Keys()
	keys[0] = "mutated"
	assert.NotEqual(t, "mutated", c.Keys()[0])
}

func TestCatalog_DefinitionUnknown(t *testing.T) {
	c := Select("en")
	_, ok := c.Definition("does_not_exist")
	assert.False(t, ok)
	assert.False(t, c.Has("does_not_exist"))
}

func TestLoadFS_RejectsMismatchedKeys(t *testing.T) {
	fsys := fstest.MapFS{
		"en.yaml": {Data: []byte("language: en\nfields:\n  - id: a\n    risk_type: x\n  - id: b\n    risk_type: y\n")},
		"fi.yaml": {Data: []byte("language: fi\nfields:\n  - id: a\n    risk_type: x\n")},
	}
	_, err := LoadFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing field "b"`)
}

func TestLoadFS_RequiresDefaultLanguage(t *testing.T) {
	fsys := fstest.MapFS{
		"fi.yaml": {Data: []byte("language: fi\nfields:\n  - id: a\n    risk_type: x\n")},
	}
	_, err := LoadFS(fsys)
	assert.Error(t, err)
}

func TestLoadFS_RejectsDuplicateField(t *testing.T) {
	fsys := fstest.MapFS{
		"en.yaml": {Data: []byte("language: en\nfields:\n  - id: a\n  - id: a\n")},
	}
	_, err := LoadFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "twice")
}

func TestLoadFS_IgnoresNonYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"en.yml":    {Data: []byte("language: en\nfields:\n  - id: a\n    risk_type: x\n")},
		"README.md": {Data: []byte("# notes")},
	}
	reg, err := LoadFS(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"en"}, reg.Languages())
}

func TestPrimaryLanguage(t *testing.T) {
	assert.Equal(t, "fi", PrimaryLanguage("fi-FI"))
	assert.Equal(t, "en", PrimaryLanguage("en_GB"))
	assert.Equal(t, "", PrimaryLanguage(""))
	assert.Equal(t, "", PrimaryLanguage("!!"))
}
