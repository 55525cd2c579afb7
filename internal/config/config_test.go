package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huanfeng/fdroidmeta/internal/errors"
	"github.com/huanfeng/fdroidmeta/pkg/models"
	"github.com/huanfeng/fdroidmeta/pkg/utils"
	"github.com/huanfeng/fdroidmeta/pkg/value"
)

func TestLoadTemplateMatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "fdroidmeta.yaml")
	require.NoError(t, SaveTemplate(path))

	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, want.Site, cfg.Site)
	assert.Equal(t, want.Sanitizer, cfg.Sanitizer)
	assert.Equal(t, want.Locale, cfg.Locale)
	assert.Equal(t, want.Logging, cfg.Logging)
	assert.Equal(t, want.Cache, cfg.Cache)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
site:
  base_url: "https://apps.example.org"
locale:
  default: "de-DE"
cache:
  size: 2
`), 0644))
	t.Setenv("FDROIDMETA_LOGGING_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://apps.example.org", cfg.Site.BaseURL)
	assert.Equal(t, "fdroid.app", cfg.Site.LinkScheme)
	assert.Equal(t, "de-DE", cfg.Locale.Default)
	assert.Equal(t, 2, cfg.Cache.Size)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"TW", "HK", "MO"}, cfg.Locale.Aliases["zh"]["hant"])
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	e, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeConfiguration, e.Type)
	assert.Equal(t, errors.CodeConfigRead, e.Code)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("site: [unclosed"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestNewAssembler(t *testing.T) {
	cfg := Default()
	assembler, err := NewAssembler(&cfg, nil)
	require.NoError(t, err)

	entry := models.Entry{PackageName: "org.example.app"}
	raw := `{"packageName": "org.example.app", "localized": {"zh-TW": {"name": "範例"}, "zh-CN": {"name": "范例"}}}`
	entry.Metadata = decodeObject(t, raw)

	app, err := assembler.Assemble(entry, "zh-Hant")
	require.NoError(t, err)
	assert.Equal(t, "範例", app.Title())

	cfg.Site.BaseURL = "not a url"
	_, err = NewAssembler(&cfg, nil)
	assert.Error(t, err)
}

func TestNewLoggerConfig(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "warn"
	cfg.Logging.Format = "json"

	lc, err := NewLoggerConfig(&cfg)
	require.NoError(t, err)
	assert.Equal(t, utils.LogLevelWarn, lc.Level)
	assert.Equal(t, utils.LogFormatJSON, lc.Format)

	cfg.Logging.Level = "loud"
	_, err = NewLoggerConfig(&cfg)
	assert.Error(t, err)
}

func decodeObject(t *testing.T, raw string) *value.Object {
	t.Helper()
	v, err := value.DecodeBytes([]byte(raw))
	require.NoError(t, err)
	obj, ok := v.(*value.Object)
	require.True(t, ok)
	return obj
}
