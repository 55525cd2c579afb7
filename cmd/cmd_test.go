package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/huanfeng/fdroidmeta/internal/config"
	"github.com/huanfeng/fdroidmeta/pkg/value"
)

const cliIndex = `{
  "repo": {"name": "CLI <i>Repo</i>", "address": "https://example.org/repo", "icon": "icon.png", "description": "Test repo", "timestamp": 1545900545000},
  "apps": [
    {"packageName": "org.example.cli", "icon": "cli.png", "suggestedVersionCode": "2",
     "localized": {"en-US": {"name": "CLI Tool", "summary": "Command & line"}, "de": {"name": "Werkzeug"}}},
    {"name": "No package"}
  ],
  "packages": {"org.example.cli": [{"versionCode": 2, "versionName": "2.0", "added": 1545900545000, "apkName": "org.example.cli_2.apk"}]}
}`

// run executes the CLI with a fresh template config and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "fdroidmeta.yaml")
	require.NoError(t, config.SaveTemplate(cfgPath))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--config", cfgPath, "--no-color"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeIndex(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index-v1.json")
	require.NoError(t, os.WriteFile(path, []byte(cliIndex), 0644))
	return path
}

func TestResolveCommand(t *testing.T) {
	index := writeIndex(t)

	out, err := run(t, "resolve", index, "--locale", "de-DE", "--format", "json")
	require.NoError(t, err)

	v, err := value.DecodeBytes([]byte(out))
	require.NoError(t, err)
	list, ok := v.(value.List)
	require.True(t, ok)
	require.Len(t, list, 1)

	record := list[0].(*value.Object)
	assert.Equal(t, "package_name", record.Keys()[0])
	title, _ := record.Text("title")
	assert.Equal(t, "Werkzeug", title)
	name, _ := record.Text("suggested_version_name")
	assert.Equal(t, "2.0", name)

	_, err = run(t, "resolve", index, "org.example.missing")
	assert.Error(t, err)
}

func TestResolveCommandYAML(t *testing.T) {
	index := writeIndex(t)

	out, err := run(t, "resolve", index, "org.example.cli", "--locale", "en-US", "--format", "yaml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "- package_name: org.example.cli\n"), out)
	assert.Contains(t, out, "summary: Command &amp; line")

	var decoded []map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	versions := decoded[0]["versions"].([]interface{})
	version := versions[0].(map[string]interface{})
	assert.Equal(t, "2018-12-27", version["added"])
	assert.Equal(t, 2, version["version_code"])
}

func TestLocalesCommand(t *testing.T) {
	index := writeIndex(t)

	out, err := run(t, "locales", index, "org.example.cli", "--locale", "de-AT", "--format", "json")
	require.NoError(t, err)

	var result localesResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []string{"de", "en-US"}, result.RankedLocales)
	require.NotNil(t, result.IsLocalized)
	assert.Equal(t, "de", *result.IsLocalized)
}

func TestRepoInfoCommand(t *testing.T) {
	index := writeIndex(t)

	out, err := run(t, "repo", "info", index, "--plain")
	require.NoError(t, err)
	assert.Equal(t, "CLI Repo 2018-12-27\n", out)

	out, err = run(t, "repo", "info", index, "--plain=false", "--format", "json")
	require.NoError(t, err)
	var info repoInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "https://example.org/repo/icons/icon.png", info.IconURL)
	assert.Equal(t, "2018-12-27", info.Date)
}

func TestSearchCommands(t *testing.T) {
	index := writeIndex(t)

	out, err := run(t, "search", index, "cli", "--locale", "en-US", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"packageName": "org.example.cli"`)

	docsPath := filepath.Join(t.TempDir(), "docs.json")
	_, err = run(t, "search-docs", index, "--locale", "en-US", "--output", docsPath, "--format", "json")
	require.NoError(t, err)
	data, err := os.ReadFile(docsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"icon": "icons-640/cli.png"`)
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.yaml")

	_, err := run(t, "config", "init", path)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = run(t, "config", "init", path, "--force=false")
	assert.Error(t, err)
}

func TestYAMLNodeKeepsOrder(t *testing.T) {
	obj := value.NewObject().
		Set("zeta", value.Int(1)).
		Set("alpha", value.String("true")).
		Set("pi", value.Number("3.14")).
		Set("none", value.Nil).
		Set("flag", value.Bool(true)).
		Set("list", value.Strings([]string{"a"}))

	var buf bytes.Buffer
	require.NoError(t, writeValue(&buf, obj, formatYAML))
	assert.Equal(t, "zeta: 1\nalpha: \"true\"\npi: 3.14\nnone: null\nflag: true\nlist:\n  - a\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	f, err := parseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, formatYAML, f)

	f, err = parseFormat("")
	require.NoError(t, err)
	assert.Equal(t, formatJSON, f)

	_, err = parseFormat("xml")
	assert.Error(t, err)
}

func TestLangFromArgs(t *testing.T) {
	assert.Equal(t, "zh", langFromArgs([]string{"resolve", "--lang", "zh"}))
	assert.Equal(t, "en", langFromArgs([]string{"--lang=en", "version"}))
	assert.Equal(t, "", langFromArgs([]string{"--", "--lang", "zh"}))
	assert.Equal(t, "", langFromArgs([]string{"--lang"}))
}
