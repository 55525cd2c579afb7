package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huanfeng/fdroidmeta/pkg/value"
)

const localizedFixture = `{
  "de-DE": {
    "name": "App [de-DE]",
    "featureGraphic": "Feature Graphic [de-DE].png",
    "phoneScreenshots": ["Phone 1 [de-DE].jpg", "Phone 2 [de-DE].jpg"]
  },
  "de": {
    "name": "App [de]",
    "summary": "Summary [de]"
  },
  "de-AT": {
    "summary": "Summary [de-AT]",
    "description": null
  },
  "en-US": {
    "name": "App [en-US]",
    "description": "Description [en-US]",
    "tvScreenshots": ["tv.png"]
  },
  "en": {
    "name": "App [en]"
  },
  "en-AU": {
    "whatsNew": "Changes [en-AU]"
  },
  "fr-CA": {
    "name": "App [fr-CA]"
  }
}`

func loadFixture(t *testing.T) *value.Object {
	t.Helper()
	v, err := value.DecodeBytes([]byte(localizedFixture))
	require.NoError(t, err)
	obj, ok := v.(*value.Object)
	require.True(t, ok)
	return obj
}

func TestLocalized(t *testing.T) {
	localized := loadFixture(t)
	ranked := Available("de-DE", localized.Keys())
	require.Equal(t, []string{"de-DE", "de", "de-AT", "en-US", "en", "en-AU"}, ranked)

	name, ok := Localized(ranked, localized, "name")
	require.True(t, ok)
	assert.Equal(t, value.String("App [de-DE]"), name)

	summary, ok := Localized(ranked, localized, "summary")
	require.True(t, ok)
	assert.Equal(t, value.String("Summary [de]"), summary)

	// de-AT carries an explicit null, so the lookup keeps walking
	description, ok := Localized(ranked, localized, "description")
	require.True(t, ok)
	assert.Equal(t, value.String("Description [en-US]"), description)

	whatsNew, ok := Localized(ranked, localized, "whatsNew")
	require.True(t, ok)
	assert.Equal(t, value.String("Changes [en-AU]"), whatsNew)

	_, ok = Localized(ranked, localized, "video")
	assert.False(t, ok)
}

func TestLocalizedWithoutRanking(t *testing.T) {
	localized := loadFixture(t)
	_, ok := Localized(nil, localized, "name")
	assert.False(t, ok)

	_, ok = Localized([]string{"de"}, nil, "name")
	assert.False(t, ok)
}

func TestGraphicPath(t *testing.T) {
	localized := loadFixture(t)
	ranked := Available("de-DE", localized.Keys())

	path, ok := GraphicPath(ranked, localized, "featureGraphic")
	require.True(t, ok)
	assert.Equal(t, "de-DE/Feature Graphic [de-DE].png", path)

	_, ok = GraphicPath(ranked, localized, "icon")
	assert.False(t, ok)
}

func TestGraphicListPaths(t *testing.T) {
	localized := loadFixture(t)
	ranked := Available("de-DE", localized.Keys())

	paths, ok := GraphicListPaths(ranked, localized, "phoneScreenshots")
	require.True(t, ok)
	assert.Equal(t, []string{
		"de-DE/phoneScreenshots/Phone 1 [de-DE].jpg",
		"de-DE/phoneScreenshots/Phone 2 [de-DE].jpg",
	}, paths)

	paths, ok = GraphicListPaths(ranked, localized, "tvScreenshots")
	require.True(t, ok)
	assert.Equal(t, []string{"en-US/tvScreenshots/tv.png"}, paths)

	_, ok = GraphicListPaths(ranked, localized, "wearScreenshots")
	assert.False(t, ok)
}
