package search

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huanfeng/fdroidmeta/pkg/fdroid"
	"github.com/huanfeng/fdroidmeta/pkg/models"
)

const searchIndex = `{
  "repo": {"name": "Search", "address": "https://example.org/repo", "icon": "icon.png", "timestamp": 1545900545000},
  "apps": [
    {"packageName": "org.example.notes", "icon": "notes.png",
     "localized": {"en-US": {"name": "Simple Notes", "summary": "Take notes & lists"}}},
    {"packageName": "org.example.maps",
     "localized": {"en-US": {"name": "Maps", "summary": "Offline maps with notes"}}},
    {"packageName": "notes",
     "localized": {"en-US": {"name": "Jot"}}}
  ],
  "packages": {}
}`

func documents(t *testing.T) []Document {
	t.Helper()
	var raw models.RepositoryIndex
	require.NoError(t, json.Unmarshal([]byte(searchIndex), &raw))

	idx, err := fdroid.BuildIndex(context.Background(), &raw, "en-US", fdroid.NewDefaultAssembler(), nil)
	require.NoError(t, err)
	require.Empty(t, idx.Failures)
	return BuildDocuments(idx.Apps)
}

func TestBuildDocuments(t *testing.T) {
	docs := documents(t)
	require.Len(t, docs, 3)

	first := docs[0]
	assert.Equal(t, 0, first.ID)
	assert.Equal(t, "org.example.notes", first.PackageName)
	assert.Equal(t, "Simple Notes", first.Name)
	require.NotNil(t, first.Icon)
	assert.Equal(t, "icons-640/notes.png", *first.Icon)
	require.NotNil(t, first.Summary)
	assert.Equal(t, "Take notes &amp; lists", *first.Summary)

	assert.Nil(t, docs[1].Icon)
	assert.Equal(t, 2, docs[2].ID)
	assert.Nil(t, docs[2].Summary)

	data, err := json.Marshal(docs[2])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":2,"packageName":"notes","icon":null,"name":"Jot","summary":null}`, string(data))
}

func TestSearch(t *testing.T) {
	docs := documents(t)

	tests := []struct {
		name  string
		query string
		opts  Options
		want  []string
		score []float64
	}{
		{
			name:  "relevance",
			query: "Notes",
			want:  []string{"org.example.notes", "notes", "org.example.maps"},
			score: []float64{110, 100, 10},
		},
		{
			name:  "limit",
			query: "notes",
			opts:  Options{Limit: 1},
			want:  []string{"org.example.notes"},
			score: []float64{110},
		},
		{
			name:  "exact word",
			query: "maps",
			opts:  Options{Exact: true},
			want:  []string{"org.example.maps"},
			score: []float64{90},
		},
		{
			name:  "sort by package",
			query: "example",
			opts:  Options{Sort: "package"},
			want:  []string{"org.example.maps", "org.example.notes"},
			score: []float64{50, 50},
		},
		{
			name:  "no match",
			query: "calendar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := Search(docs, tt.query, tt.opts)
			require.NoError(t, err)

			var names []string
			var scores []float64
			for _, r := range results {
				names = append(names, r.PackageName)
				scores = append(scores, r.Score)
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, tt.score, scores)
		})
	}
}

func TestSearchNameBonus(t *testing.T) {
	docs := []Document{
		{ID: 0, PackageName: "a", Name: "Simple Notes"},
		{ID: 1, PackageName: "b", Name: "Footnotes"},
	}
	results, err := Search(docs, "note", Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].PackageName)
	assert.Equal(t, 50.0, results[0].Score)
	assert.Equal(t, 40.0, results[1].Score)
}

func TestSearchEmptyQuery(t *testing.T) {
	_, err := Search(nil, "   ", Options{})
	assert.Error(t, err)
}
