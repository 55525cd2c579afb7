// Package search turns assembled records into documents for a full-text
// indexer and offers a small scored lookup over them.
package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/huanfeng/fdroidmeta/pkg/fdroid"
)

// Document is the per-app payload handed to the search indexer
type Document struct {
	ID          int     `json:"id"`
	PackageName string  `json:"packageName"`
	Icon        *string `json:"icon"`
	Name        string  `json:"name"`
	Summary     *string `json:"summary"`
}

// BuildDocuments creates one document per app. The id is the app's position.
func BuildDocuments(apps []*fdroid.App) []Document {
	docs := make([]Document, 0, len(apps))
	for i, app := range apps {
		doc := Document{
			ID:          i,
			PackageName: app.PackageName(),
			Name:        app.Title(),
		}
		if icon, ok := app.Icon(); ok {
			doc.Icon = &icon
		}
		if summary, ok := app.Summary(); ok {
			doc.Summary = &summary
		}
		docs = append(docs, doc)
	}
	return docs
}

// Options contains search options
type Options struct {
	Limit int
	Sort  string // relevance (default), name or package
	Exact bool
}

// Result is a scored document
type Result struct {
	Document
	Score float64 `json:"score"`
}

// Search scores docs against query and returns the matches
func Search(docs []Document, query string, opts Options) ([]Result, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}

	var results []Result
	for _, doc := range docs {
		var score float64
		if opts.Exact {
			score = exactScore(query, doc)
		} else {
			score = fuzzyScore(query, doc)
		}
		if score == 0 {
			continue
		}
		results = append(results, Result{Document: doc, Score: score})
	}

	sortResults(results, opts.Sort)

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

func fuzzyScore(query string, doc Document) float64 {
	if strings.EqualFold(doc.PackageName, query) {
		return 100.0
	}

	score := 0.0
	if strings.Contains(strings.ToLower(doc.PackageName), query) {
		score += 50.0
	}

	name := strings.ToLower(doc.Name)
	if name == query {
		score += 80.0
	} else if strings.Contains(name, query) {
		score += 40.0
		// Bonus for word boundary match
		for _, word := range strings.Fields(name) {
			if strings.HasPrefix(word, query) {
				score += 10.0
				break
			}
		}
	}

	if doc.Summary != nil && strings.Contains(strings.ToLower(*doc.Summary), query) {
		score += 10.0
	}
	return score
}

func exactScore(query string, doc Document) float64 {
	if strings.EqualFold(doc.PackageName, query) {
		return 100.0
	}

	name := strings.ToLower(doc.Name)
	if name == query {
		return 90.0
	}
	for _, word := range strings.Fields(name) {
		if word == query {
			return 80.0
		}
	}
	return 0.0
}

func sortResults(results []Result, sortBy string) {
	switch strings.ToLower(sortBy) {
	case "name":
		sort.SliceStable(results, func(i, j int) bool {
			return strings.ToLower(results[i].Name) < strings.ToLower(results[j].Name)
		})
	case "package":
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].PackageName < results[j].PackageName
		})
	default:
		// Score descending, then name
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].Score == results[j].Score {
				return strings.ToLower(results[i].Name) < strings.ToLower(results[j].Name)
			}
			return results[i].Score > results[j].Score
		})
	}
}
