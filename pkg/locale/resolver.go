// Package locale ranks the locales an index record is localized in against
// a desired locale, and looks up localized fields in that order.
package locale

import (
	"sort"
	"strings"
)

// English is the language that is always an eligible fallback
const English = "en"

// AmericanEnglish is preferred over every other English variant
const AmericanEnglish = "en-US"

// Goodness tiers, lower is better
const (
	rankExact = iota + 1
	rankAlias
	rankLanguage
	rankAmericanEnglish
	rankEnglish
	rankEnglishRegion
)

// Split splits a tag such as "en-US", "pt_BR" or "zh_Hant_TW" into its
// language and first region/script part. Both '-' and '_' separate.
func Split(tag string) (lang, region string) {
	i := strings.IndexAny(tag, "-_")
	if i < 0 {
		return tag, ""
	}
	lang = tag[:i]
	region = tag[i+1:]
	if j := strings.IndexAny(region, "-_"); j >= 0 {
		region = region[:j]
	}
	return lang, region
}

// Aliases maps a language and a desired region (often a script subtag such
// as Hant) to the country regions that should rank right after an exact
// match. Lookups ignore case.
type Aliases map[string]map[string][]string

// DefaultAliases maps the script based Chinese variants onto the country
// based tags catalogs actually publish.
var DefaultAliases = Aliases{
	"zh": {
		"Hant": {"TW", "HK", "MO"},
		"Hans": {"CN", "SG"},
	},
}

// Regions returns the alias regions for (lang, desiredRegion)
func (a Aliases) Regions(lang, desiredRegion string) []string {
	if desiredRegion == "" {
		return nil
	}
	for l, byRegion := range a {
		if !strings.EqualFold(l, lang) {
			continue
		}
		for r, regions := range byRegion {
			if strings.EqualFold(r, desiredRegion) {
				return regions
			}
		}
	}
	return nil
}

// Resolver ranks available locales for a desired locale
type Resolver struct {
	aliases Aliases
}

// NewResolver creates a resolver using the given alias table. A nil table
// disables the alias tier.
func NewResolver(aliases Aliases) *Resolver {
	return &Resolver{aliases: aliases}
}

var defaultResolver = NewResolver(DefaultAliases)

// Available ranks with DefaultAliases
func Available(desired string, keys []string) []string {
	return defaultResolver.Available(desired, keys)
}

// Available returns the subset of keys sharing the desired language or
// being English, ordered by goodness:
//
//  1. exact match with desired
//  2. same language, region listed as an alias of the desired region
//  3. same language
//  4. en-US
//  5. en
//  6. any other en-* tag
//
// The sort is stable, so ties keep the order of keys.
func (r *Resolver) Available(desired string, keys []string) []string {
	desiredLang, desiredRegion := Split(desired)
	aliasRegions := r.aliases.Regions(desiredLang, desiredRegion)

	type ranked struct {
		tag  string
		rank int
	}

	candidates := make([]ranked, 0, len(keys))
	for _, tag := range keys {
		if tag == "" {
			continue
		}
		lang, region := Split(tag)
		if lang != desiredLang && lang != English {
			continue
		}
		candidates = append(candidates, ranked{
			tag:  tag,
			rank: goodness(tag, lang, region, desired, desiredLang, aliasRegions),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].rank < candidates[j].rank
	})

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.tag
	}
	return out
}

func goodness(tag, lang, region, desired, desiredLang string, aliasRegions []string) int {
	switch {
	case tag == desired:
		return rankExact
	case lang == desiredLang && containsFold(aliasRegions, region):
		return rankAlias
	case lang == desiredLang:
		return rankLanguage
	case tag == AmericanEnglish:
		return rankAmericanEnglish
	case lang == English && region == "":
		return rankEnglish
	default:
		return rankEnglishRegion
	}
}

func containsFold(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

// IsLocalized reports which ranked locale serves the desired one: an exact
// match, else the bare language, else any tag starting with the language.
// It returns false when no ranked locale shares the desired language, so
// callers can tell a translation from a fallback.
func IsLocalized(desired string, ranked []string) (string, bool) {
	if desired == "" || len(ranked) == 0 {
		return "", false
	}
	for _, l := range ranked {
		if l == desired {
			return l, true
		}
	}
	lang, _ := Split(desired)
	for _, l := range ranked {
		if l == lang {
			return l, true
		}
	}
	for _, l := range ranked {
		if strings.HasPrefix(l, lang) {
			return l, true
		}
	}
	return "", false
}
