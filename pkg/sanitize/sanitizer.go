package sanitize

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultSiteURL is the site links are rewritten against
	DefaultSiteURL = "https://f-droid.org"
	// DefaultLinkScheme is the shorthand scheme for package links
	DefaultLinkScheme = "fdroid.app"
)

// Config holds the sanitizer settings
type Config struct {
	SiteURL             string
	LinkScheme          string
	AllowedElements     []string
	DropContentElements []string
}

// Sanitizer renders descriptions into safe HTML fragments
type Sanitizer struct {
	links    *LinkRewriter
	scrubber *Scrubber
}

// New creates a sanitizer. Empty fields take their defaults.
func New(cfg Config) (*Sanitizer, error) {
	siteURL := strings.TrimRight(cfg.SiteURL, "/")
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}
	scheme := cfg.LinkScheme
	if scheme == "" {
		scheme = DefaultLinkScheme
	}

	u, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid site URL %q: %w", siteURL, err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("site URL %q has no host", siteURL)
	}

	return &Sanitizer{
		links: NewLinkRewriter(scheme, siteURL),
		scrubber: NewScrubber(Policy{
			AllowedElements:     cfg.AllowedElements,
			DropContentElements: cfg.DropContentElements,
			SiteHost:            u.Hostname(),
		}),
	}, nil
}

// Default returns a sanitizer for f-droid.org
func Default() *Sanitizer {
	s, err := New(Config{})
	if err != nil {
		panic(err)
	}
	return s
}

// Description rewrites package links, scrubs the result and turns line
// breaks into <br />. Used for description and whats_new.
func (s *Sanitizer) Description(text string) string {
	return LineBreaksToHTML(s.scrubber.Scrub(s.links.Rewrite(text)))
}

// Scrub runs only the safe-list pass
func (s *Sanitizer) Scrub(fragment string) string {
	return s.scrubber.Scrub(fragment)
}

// IsExternal reports whether href leaves the configured site
func (s *Sanitizer) IsExternal(href string) bool {
	return s.scrubber.IsExternal(href)
}
