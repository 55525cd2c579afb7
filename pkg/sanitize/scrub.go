package sanitize

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// DefaultAllowedElements is the scrub-mode safe-list
var DefaultAllowedElements = []string{
	"a", "b", "big", "blockquote", "br", "cite", "em", "i", "small",
	"strike", "strong", "sub", "sup", "tt", "u", "li", "ol", "ul",
}

// DefaultDropContentElements are removed together with everything inside
// them. Other elements outside the safe-list lose only their tags.
var DefaultDropContentElements = []string{
	"img", "video", "audio", "svg", "picture", "canvas", "object", "embed", "iframe", "math",
}

// ExternalLinkRel is added to links leaving the site
const ExternalLinkRel = "external nofollow noopener"

// linkSchemes are the href schemes an anchor may carry. Relative hrefs are
// always allowed.
var linkSchemes = []string{"http", "https", "mailto"}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Policy configures a Scrubber
type Policy struct {
	AllowedElements     []string
	DropContentElements []string
	// SiteHost is the host of the site records are rendered on. Links to
	// it, and links without a host, are internal.
	SiteHost string
}

// Scrubber rewrites an HTML fragment against a safe-list
type Scrubber struct {
	allowed     map[string]bool
	dropContent map[string]bool
	siteHost    string
	policy      *bluemonday.Policy
}

// NewScrubber builds a scrubber. Empty element lists fall back to the
// defaults.
func NewScrubber(p Policy) *Scrubber {
	allowedList := p.AllowedElements
	if len(allowedList) == 0 {
		allowedList = DefaultAllowedElements
	}
	dropList := p.DropContentElements
	if dropList == nil {
		dropList = DefaultDropContentElements
	}

	s := &Scrubber{
		allowed:     make(map[string]bool, len(allowedList)),
		dropContent: make(map[string]bool, len(dropList)),
		siteHost:    strings.ToLower(p.SiteHost),
	}
	for _, name := range allowedList {
		s.allowed[strings.ToLower(name)] = true
	}
	for _, name := range dropList {
		s.dropContent[strings.ToLower(name)] = true
	}
	s.policy = newEnforcementPolicy(s.allowed)
	return s
}

// newEnforcementPolicy mirrors the safe-list as a bluemonday policy. It runs
// over the walker output, so the subtree of an external link, which the
// walker copies verbatim, is still held to the safe-list.
func newEnforcementPolicy(allowed map[string]bool) *bluemonday.Policy {
	policy := bluemonday.NewPolicy()
	policy.RequireParseableURLs(true)
	policy.AllowURLSchemes(linkSchemes...)
	policy.AllowRelativeURLs(true)

	var bare []string
	for name := range allowed {
		if name != "a" {
			bare = append(bare, name)
		}
	}
	if len(bare) > 0 {
		policy.AllowElements(bare...)
		policy.AllowNoAttrs().OnElements(bare...)
	}
	if allowed["a"] {
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowAttrs("rel").Matching(regexp.MustCompile(`^` + ExternalLinkRel + `$`)).OnElements("a")
		policy.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	}
	return policy
}

// Scrub returns the fragment with every element outside the safe-list
// removed. Text content survives except inside drop-content elements.
// Anchors keep only href; anchors leaving the site additionally get
// rel="external nofollow noopener" target="_blank".
func (s *Scrubber) Scrub(fragment string) string {
	return s.policy.Sanitize(s.walk(fragment))
}

func (s *Scrubber) walk(fragment string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))

	var (
		dropping    string
		dropDepth   int
		passthrough int
		// anchors records, per open internal <a>, whether its start tag was
		// written, so the matching end tag is written or dropped alike.
		anchors []bool
	)

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		tok := z.Token()

		// Inside an external link: copy until its closing tag. Nested
		// anchors are dropped, their text kept.
		if passthrough > 0 {
			if tok.Data == "a" {
				switch tt {
				case html.StartTagToken:
					passthrough++
				case html.EndTagToken:
					passthrough--
					if passthrough == 0 {
						b.WriteString(tok.String())
					}
				}
				continue
			}
			b.WriteString(tok.String())
			continue
		}

		if dropping != "" {
			if tok.Data == dropping {
				switch tt {
				case html.StartTagToken:
					dropDepth++
				case html.EndTagToken:
					dropDepth--
					if dropDepth == 0 {
						dropping = ""
					}
				}
			}
			continue
		}

		switch tt {
		case html.TextToken:
			b.WriteString(tok.String())

		case html.StartTagToken, html.SelfClosingTagToken:
			name := tok.Data
			if s.dropContent[name] {
				if tt == html.StartTagToken && !voidElements[name] {
					dropping = name
					dropDepth = 1
				}
				continue
			}
			if !s.allowed[name] {
				continue
			}
			if name == "a" {
				written, external := s.writeAnchor(&b, tok)
				if tt == html.SelfClosingTagToken {
					if written {
						b.WriteString("</a>")
					}
					continue
				}
				if external {
					passthrough = 1
				} else {
					anchors = append(anchors, written)
				}
				continue
			}
			tok.Attr = nil
			b.WriteString(tok.String())

		case html.EndTagToken:
			if !s.allowed[tok.Data] {
				continue
			}
			if tok.Data == "a" {
				if len(anchors) == 0 {
					continue
				}
				written := anchors[len(anchors)-1]
				anchors = anchors[:len(anchors)-1]
				if !written {
					continue
				}
			}
			b.WriteString(tok.String())
		}
		// Comments and doctypes are dropped
	}

	return b.String()
}

// writeAnchor writes the start tag of an allowed <a>. Anchors without a
// usable href are dropped.
func (s *Scrubber) writeAnchor(b *strings.Builder, tok html.Token) (written, external bool) {
	href, ok := attrValue(tok, "href")
	if !ok || !acceptableHref(href) {
		return false, false
	}

	tok.Type = html.StartTagToken
	tok.Attr = []html.Attribute{{Key: "href", Val: href}}
	external = s.IsExternal(href)
	if external {
		tok.Attr = append(tok.Attr,
			html.Attribute{Key: "rel", Val: ExternalLinkRel},
			html.Attribute{Key: "target", Val: "_blank"},
		)
	}
	b.WriteString(tok.String())
	return true, external
}

// IsExternal reports whether href leaves the site. Unparsable URLs count
// as external.
func (s *Scrubber) IsExternal(href string) bool {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return true
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	return !strings.EqualFold(host, s.siteHost)
}

// acceptableHref reports whether the enforcement policy keeps href. The
// rules match bluemonday's parseable URL check so the walker never writes
// an anchor that would lose its href later.
func acceptableHref(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" || strings.ContainsAny(href, " \t\n") {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return u.String() != ""
	}
	for _, scheme := range linkSchemes {
		if u.Scheme == scheme {
			return true
		}
	}
	return false
}

func attrValue(tok html.Token, key string) (string, bool) {
	for _, attr := range tok.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}
