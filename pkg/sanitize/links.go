package sanitize

import (
	"regexp"
	"strings"
)

// LinkRewriter turns package references in descriptions into anchors
type LinkRewriter struct {
	scheme *regexp.Regexp
	site   *regexp.Regexp
}

// NewLinkRewriter rewrites "<scheme>:<id>" references and absolute
// "<siteURL>/.../<id>/" links. An empty scheme or siteURL disables that
// rewrite.
func NewLinkRewriter(scheme, siteURL string) *LinkRewriter {
	r := &LinkRewriter{}
	if scheme != "" {
		r.scheme = regexp.MustCompile(regexp.QuoteMeta(scheme) + `:([a-zA-Z0-9._]+)`)
	}
	if site := strings.TrimRight(siteURL, "/"); site != "" {
		// The leading [^"] keeps links that are already an href value
		// untouched.
		r.site = regexp.MustCompile(`([^"])(` + regexp.QuoteMeta(site) +
			`/[^\s?#]+/)((?:[a-zA-Z_]+(?:\d*[a-zA-Z_]*)*)(?:\.[a-zA-Z_]+(?:\d*[a-zA-Z_]*)*)*)/?`)
	}
	return r
}

// Rewrite applies both rewrites
func (r *LinkRewriter) Rewrite(s string) string {
	if r.scheme != nil {
		s = r.scheme.ReplaceAllString(s, `<a href="/packages/${1}/"><tt>${1}</tt></a>`)
	}
	if r.site != nil {
		s = r.site.ReplaceAllString(s, `${1}<a href="${2}${3}/"><tt>${3}</tt></a>`)
	}
	return s
}
