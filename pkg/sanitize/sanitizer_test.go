package sanitize

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestEscape(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;Tom &amp; Jerry&apos;s &quot;show&quot;&lt;/b&gt;",
		Escape(`<b>Tom & Jerry's "show"</b>`))
	assert.Equal(t, "plain", Escape("plain"))
	assert.Equal(t, "", Escape(""))
}

func TestEscapeRoundTrip(t *testing.T) {
	for _, in := range []string{
		"",
		"plain",
		`<b>Tom & Jerry's "show"</b>`,
		"&amp; already escaped",
		`&&&<<<>>>'''"""`,
		"nested &lt;tags&gt; & 'quotes'",
		"unicode ü 中文 & <tag>",
	} {
		out := Escape(in)
		assert.Equal(t, in, html.UnescapeString(out), "input %q", in)
		assert.NotContains(t, out, "<", "input %q", in)
		assert.NotContains(t, out, ">", "input %q", in)
		assert.NotContains(t, out, `"`, "input %q", in)
		assert.NotContains(t, out, "'", "input %q", in)
	}
}

func TestLineBreaksToHTML(t *testing.T) {
	in := "This\nis\na\n\nmulti-line\n\nstring\nhere"
	assert.Equal(t, "This<br />is<br />a<br /><br />multi-line<br /><br />string<br />here", LineBreaksToHTML(in))
	assert.Equal(t, "a<br />b<br />c", LineBreaksToHTML("a\r\nb\rc"))
}

func TestDescriptionLineBreakCount(t *testing.T) {
	s := Default()
	for _, in := range []string{
		"one line",
		"two\nlines",
		"blank\n\n\nlines\n",
		"mixed\r\nbreaks\rand\nmore",
	} {
		breaks := strings.Count(in, "\r\n") +
			strings.Count(strings.ReplaceAll(in, "\r\n", ""), "\r") +
			strings.Count(strings.ReplaceAll(in, "\r\n", ""), "\n")
		out := s.Description(in)
		assert.Equal(t, breaks, strings.Count(out, "<br />"), "input %q", in)
		assert.NotContains(t, out, "\n")
		assert.NotContains(t, out, "\r")
	}
}

func TestDescriptionSchemeLink(t *testing.T) {
	s := Default()
	assert.Equal(t,
		`<a href="/packages/com.example.app/"><tt>com.example.app</tt></a>:`,
		s.Description("fdroid.app:com.example.app:"))
}

func TestDescriptionSiteLink(t *testing.T) {
	s := Default()
	got := s.Description("See https://f-droid.org/packages/org.example.app/ now")
	assert.Equal(t,
		`See <a href="https://f-droid.org/packages/org.example.app/"><tt>org.example.app</tt></a> now`,
		got)
}

func TestDescriptionKeepsExistingHref(t *testing.T) {
	s := Default()
	in := `<a href="https://f-droid.org/packages/org.example.app/">app</a>`
	assert.Equal(t, in, s.Description(in))
}

func TestScrub(t *testing.T) {
	s := Default()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text",
			in:   "just text",
			want: "just text",
		},
		{
			name: "text is escaped",
			in:   "1 < 2 & 3",
			want: "1 &lt; 2 &amp; 3",
		},
		{
			name: "allowed elements lose attributes",
			in:   `<b class="x">bold</b> <em style="color:red">em</em>`,
			want: "<b>bold</b> <em>em</em>",
		},
		{
			name: "unknown elements lose only their tags",
			in:   "<p>para <span>inner</span></p><h1>head</h1>",
			want: "para innerhead",
		},
		{
			name: "lists survive",
			in:   "<ul><li>one</li><li>two</li></ul>",
			want: "<ul><li>one</li><li>two</li></ul>",
		},
		{
			name: "script tags removed but text kept",
			in:   "<script>alert(1)</script>ok",
			want: "alert(1)ok",
		},
		{
			name: "images dropped",
			in:   `before<img src="x.png">after`,
			want: "beforeafter",
		},
		{
			name: "svg dropped with content",
			in:   "a<svg><circle/><svg>x</svg></svg>b",
			want: "ab",
		},
		{
			name: "iframe dropped with content",
			in:   `x<iframe src="https://evil.example">fallback</iframe>y`,
			want: "xy",
		},
		{
			name: "external link",
			in:   `<a href="https://example.com/x" onclick="evil()">site</a>`,
			want: `<a href="https://example.com/x" rel="external nofollow noopener" target="_blank">site</a>`,
		},
		{
			name: "internal absolute link",
			in:   `<a href="https://f-droid.org/docs/" target="_top">docs</a>`,
			want: `<a href="https://f-droid.org/docs/">docs</a>`,
		},
		{
			name: "relative link",
			in:   `<a href="/packages/org.example/">pkg</a>`,
			want: `<a href="/packages/org.example/">pkg</a>`,
		},
		{
			name: "anchor without href",
			in:   `<a name="top">top</a> rest`,
			want: "top rest",
		},
		{
			name: "javascript href",
			in:   `<a href="javascript:alert(1)">click</a>`,
			want: "click",
		},
		{
			name: "unparseable href",
			in:   `<a href="http://[::1">host</a> rest`,
			want: "host rest",
		},
		{
			name: "href with inner whitespace",
			in:   `<a href="/a b">spaced</a>`,
			want: "spaced",
		},
		{
			name: "unsupported scheme",
			in:   `<a href="ftp://example.com/f">file</a>`,
			want: "file",
		},
		{
			name: "mailto link",
			in:   `<a href="mailto:dev@example.com">mail</a>`,
			want: `<a href="mailto:dev@example.com">mail</a>`,
		},
		{
			name: "self-closing internal anchor",
			in:   `a<a href="/x"/>b`,
			want: `a<a href="/x"></a>b`,
		},
		{
			name: "self-closing external anchor",
			in:   `a<a href="https://example.com/"/>b`,
			want: `a<a href="https://example.com/" rel="external nofollow noopener" target="_blank"></a>b`,
		},
		{
			name: "anchor nested in external link",
			in:   `<a href="https://example.com/">out<a href="/in" onclick="x()">in</a>tail</a>!`,
			want: `<a href="https://example.com/" rel="external nofollow noopener" target="_blank">outintail</a>!`,
		},
		{
			name: "external link content still scrubbed",
			in:   `<a href="https://example.com/"><b>x</b><img src="y.png"><span>z</span></a>`,
			want: `<a href="https://example.com/" rel="external nofollow noopener" target="_blank"><b>x</b>z</a>`,
		},
		{
			name: "comments dropped",
			in:   "a<!-- hidden -->b",
			want: "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Scrub(tt.in))
		})
	}
}

// assertSafeMarkup checks that out only holds safe-listed elements and
// that every anchor carries either href alone or href, rel and target.
func assertSafeMarkup(t *testing.T, out, in string) {
	t.Helper()
	allowed := make(map[string]bool, len(DefaultAllowedElements))
	for _, name := range DefaultAllowedElements {
		allowed[name] = true
	}

	z := html.NewTokenizer(strings.NewReader(out))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return
		}
		tok := z.Token()
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			assert.True(t, allowed[tok.Data], "element %q in %q from %q", tok.Data, out, in)
			keys := make([]string, 0, len(tok.Attr))
			for _, attr := range tok.Attr {
				keys = append(keys, attr.Key)
			}
			sort.Strings(keys)
			if tok.Data != "a" {
				assert.Empty(t, keys, "attributes on %q in %q", tok.Data, out)
				continue
			}
			if len(keys) == 1 {
				assert.Equal(t, []string{"href"}, keys, "anchor in %q from %q", out, in)
				continue
			}
			assert.Equal(t, []string{"href", "rel", "target"}, keys, "anchor in %q from %q", out, in)
			assert.Equal(t, ExternalLinkRel, attrOf(tok, "rel"))
			assert.Equal(t, "_blank", attrOf(tok, "target"))
		case html.CommentToken, html.DoctypeToken:
			assert.Fail(t, "markup kept", "%q in %q", tok.String(), out)
		}
	}
}

func attrOf(tok html.Token, key string) string {
	v, _ := attrValue(tok, key)
	return v
}

var hostileFragments = []string{
	`<script>alert(1)</script>text`,
	`<style>p{}</style><p class="x">para</p>`,
	`<a href="http://[::1">bad host</a>`,
	`<a href="ftp://example.com/">ftp</a>`,
	`<a href="javascript:alert(1)" rel="x" target="_top">js</a>`,
	`<a href="https://example.com/" rel="opener" target="_self" title="t">ext</a>`,
	`<a href="/local" rel="opener" target="_self">local</a>`,
	`<a href="https://example.com/"/><a href="/x"/>`,
	`<a href="https://example.com/">o<a href="https://evil.example/">i</a><script>x</script><span onclick="x">s</span></a>`,
	`<a href="https://example.com/"><a href="/x"><img src="y"></a></a>`,
	`<b onclick="x">b</b><i style="color:red">i</i><ul><li id="l">li</li></ul>`,
	`<svg><a href="https://example.com/">svg link</a></svg>after`,
	`<!-- comment --><!DOCTYPE html><table><tr><td>cell</td></tr></table>`,
	`<a>no href</a><a href="">empty href</a><a href="  ">blank href</a>`,
	`unclosed <b>bold <a href="https://example.com/">link`,
}

func TestScrubOutputIsSafe(t *testing.T) {
	s := Default()
	for _, in := range hostileFragments {
		assertSafeMarkup(t, s.Scrub(in), in)
	}
}

func TestDescriptionOutputIsSafe(t *testing.T) {
	s := Default()
	inputs := append([]string{
		"see fdroid.app:org.example.app\nand https://f-droid.org/packages/org.example.other/",
		"line one\r\nline two\n<a href=\"https://example.com/\">x</a>",
	}, hostileFragments...)
	for _, in := range inputs {
		out := s.Description(in)
		assertSafeMarkup(t, out, in)
		assert.NotContains(t, out, "\n")
	}
}

func TestScrubCustomPolicy(t *testing.T) {
	s, err := New(Config{
		SiteURL:             "https://apps.example.org/",
		AllowedElements:     []string{"b", "a"},
		DropContentElements: []string{"pre"},
	})
	require.NoError(t, err)

	assert.Equal(t, "<b>x</b>y", s.Scrub("<b>x</b><i>y</i><pre>code</pre>"))
	assert.False(t, s.IsExternal("https://apps.example.org/page"))
	assert.True(t, s.IsExternal("https://f-droid.org/"))
}

func TestIsExternal(t *testing.T) {
	s := Default()
	assert.False(t, s.IsExternal("/relative/path"))
	assert.False(t, s.IsExternal("#anchor"))
	assert.False(t, s.IsExternal("https://f-droid.org/en/"))
	assert.False(t, s.IsExternal("https://F-Droid.ORG/en/"))
	assert.True(t, s.IsExternal("https://github.com/org/repo"))
	assert.True(t, s.IsExternal("http://%zz"))
}

func TestNewRejectsBadSiteURL(t *testing.T) {
	_, err := New(Config{SiteURL: "not a url"})
	assert.Error(t, err)

	_, err = New(Config{SiteURL: "http://%zz"})
	assert.Error(t, err)
}

func TestLinkRewriterCustomScheme(t *testing.T) {
	r := NewLinkRewriter("market", "")
	assert.Equal(t,
		`get <a href="/packages/org.app/"><tt>org.app</tt></a>`,
		r.Rewrite("get market:org.app"))
	assert.Equal(t, "fdroid.app:org.app", r.Rewrite("fdroid.app:org.app"))
}
