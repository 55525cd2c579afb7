// Package i18n localizes CLI messages. Catalogs for English and Chinese are
// embedded; the record content itself is never translated here.
package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// LangEnv selects the UI language ahead of the POSIX locale variables
const LangEnv = "FDROIDMETA_LANG"

//go:embed locales/*.toml
var localeFS embed.FS

var catalogs = []string{
	"locales/active.en.toml",
	"locales/active.zh.toml",
}

var supported = []language.Tag{
	language.English,
	language.Chinese,
}

var (
	mu              sync.RWMutex
	localizer       *goi18n.Localizer
	currentLanguage = language.English
)

// Init loads the catalogs and chooses the UI language from, in order:
//  1. langOverride (from --lang)
//  2. FDROIDMETA_LANG
//  3. LC_ALL, LC_MESSAGES, LANG
//  4. the platform's preferred UI languages
//
// English is used when nothing matches.
func Init(langOverride string) error {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range catalogs {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}

	chosen := Match(candidates(langOverride))

	mu.Lock()
	localizer = goi18n.NewLocalizer(bundle, chosen.String(), language.English.String())
	currentLanguage = chosen
	mu.Unlock()
	return nil
}

// T translates a message by ID with optional template data. It falls back
// to the message ID so output is never empty.
func T(id string, data ...map[string]interface{}) string {
	var templateData map[string]interface{}
	if len(data) > 0 {
		templateData = data[0]
	}

	mu.RLock()
	l := localizer
	mu.RUnlock()

	if l == nil {
		if err := Init(""); err != nil {
			fmt.Fprintf(os.Stderr, "i18n init failed: %v\n", err)
			return id
		}
		mu.RLock()
		l = localizer
		mu.RUnlock()
	}

	msg, err := l.Localize(&goi18n.LocalizeConfig{
		MessageID:      id,
		TemplateData:   templateData,
		PluralCount:    pluralCount(templateData),
		DefaultMessage: &goi18n.Message{ID: id, Other: id},
	})
	if err != nil || msg == "" {
		return id
	}
	return msg
}

// CurrentLanguage returns the chosen language tag
func CurrentLanguage() language.Tag {
	mu.RLock()
	defer mu.RUnlock()
	return currentLanguage
}

// Match picks the first candidate whose language is supported. Candidates
// may be POSIX locale strings such as zh_CN.UTF-8. Scripts and regions are
// ignored, so zh-TW selects the Chinese catalog.
func Match(cands []string) language.Tag {
	for _, cand := range cands {
		tag, err := language.Parse(normalize(cand))
		if err != nil {
			continue
		}
		base, _ := tag.Base()
		for _, s := range supported {
			if sb, _ := s.Base(); sb == base {
				return s
			}
		}
	}
	return language.English
}

func candidates(override string) []string {
	var cands []string
	if override = strings.TrimSpace(override); override != "" {
		cands = append(cands, override)
	}
	for _, key := range []string{LangEnv, "LC_ALL", "LC_MESSAGES", "LANG"} {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			cands = append(cands, val)
		}
	}
	if len(cands) == 0 {
		cands = append(cands, systemLocales()...)
	}
	return cands
}

// normalize turns zh_CN.UTF-8 into zh-CN
func normalize(locale string) string {
	clean := strings.TrimSpace(locale)
	if i := strings.IndexAny(clean, ".@"); i >= 0 {
		clean = clean[:i]
	}
	if clean == "C" || clean == "POSIX" {
		return "en"
	}
	return strings.ReplaceAll(clean, "_", "-")
}

func pluralCount(data map[string]interface{}) interface{} {
	for _, key := range []string{"Count", "count", "Total", "total"} {
		if val, ok := data[key]; ok {
			return val
		}
	}
	return nil
}
