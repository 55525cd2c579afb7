//go:build !windows

package i18n

import (
	"os"
	"strings"
)

// systemLocales reads the GNU LANGUAGE priority list, e.g. "de_AT:de:en".
// It is consulted only when none of the usual locale variables is set.
func systemLocales() []string {
	var locales []string
	for _, l := range strings.Split(os.Getenv("LANGUAGE"), ":") {
		if l = strings.TrimSpace(l); l != "" {
			locales = append(locales, l)
		}
	}
	return locales
}
