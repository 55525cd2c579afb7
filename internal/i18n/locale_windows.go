//go:build windows

package i18n

import "golang.org/x/sys/windows"

// systemLocales lists the user's UI languages, then the system ones, then
// the user default locale, without repeats. The console rarely sets LANG.
func systemLocales() []string {
	seen := make(map[string]bool)
	var locales []string
	add := func(names ...string) {
		for _, name := range names {
			if name != "" && !seen[name] {
				seen[name] = true
				locales = append(locales, name)
			}
		}
	}

	if langs, err := windows.GetUserPreferredUILanguages(windows.MUI_LANGUAGE_NAME); err == nil {
		add(langs...)
	}
	if langs, err := windows.GetSystemPreferredUILanguages(windows.MUI_LANGUAGE_NAME); err == nil {
		add(langs...)
	}
	if name, err := windows.GetUserDefaultLocaleName(); err == nil {
		add(name)
	}
	return locales
}
