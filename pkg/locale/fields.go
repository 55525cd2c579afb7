package locale

import "github.com/huanfeng/fdroidmeta/pkg/value"

// Lookup walks ranked and returns the first non-null value of field,
// together with the locale that supplied it.
func Lookup(ranked []string, localized *value.Object, field string) (value.Value, string, bool) {
	for _, l := range ranked {
		fields, ok := localized.Object(l)
		if !ok {
			continue
		}
		v, ok := fields.Get(field)
		if !ok || value.IsNull(v) {
			continue
		}
		return v, l, true
	}
	return nil, "", false
}

// Localized returns the first value of field across ranked locales
func Localized(ranked []string, localized *value.Object, field string) (value.Value, bool) {
	v, _, ok := Lookup(ranked, localized, field)
	return v, ok
}

// GraphicPath is Localized for a file name, prefixed with "<locale>/"
func GraphicPath(ranked []string, localized *value.Object, field string) (string, bool) {
	v, l, ok := Lookup(ranked, localized, field)
	if !ok {
		return "", false
	}
	name, ok := value.Text(v)
	if !ok {
		return "", false
	}
	return l + "/" + name, true
}

// GraphicListPaths is Localized for a list of file names, each prefixed
// with "<locale>/<field>/".
func GraphicListPaths(ranked []string, localized *value.Object, field string) ([]string, bool) {
	v, l, ok := Lookup(ranked, localized, field)
	if !ok {
		return nil, false
	}
	names, ok := value.StringList(v)
	if !ok {
		return nil, false
	}
	prefix := l + "/" + field + "/"
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = prefix + name
	}
	return paths, true
}
