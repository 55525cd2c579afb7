package sanitize

import (
	"errors"
	"fmt"

	"github.com/huanfeng/fdroidmeta/pkg/value"
)

// ErrUnsupportedShape is returned by Deep for a node outside the value
// model, which in practice is a nil interface.
var ErrUnsupportedShape = errors.New("unsupported value shape")

// SkipSet names top-level keys that Deep copies unchanged
type SkipSet map[string]struct{}

// NewSkipSet builds a SkipSet from keys
func NewSkipSet(keys ...string) SkipSet {
	s := make(SkipSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether key is skipped
func (s SkipSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Deep returns a copy of v with every String escaped. When v is an Object,
// its top-level keys listed in skip are copied as is. Skipping applies only
// at the top level, so a nested "description" is still escaped.
func Deep(v value.Value, skip SkipSet) (value.Value, error) {
	obj, ok := v.(*value.Object)
	if !ok || len(skip) == 0 {
		return deep(v)
	}

	out := value.NewObject()
	for _, key := range obj.Keys() {
		field, _ := obj.Get(key)
		if skip.Has(key) {
			out.Set(key, value.Clone(field))
			continue
		}
		clean, err := deep(field)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out.Set(key, clean)
	}
	return out, nil
}

func deep(v value.Value) (value.Value, error) {
	switch t := v.(type) {
	case value.String:
		return value.String(Escape(string(t))), nil
	case value.Null, value.Number, value.Bool, value.Date:
		return t, nil
	case value.List:
		out := make(value.List, len(t))
		for i, item := range t {
			clean, err := deep(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = clean
		}
		return out, nil
	case *value.Object:
		if t == nil {
			return nil, ErrUnsupportedShape
		}
		out := value.NewObject()
		for _, key := range t.Keys() {
			field, _ := t.Get(key)
			clean, err := deep(field)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			out.Set(key, clean)
		}
		return out, nil
	default:
		return nil, ErrUnsupportedShape
	}
}
