package value

// Object is a string-keyed map that remembers insertion order. Order matters
// twice in this system: locale keys keep document order so that fallback
// ties are broken deterministically, and records serialize with a stable
// field order.
type Object struct {
	keys   []string
	fields map[string]Value
}

// NewObject creates an empty object
func NewObject() *Object {
	return &Object{fields: make(map[string]Value)}
}

// Set stores v under key. Re-setting an existing key keeps its position.
func (o *Object) Set(key string, v Value) *Object {
	if v == nil {
		v = Nil
	}
	if _, exists := o.fields[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
	return o
}

// Get returns the value stored under key
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.fields[key]
	return v, ok
}

// Has reports whether key is present, whatever its value
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Keys returns the keys in insertion order
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of keys
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Object returns the nested object stored under key
func (o *Object) Object(key string) (*Object, bool) {
	v, ok := o.Get(key)
	if !ok {
		return nil, false
	}
	child, ok := v.(*Object)
	return child, ok && child != nil
}

// Text returns the String or Number stored under key
func (o *Object) Text(key string) (string, bool) {
	v, ok := o.Get(key)
	if !ok {
		return "", false
	}
	return Text(v)
}

// Clone returns a deep copy
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	out := &Object{
		keys:   make([]string, len(o.keys)),
		fields: make(map[string]Value, len(o.fields)),
	}
	copy(out.keys, o.keys)
	for k, v := range o.fields {
		out.fields[k] = Clone(v)
	}
	return out
}

// Clone returns a deep copy of v
func Clone(v Value) Value {
	switch t := v.(type) {
	case List:
		out := make(List, len(t))
		for i, item := range t {
			out[i] = Clone(item)
		}
		return out
	case *Object:
		return t.Clone()
	default:
		return v
	}
}
