// Package value implements the closed set of shapes that index metadata and
// normalized records are made of.
//
// A Value is one of Null, String, Number, Bool, Date, List or *Object. The
// interface is sealed, so a type switch over those cases is exhaustive and
// anything else (in practice only a nil interface) is a contract violation.
package value

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies the concrete shape of a Value
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindDate
	KindList
	KindObject
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a node of a metadata tree
type Value interface {
	Kind() Kind
	sealed()
}

// Null is the absent value
type Null struct{}

// String is a text scalar
type String string

// Number is a decimal literal as it appeared in the source document.
// Keeping the literal avoids float rounding of large version codes.
type Number string

// Bool is a boolean scalar
type Bool bool

// Date is a calendar date, always in UTC
type Date time.Time

// List is an ordered sequence of values
type List []Value

// Nil is the shared Null value
var Nil Value = Null{}

func (Null) Kind() Kind    { return KindNull }
func (String) Kind() Kind  { return KindString }
func (Number) Kind() Kind  { return KindNumber }
func (Bool) Kind() Kind    { return KindBool }
func (Date) Kind() Kind    { return KindDate }
func (List) Kind() Kind    { return KindList }
func (*Object) Kind() Kind { return KindObject }

func (Null) sealed()    {}
func (String) sealed()  {}
func (Number) sealed()  {}
func (Bool) sealed()    {}
func (Date) sealed()    {}
func (List) sealed()    {}
func (*Object) sealed() {}

// Int returns the Number for an integer
func Int(i int64) Number {
	return Number(strconv.FormatInt(i, 10))
}

// Int64 parses the number as an integer. Literals with a fractional part or
// exponent are rejected unless they denote a whole number.
func (n Number) Int64() (int64, error) {
	s := string(n)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, strconv.ErrSyntax
	}
	return int64(f), nil
}

// Float64 parses the number as a float
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// NewDate returns the UTC calendar date containing t
func NewDate(t time.Time) Date {
	u := t.UTC()
	return Date(time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC))
}

// DateFromMillis converts epoch milliseconds to a calendar date by
// integer-dividing to Unix seconds.
func DateFromMillis(ms int64) Date {
	return NewDate(time.Unix(ms/1000, 0))
}

// Time returns the date as a time.Time at midnight UTC
func (d Date) Time() time.Time {
	return time.Time(d)
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return time.Time(d).Format("2006-01-02")
}

// Strings builds a List of String values
func Strings(ss []string) List {
	out := make(List, len(ss))
	for i, s := range ss {
		out[i] = String(s)
	}
	return out
}

// OptString returns Null for a nil pointer
func OptString(s *string) Value {
	if s == nil {
		return Nil
	}
	return String(*s)
}

// OptInt returns Null for a nil pointer
func OptInt(i *int64) Value {
	if i == nil {
		return Nil
	}
	return Int(*i)
}

// OptStrings returns Null for a nil slice
func OptStrings(ss []string) Value {
	if ss == nil {
		return Nil
	}
	return Strings(ss)
}

// IsNull reports whether v is absent. A nil interface counts as absent.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// Text returns the textual form of a String or Number
func Text(v Value) (string, bool) {
	switch t := v.(type) {
	case String:
		return string(t), true
	case Number:
		return string(t), true
	default:
		return "", false
	}
}

// StringList returns the String elements of a List, skipping anything else
func StringList(v Value) ([]string, bool) {
	l, ok := v.(List)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		if s, ok := Text(item); ok {
			out = append(out, s)
		}
	}
	return out, true
}

// Describe returns a short human readable description of v for error
// messages.
func Describe(v Value) string {
	if v == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(v.Kind().String())
	if s, ok := Text(v); ok {
		if len(s) > 32 {
			s = s[:32] + "..."
		}
		b.WriteString("(" + strconv.Quote(s) + ")")
	}
	return b.String()
}
