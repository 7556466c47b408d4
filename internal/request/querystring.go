package request

import (
	"strings"
	"sync"
)

// Value is the value bound to a query parameter: either Single or Multiple.
// The set is closed; match it with a type switch.
type Value interface {
	isValue()
}

// Single is the value of a key that appeared once.
type Single string

// Multiple holds the values of a repeated key in encounter order.
type Multiple []string

func (Single) isValue()   {}
func (Multiple) isValue() {}

// QueryString is a view over the text after '?' in a request path.
// It is parsed on first access. Keys and values are substrings of the
// original text; nothing is decoded or copied.
type QueryString struct {
	raw string

	once   sync.Once
	values map[string]Value
	keys   []string
}

// NewQueryString wraps raw, the text after '?' without the '?' itself.
func NewQueryString(raw string) *QueryString {
	return &QueryString{raw: raw}
}

func (q *QueryString) parse() {
	q.once.Do(func() {
		q.values = make(map[string]Value)

		rest := q.raw
		for {
			pair, tail, more := strings.Cut(rest, "&")
			key, val, _ := strings.Cut(pair, "=")
			q.add(key, val)

			if !more {
				break
			}
			rest = tail
		}
	})
}

func (q *QueryString) add(key, val string) {
	switch existing := q.values[key].(type) {
	case nil:
		q.values[key] = Single(val)
		q.keys = append(q.keys, key)
	case Single:
		q.values[key] = Multiple{string(existing), val}
	case Multiple:
		q.values[key] = append(existing, val)
	}
}

// Raw returns the unparsed query text.
func (q *QueryString) Raw() string {
	return q.raw
}

// Get looks key up by exact match.
func (q *QueryString) Get(key string) (Value, bool) {
	q.parse()
	v, ok := q.values[key]
	return v, ok
}

// First returns the first value recorded for key.
func (q *QueryString) First(key string) (string, bool) {
	switch v := q.lookup(key).(type) {
	case Single:
		return string(v), true
	case Multiple:
		return v[0], true
	default:
		return "", false
	}
}

// All returns every value recorded for key, or nil when key is absent.
func (q *QueryString) All(key string) []string {
	switch v := q.lookup(key).(type) {
	case Single:
		return []string{string(v)}
	case Multiple:
		return append([]string(nil), v...)
	default:
		return nil
	}
}

func (q *QueryString) lookup(key string) Value {
	v, _ := q.Get(key)
	return v
}

// Keys returns the distinct keys in the order they first appeared.
func (q *QueryString) Keys() []string {
	q.parse()
	return append([]string(nil), q.keys...)
}

func (q *QueryString) Len() int {
	q.parse()
	return len(q.values)
}
