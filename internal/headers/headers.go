package headers

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

const (
	crlf = "\r\n"
)

var ErrInvalidHeaderName = errors.New("invalid header name")

// Headers holds response header fields keyed by lowercase name.
type Headers map[string]string

func NewHeaders() Headers {
	return make(Headers)
}

func (h Headers) Get(key string) string {
	value, ok := h[strings.ToLower(key)]
	if !ok {
		return ""
	}

	return value
}

func (h Headers) Set(key, value string) {
	h[strings.ToLower(key)] = value
}

// Add appends value to an existing field, comma separated.
func (h Headers) Add(key, value string) {
	key = strings.ToLower(key)
	if existingValue, ok := h[key]; ok {
		h[key] = fmt.Sprintf("%s, %s", existingValue, value)
		return
	}

	h[key] = value
}

func (h Headers) Del(key string) {
	delete(h, strings.ToLower(key))
}

// Keys returns the field names in sorted order.
func (h Headers) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// WriteTo writes every field as "name: value\r\n", sorted by name.
// It does not write the blank line that ends the header block.
func (h Headers) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, k := range h.Keys() {
		if !validateHeaderKey(k) {
			return total, fmt.Errorf("%w: %q", ErrInvalidHeaderName, k)
		}

		n, err := io.WriteString(w, k+": "+sanitizeValue(h[k])+crlf)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

func validateHeaderKey(key string) bool {
	if key == "" {
		return false
	}

	for _, char := range key {
		isAlpha := (char >= 'a' && char <= 'z')
		isDigit := (char >= '0' && char <= '9')
		isSpecial := strings.ContainsRune("!#$%&'*+-.^_`|~", char)

		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}

// sanitizeValue drops CR, LF and other control bytes except tab.
func sanitizeValue(v string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, v)
}
