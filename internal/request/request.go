package request

import (
	"strings"
	"unicode/utf8"

	"github.com/indigo-web/utils/uf"
)

const protocol = "HTTP/1.1"

// Request is the parsed request line.
//
// A Request returned by Parse borrows its strings from the buffer it was
// parsed from. The buffer must stay untouched for as long as the Request,
// or its QueryString, is in use. Use Clone to keep a request past that.
type Request struct {
	path        string
	queryString *QueryString
	method      Method
}

// Parse reads the request line at the start of buf, e.g.
//
//	GET /search?name=abc&sort=1 HTTP/1.1\r\n
//
// Headers and body after the line are ignored. On failure the returned
// error is a ParseError for the first step that failed: encoding, then
// line structure, then protocol, then method.
func Parse(buf []byte) (*Request, error) {
	if !utf8.Valid(buf) {
		return nil, parseErrorFrom(errInvalidUTF8)
	}

	text := uf.B2S(buf)

	method, text, ok := nextWord(text)
	if !ok {
		return nil, InvalidRequest
	}

	path, text, ok := nextWord(text)
	if !ok {
		return nil, InvalidRequest
	}

	proto, _, ok := nextWord(text)
	if !ok {
		return nil, InvalidRequest
	}

	if proto != protocol {
		return nil, InvalidProtocol
	}

	m, err := ParseMethod(method)
	if err != nil {
		return nil, parseErrorFrom(err)
	}

	req := &Request{path: path, method: m}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		req.queryString = NewQueryString(path[i+1:])
		req.path = path[:i]
	}

	return req, nil
}

// nextWord splits s at the first space or carriage return.
func nextWord(s string) (word, rest string, ok bool) {
	i := strings.IndexAny(s, " \r")
	if i == -1 {
		return "", "", false
	}

	return s[:i], s[i+1:], true
}

func (r *Request) Path() string {
	return r.path
}

func (r *Request) Method() Method {
	return r.method
}

// QueryString reports the parsed query, if the path had a '?'.
func (r *Request) QueryString() (*QueryString, bool) {
	return r.queryString, r.queryString != nil
}

// Clone returns a copy that owns its memory and no longer depends on the
// parse buffer.
func (r *Request) Clone() *Request {
	c := &Request{
		path:   strings.Clone(r.path),
		method: r.method,
	}
	if r.queryString != nil {
		c.queryString = NewQueryString(strings.Clone(r.queryString.raw))
	}

	return c
}
