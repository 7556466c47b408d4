package request

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("plain path", func(t *testing.T) {
		req, err := Parse([]byte("GET /a/b HTTP/1.1\r\nHost: localhost\r\n\r\n"))
		require.NoError(t, err)
		require.Equal(t, GET, req.Method())
		require.Equal(t, "/a/b", req.Path())
		_, ok := req.QueryString()
		require.False(t, ok)
	})

	t.Run("query string", func(t *testing.T) {
		req, err := Parse([]byte("GET /search?name=abc&sort=1 HTTP/1.1\r\n"))
		require.NoError(t, err)
		require.Equal(t, "/search", req.Path())

		qs, ok := req.QueryString()
		require.True(t, ok)
		require.Equal(t, "name=abc&sort=1", qs.Raw())

		v, ok := qs.Get("name")
		require.True(t, ok)
		require.Equal(t, Single("abc"), v)

		v, ok = qs.Get("sort")
		require.True(t, ok)
		require.Equal(t, Single("1"), v)
	})

	t.Run("repeated key", func(t *testing.T) {
		req, err := Parse([]byte("GET /x?tag=a&tag=b HTTP/1.1\r\n"))
		require.NoError(t, err)

		qs, ok := req.QueryString()
		require.True(t, ok)
		v, ok := qs.Get("tag")
		require.True(t, ok)
		require.Equal(t, Multiple{"a", "b"}, v)
	})

	t.Run("key without value", func(t *testing.T) {
		req, err := Parse([]byte("GET /x?flag HTTP/1.1\r\n"))
		require.NoError(t, err)

		qs, _ := req.QueryString()
		v, ok := qs.Get("flag")
		require.True(t, ok)
		require.Equal(t, Single(""), v)
	})

	t.Run("trailing question mark", func(t *testing.T) {
		req, err := Parse([]byte("GET /x? HTTP/1.1\r\n"))
		require.NoError(t, err)
		require.Equal(t, "/x", req.Path())

		qs, ok := req.QueryString()
		require.True(t, ok)
		require.Equal(t, "", qs.Raw())
	})

	t.Run("every method", func(t *testing.T) {
		for _, m := range []Method{GET, POST, PUT, DELETE, HEAD, CONNECT, OPTIONS, TRACE, PATCH} {
			req, err := Parse([]byte(m.String() + " / HTTP/1.1\r\n"))
			require.NoError(t, err, m.String())
			require.Equal(t, m, req.Method())
		}
	})

	t.Run("carriage return ends a token", func(t *testing.T) {
		req, err := Parse([]byte("GET /x\rHTTP/1.1\r\n"))
		require.NoError(t, err)
		require.Equal(t, "/x", req.Path())
	})

	t.Run("multibyte path", func(t *testing.T) {
		req, err := Parse([]byte("GET /café?q=ñ HTTP/1.1\r\n"))
		require.NoError(t, err)
		require.Equal(t, "/café", req.Path())

		qs, _ := req.QueryString()
		v, _ := qs.First("q")
		require.Equal(t, "ñ", v)
	})

	t.Run("trailing zero bytes of a fixed buffer", func(t *testing.T) {
		buf := make([]byte, 64)
		copy(buf, "GET / HTTP/1.1\r\n")
		req, err := Parse(buf)
		require.NoError(t, err)
		require.Equal(t, "/", req.Path())
	})
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want ParseError
	}{
		{"missing protocol", []byte("GET /x\r\n"), InvalidRequest},
		{"no delimiter at all", []byte("GET"), InvalidRequest},
		{"protocol without CR", []byte("GET /x HTTP/1.1"), InvalidRequest},
		{"empty", []byte(""), InvalidRequest},
		{"wrong protocol", []byte("GET /x FTP/1.0\r\n"), InvalidProtocol},
		{"http 1.0", []byte("GET /x HTTP/1.0\r\n"), InvalidProtocol},
		{"lowercase protocol", []byte("GET /x http/1.1\r\n"), InvalidProtocol},
		{"unknown method", []byte("FOO /x HTTP/1.1\r\n"), InvalidMethod},
		{"lowercase method", []byte("get /x HTTP/1.1\r\n"), InvalidMethod},
		{"invalid utf-8", []byte("GET /\xff HTTP/1.1\r\n"), InvalidEncoding},
		{"invalid utf-8 before structure", []byte{0xc3, 0x28}, InvalidEncoding},
		{"protocol checked before method", []byte("FOO /x FTP/1.0\r\n"), InvalidProtocol},
		{"structure checked before method", []byte("FOO /x\r\n"), InvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Parse(tt.raw)
			require.Nil(t, req)
			require.ErrorIs(t, err, tt.want)

			var perr ParseError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, tt.want, perr)
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	inputs := []string{
		"GET /search?name=abc&sort=1&name=x HTTP/1.1\r\n",
		"POST /x HTTP/1.1\r\n",
		"FOO /x HTTP/1.1\r\n",
		"GET /x\r\n",
	}

	for _, in := range inputs {
		buf := []byte(in)
		first, err1 := Parse(buf)
		second, err2 := Parse(buf)

		require.Equal(t, err1, err2)
		if err1 != nil {
			continue
		}
		require.Equal(t, first.Method(), second.Method())
		require.Equal(t, first.Path(), second.Path())

		q1, ok1 := first.QueryString()
		q2, ok2 := second.QueryString()
		require.Equal(t, ok1, ok2)
		if ok1 {
			require.Equal(t, q1.Keys(), q2.Keys())
			for _, k := range q1.Keys() {
				v1, _ := q1.Get(k)
				v2, _ := q2.Get(k)
				require.Equal(t, v1, v2)
			}
		}
	}
}

func TestParse_PathNeverContainsQuestionMark(t *testing.T) {
	paths := []string{"/?", "/a?b", "/a?b?c", "?", "/a/b?c=d&e=f?g", "/??"}

	for _, p := range paths {
		req, err := Parse([]byte("GET " + p + " HTTP/1.1\r\n"))
		require.NoError(t, err)
		require.NotContains(t, req.Path(), "?")

		qs, ok := req.QueryString()
		require.True(t, ok)
		require.Equal(t, p[strings.IndexByte(p, '?')+1:], qs.Raw())
	}
}

func TestParse_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, err := Parse([]byte("GET /x?a=1&a=2 HTTP/1.1\r\n"))
			if !assert.NoError(t, err) {
				return
			}
			qs, _ := req.QueryString()
			assert.Equal(t, []string{"1", "2"}, qs.All("a"))
		}()
	}
	wg.Wait()
}

func TestRequest_Clone(t *testing.T) {
	buf := []byte("GET /search?name=abc HTTP/1.1\r\n")
	req, err := Parse(buf)
	require.NoError(t, err)

	c := req.Clone()
	for i := range buf {
		buf[i] = 'z'
	}

	require.Equal(t, GET, c.Method())
	require.Equal(t, "/search", c.Path())
	qs, ok := c.QueryString()
	require.True(t, ok)
	v, ok := qs.First("name")
	require.True(t, ok)
	require.Equal(t, "abc", v)

	require.Equal(t, "zzzzzzz", req.Path())
}

func TestParseError_Messages(t *testing.T) {
	require.Equal(t, "Invalid Request", InvalidRequest.Error())
	require.Equal(t, "Invalid Encoding", InvalidEncoding.Error())
	require.Equal(t, "Invalid Protocol", InvalidProtocol.Error())
	require.Equal(t, "Invalid Method", InvalidMethod.Error())
	require.Equal(t, "invalid_method", InvalidMethod.Label())
}

func TestParseErrorFrom(t *testing.T) {
	require.Equal(t, InvalidMethod, parseErrorFrom(&MethodError{Token: "FOO"}))
	require.Equal(t, InvalidEncoding, parseErrorFrom(errInvalidUTF8))
	require.Equal(t, InvalidProtocol, parseErrorFrom(InvalidProtocol))
}
