package response

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/valyala/bytebufferpool"

	"tinyserver/internal/headers"
)

type WriterState int

const (
	StateInitialized WriterState = iota
	StateStatusWritten
	StateHeadersWritten
	StateBodyWritten
)

var ErrStateOrder = errors.New("response written out of order")

type StatusCode int

const (
	StatusOK                  StatusCode = 200
	StatusBadRequest          StatusCode = 400
	StatusNotFound            StatusCode = 404
	StatusMethodNotAllowed    StatusCode = 405
	StatusInternalServerError StatusCode = 500
)

func (s StatusCode) ReasonPhrase() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusBadRequest:
		return "Bad Request"
	case StatusNotFound:
		return "Not Found"
	case StatusMethodNotAllowed:
		return "Method Not Allowed"
	case StatusInternalServerError:
		return "Internal Server Error"
	default:
		return ""
	}
}

// Response is a complete reply: status, extra headers and an optional body.
// A nil Body sends no content.
type Response struct {
	StatusCode StatusCode
	Headers    headers.Headers
	Body       []byte
}

func New(statusCode StatusCode, body []byte) *Response {
	return &Response{
		StatusCode: statusCode,
		Headers:    headers.NewHeaders(),
		Body:       body,
	}
}

// Text builds a plain text response.
func Text(statusCode StatusCode, body string) *Response {
	r := New(statusCode, []byte(body))
	r.Headers.Set("content-type", "text/plain; charset=utf-8")
	return r
}

// Send serializes the response and writes it to w in a single Write.
func (r *Response) Send(w io.Writer) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	rw := NewWriter(buf)
	if err := rw.WriteStatusLine(r.StatusCode); err != nil {
		return err
	}

	h := GetDefaultHeaders(len(r.Body))
	if len(r.Body) == 0 {
		h.Del("content-type")
	}
	for k, v := range r.Headers {
		h.Set(k, v)
	}
	if err := rw.WriteHeaders(h); err != nil {
		return err
	}

	if _, err := rw.WriteBody(r.Body); err != nil {
		return err
	}

	if _, err := w.Write(buf.B); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}
	return nil
}

type Writer struct {
	w     io.Writer
	state WriterState
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:     w,
		state: StateInitialized,
	}
}

func (w *Writer) WriteStatusLine(statusCode StatusCode) error {
	if w.state != StateInitialized {
		return fmt.Errorf("%w: status line already written", ErrStateOrder)
	}

	statusLine := fmt.Sprintf("HTTP/1.1 %d %s\r\n", statusCode, statusCode.ReasonPhrase())
	if _, err := io.WriteString(w.w, statusLine); err != nil {
		return err
	}

	w.state = StateStatusWritten
	return nil
}

// GetDefaultHeaders returns the fields every response carries.
// Connections are never kept alive.
func GetDefaultHeaders(contentLen int) headers.Headers {
	h := headers.NewHeaders()
	h.Set("content-length", strconv.Itoa(contentLen))
	h.Set("connection", "close")
	h.Set("content-type", "text/plain")

	return h
}

func (w *Writer) WriteHeaders(h headers.Headers) error {
	if w.state != StateStatusWritten {
		return fmt.Errorf("%w: status line not written or headers already written", ErrStateOrder)
	}

	if _, err := h.WriteTo(w.w); err != nil {
		return err
	}
	if _, err := io.WriteString(w.w, "\r\n"); err != nil {
		return err
	}

	w.state = StateHeadersWritten
	return nil
}

func (w *Writer) WriteBody(p []byte) (int, error) {
	if w.state != StateHeadersWritten {
		return 0, fmt.Errorf("%w: headers not written or body already written", ErrStateOrder)
	}

	n, err := w.w.Write(p)
	if err != nil {
		return n, err
	}

	w.state = StateBodyWritten
	return n, nil
}
