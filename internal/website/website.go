// Package website serves a small site from a directory on disk.
package website

import (
	"errors"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tinyserver/internal/obs"
	"tinyserver/internal/request"
	"tinyserver/internal/response"
)

// Handler serves GET and HEAD requests from PublicDir.
//
//	/       index.html
//	/hello  hello.html
//	/echo   the query parameters as plain text
//	other   the file at that path under PublicDir
type Handler struct {
	PublicDir string
	Logger    obs.Logger
}

func New(publicDir string, logger obs.Logger) *Handler {
	if logger == nil {
		logger = obs.NopLogger{}
	}
	return &Handler{PublicDir: publicDir, Logger: logger}
}

func (h *Handler) HandleRequest(req *request.Request) *response.Response {
	switch req.Method() {
	case request.GET:
		return h.get(req)
	case request.HEAD:
		resp := h.get(req)
		resp.Headers.Set("content-length", strconv.Itoa(len(resp.Body)))
		resp.Body = nil
		return resp
	default:
		resp := response.New(response.StatusMethodNotAllowed, nil)
		resp.Headers.Set("allow", "GET, HEAD")
		return resp
	}
}

func (h *Handler) get(req *request.Request) *response.Response {
	switch req.Path() {
	case "/":
		return h.file("index.html")
	case "/hello":
		return h.file("hello.html")
	case "/echo":
		return echo(req)
	default:
		return h.file(req.Path())
	}
}

func echo(req *request.Request) *response.Response {
	qs, ok := req.QueryString()
	if !ok {
		return response.Text(response.StatusOK, "no query string\n")
	}

	var b strings.Builder
	for _, key := range qs.Keys() {
		v, _ := qs.Get(key)
		switch v := v.(type) {
		case request.Single:
			b.WriteString(key + " = " + string(v) + "\n")
		case request.Multiple:
			b.WriteString(key + " = [" + strings.Join(v, ", ") + "]\n")
		}
	}

	return response.Text(response.StatusOK, b.String())
}

// file reads name relative to PublicDir. Names that resolve outside of
// PublicDir are treated as missing.
func (h *Handler) file(name string) *response.Response {
	path, ok := h.resolve(name)
	if !ok {
		h.Logger.Logf(obs.Warn, "Directory traversal attack attempted: %s", name)
		return notFound()
	}

	body, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) || isDir(path) {
			return notFound()
		}
		h.Logger.Logf(obs.Error, "Failed to read file %s: %v", path, err)
		return response.New(response.StatusInternalServerError, nil)
	}

	resp := response.New(response.StatusOK, body)
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		resp.Headers.Set("content-type", ct)
	} else {
		resp.Headers.Set("content-type", "application/octet-stream")
	}
	return resp
}

func (h *Handler) resolve(name string) (string, bool) {
	root, err := filepath.Abs(h.PublicDir)
	if err != nil {
		return "", false
	}

	path := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(name, "/")))
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	// Symlinks may point anywhere; check where they land.
	if target, err := filepath.EvalSymlinks(path); err == nil {
		realRoot, err := filepath.EvalSymlinks(root)
		if err != nil {
			return "", false
		}
		rel, err = filepath.Rel(realRoot, target)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", false
		}
	}

	return path, true
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func notFound() *response.Response {
	return response.Text(response.StatusNotFound, "not found\n")
}
