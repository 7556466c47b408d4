package server

import (
	"tinyserver/internal/obs"
	"tinyserver/internal/request"
	"tinyserver/internal/response"
)

// Handler turns a parsed request into a response.
//
// The request borrows the server's read buffer and is only valid until
// HandleRequest returns. Use req.Clone to keep it longer.
type Handler interface {
	HandleRequest(req *request.Request) *response.Response
}

// BadRequestHandler can be implemented by a Handler to replace the
// default reply to requests that fail to parse.
type BadRequestHandler interface {
	HandleBadRequest(err request.ParseError) *response.Response
}

type HandlerFunc func(req *request.Request) *response.Response

func (f HandlerFunc) HandleRequest(req *request.Request) *response.Response {
	return f(req)
}

// DefaultBadRequest logs the failure and returns a bare 400.
func DefaultBadRequest(logger obs.Logger, err request.ParseError) *response.Response {
	logger.Logf(obs.Warn, "Failed to parse request: %v", err)
	return response.New(response.StatusBadRequest, nil)
}
