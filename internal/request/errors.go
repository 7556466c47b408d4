package request

import "errors"

// ParseError classifies why a request line was rejected.
// It carries nothing but its kind, so values compare with == and errors.Is.
type ParseError uint8

const (
	// InvalidRequest: the method, path or protocol token is missing.
	InvalidRequest ParseError = iota + 1
	// InvalidEncoding: the buffer is not valid UTF-8.
	InvalidEncoding
	// InvalidProtocol: the protocol token is not exactly HTTP/1.1.
	InvalidProtocol
	// InvalidMethod: the method token is not a known verb.
	InvalidMethod
)

func (e ParseError) Error() string {
	switch e {
	case InvalidRequest:
		return "Invalid Request"
	case InvalidEncoding:
		return "Invalid Encoding"
	case InvalidProtocol:
		return "Invalid Protocol"
	case InvalidMethod:
		return "Invalid Method"
	default:
		return "Unknown Parse Error"
	}
}

// Label is a short lowercase name for the kind, used in metrics.
func (e ParseError) Label() string {
	switch e {
	case InvalidRequest:
		return "invalid_request"
	case InvalidEncoding:
		return "invalid_encoding"
	case InvalidProtocol:
		return "invalid_protocol"
	case InvalidMethod:
		return "invalid_method"
	default:
		return "unknown"
	}
}

// errInvalidUTF8 stands in for the decoder failure before it is classified.
var errInvalidUTF8 = errors.New("invalid utf-8")

// parseErrorFrom converts a lower-level failure into its ParseError kind.
func parseErrorFrom(err error) ParseError {
	var perr ParseError
	if errors.As(err, &perr) {
		return perr
	}

	var merr *MethodError
	if errors.As(err, &merr) {
		return InvalidMethod
	}

	if errors.Is(err, errInvalidUTF8) {
		return InvalidEncoding
	}

	return InvalidRequest
}
