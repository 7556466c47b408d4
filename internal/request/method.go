package request

import "fmt"

// Method is one of the HTTP verbs the server understands.
// The zero value is not a valid method.
type Method uint8

const (
	GET Method = iota + 1
	POST
	PUT
	DELETE
	HEAD
	CONNECT
	OPTIONS
	TRACE
	PATCH
)

// MethodError is returned by ParseMethod for a token outside the known set.
type MethodError struct {
	Token string
}

func (e *MethodError) Error() string {
	return fmt.Sprintf("unknown method: %q", e.Token)
}

// ParseMethod matches token against the canonical verb spellings.
// Matching is case-sensitive.
func ParseMethod(token string) (Method, error) {
	switch token {
	case "GET":
		return GET, nil
	case "POST":
		return POST, nil
	case "PUT":
		return PUT, nil
	case "DELETE":
		return DELETE, nil
	case "HEAD":
		return HEAD, nil
	case "CONNECT":
		return CONNECT, nil
	case "OPTIONS":
		return OPTIONS, nil
	case "TRACE":
		return TRACE, nil
	case "PATCH":
		return PATCH, nil
	}

	return 0, &MethodError{Token: token}
}

func (m Method) String() string {
	switch m {
	case GET:
		return "GET"
	case POST:
		return "POST"
	case PUT:
		return "PUT"
	case DELETE:
		return "DELETE"
	case HEAD:
		return "HEAD"
	case CONNECT:
		return "CONNECT"
	case OPTIONS:
		return "OPTIONS"
	case TRACE:
		return "TRACE"
	case PATCH:
		return "PATCH"
	default:
		return fmt.Sprintf("Method(%d)", uint8(m))
	}
}

func (m Method) Valid() bool {
	return m >= GET && m <= PATCH
}
