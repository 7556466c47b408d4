package request

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		token string
		want  Method
	}{
		{"GET", GET},
		{"POST", POST},
		{"PUT", PUT},
		{"DELETE", DELETE},
		{"HEAD", HEAD},
		{"CONNECT", CONNECT},
		{"OPTIONS", OPTIONS},
		{"TRACE", TRACE},
		{"PATCH", PATCH},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			m, err := ParseMethod(tt.token)
			require.NoError(t, err)
			require.Equal(t, tt.want, m)
			require.Equal(t, tt.token, m.String())
			require.True(t, m.Valid())
		})
	}
}

func TestParseMethod_Invalid(t *testing.T) {
	for _, token := range []string{"", "get", "GeT", "GE", "GETPOST", "FOO", " GET", "123"} {
		t.Run(token, func(t *testing.T) {
			m, err := ParseMethod(token)
			require.False(t, m.Valid())

			var merr *MethodError
			require.ErrorAs(t, err, &merr)
			require.Equal(t, token, merr.Token)
		})
	}
}

func TestMethod_ZeroValue(t *testing.T) {
	var m Method
	require.False(t, m.Valid())
	require.Equal(t, "Method(0)", m.String())
}
