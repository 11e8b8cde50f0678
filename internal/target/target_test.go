package target_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/pageverify/internal/target"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"full url unchanged", "http://localhost:3000", "http://localhost:3000"},
		{"adds default scheme", "localhost:3001", "http://localhost:3001"},
		{"lowercases scheme and host", "HTTP://LocalHost:3000/App", "http://localhost:3000/App"},
		{"drops fragment", "http://localhost:3000/#/reports", "http://localhost:3000/"},
		{"keeps query", "http://localhost:3000/?role=admin", "http://localhost:3000/?role=admin"},
		{"trims whitespace", "  https://example.com  ", "https://example.com"},
		{"punycodes host", "http://bücher.example", "http://xn--bcher-kva.example"},
		{"ipv6 loopback with port", "http://[::1]:3000", "http://[::1]:3000"},
		{"ipv6 without scheme", "[::1]:3001", "http://[::1]:3001"},
		{"ipv6 without port", "http://[::1]/", "http://[::1]/"},
		{"ipv6 lowercased", "http://[FE80::1]:3000", "http://[fe80::1]:3000"},
		{"ipv4 literal", "127.0.0.1:3000", "http://127.0.0.1:3000"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := target.Normalize(tt.in, "http")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	t.Parallel()

	_, err := target.Normalize("   ", "http")
	assert.ErrorIs(t, err, target.ErrEmptyURL)

	_, err = target.Normalize("ftp://localhost/file", "http")
	assert.ErrorIs(t, err, target.ErrUnsupportedScheme)

	_, err = target.Normalize("http://:3000", "http")
	assert.ErrorIs(t, err, target.ErrMissingHost)
}
