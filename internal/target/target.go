// Package target normalises the URLs the verifiers navigate to.
package target

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

var (
	ErrEmptyURL          = errors.New("empty url")
	ErrUnsupportedScheme = errors.New("unsupported scheme")
	ErrMissingHost       = errors.New("missing host")
)

// Normalize returns a navigable URL for raw. Inputs without a scheme, such as
// "localhost:3000", get defaultScheme. Scheme and host are lower-cased, non-ASCII
// hosts are converted to punycode, IP literals are kept as they are and the fragment is dropped.
func Normalize(raw, defaultScheme string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}
	if defaultScheme == "" {
		defaultScheme = "http"
	}
	if !strings.Contains(raw, "://") {
		raw = defaultScheme + "://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("couldn't parse url %s: %w", raw, err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return "", ErrMissingHost
	}
	ascii := strings.ToLower(host)
	if net.ParseIP(host) == nil {
		ascii, err = idna.Lookup.ToASCII(ascii)
		if err != nil {
			return "", fmt.Errorf("idna host %q: %w", host, err)
		}
	}
	if port := u.Port(); port != "" {
		u.Host = net.JoinHostPort(ascii, port)
	} else if strings.Contains(ascii, ":") {
		u.Host = "[" + ascii + "]"
	} else {
		u.Host = ascii
	}
	u.Fragment = ""
	u.RawFragment = ""

	return u.String(), nil
}
