package links

import (
	"net/url"
	"strings"
)

// IsValidURL reports whether raw parses as an absolute URL with scheme
// http or https. Everything else (malformed input, other schemes like ftp
// or javascript) is not displayable as an external reference.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	return u.Host != ""
}

// DisplayTitle prefers the custom title, falls back to the URL hostname and
// finally to the raw string when it does not parse.
func DisplayTitle(rawURL, customTitle string) string {
	if customTitle != "" {
		return customTitle
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}

	return u.Host
}

// ShortHostname returns the URL hostname with a leading "www." stripped.
// Falls back to the raw string when the URL does not parse.
func ShortHostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}

	return strings.TrimPrefix(u.Hostname(), "www.")
}
