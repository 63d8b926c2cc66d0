package utils

import (
	"errors"
	"net/url"
)

// redactedValue replaces secrets in logged URLs.
const redactedValue = "REDACTED"

// sensitiveQueryParams are query parameters that carry credentials.
// Gemini authenticates with ?key=.
var sensitiveQueryParams = []string{"key", "api_key", "apikey"}

// RedactURL returns rawURL with credential query parameters and any userinfo
// password masked. Unparseable input yields a placeholder rather than the raw
// string.
func RedactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "<unparseable url>"
	}

	if parsed.User != nil {
		if _, hasPassword := parsed.User.Password(); hasPassword {
			parsed.User = url.UserPassword(parsed.User.Username(), redactedValue)
		}
	}

	if parsed.RawQuery != "" {
		query := parsed.Query()
		changed := false
		for _, name := range sensitiveQueryParams {
			if query.Has(name) {
				query.Set(name, redactedValue)
				changed = true
			}
		}
		if changed {
			parsed.RawQuery = query.Encode()
		}
	}

	return parsed.String()
}

// redactURLError rewrites the URL inside a *url.Error so transport errors
// never echo an API key.
func redactURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{Op: urlErr.Op, URL: RedactURL(urlErr.URL), Err: urlErr.Err}
	}
	return err
}
