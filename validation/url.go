package validation

import (
	"context"
	"errors"
	"net/url"

	"glasswing.dev/glasswing/db"
)

// Canonicalize parses a user-provided URL, assuming https:// when no scheme is given.
// Schemes without an authority part (data:, mailto:, …) are passed through unchanged.
func Canonicalize(userUrl string) (*url.URL, error) {
	if userUrl == "" {
		return nil, errors.New("missing url")
	}

	u, err := url.Parse(userUrl)
	if err != nil || u.Scheme == "" || isBareHostPort(u) {
		u, err = url.Parse("https://" + userUrl)
		if err != nil {
			return nil, errors.New("invalid url")
		}
	}
	return u, nil
}

// isBareHostPort reports whether a parsed URL is really a schemeless host:port.
// "localhost:5173/src" parses with Scheme "localhost" and the port digits
// leading the opaque part; a real scheme is never followed by digits there.
func isBareHostPort(u *url.URL) bool {
	return u.Opaque != "" && u.Opaque[0] >= '0' && u.Opaque[0] <= '9'
}

// ValidateUrl validates a URL provided by the user, and returns a formatted URL as a string.
func ValidateUrl(ctx context.Context, q *db.Queries, userUrl string) (validatedUrl string, hostname string, err error) {
	u, err := Canonicalize(userUrl)
	if err != nil {
		return "", "", err
	}

	authorized, err := IsAuthorized(ctx, q, u)
	if err != nil {
		return "", u.Hostname(), err
	}

	if !authorized {
		return "", u.Hostname(), errors.New("domain " + u.Hostname() + " not authorized")
	}

	return u.String(), u.Hostname(), nil
}

// IsAuthorized returns true if the given URL’s domain is in the list of authorized domains.
// As a side effect, if the domain is not authorized and doesn’t exist in the database,
// it will be added (default blocked) for future triage.
func IsAuthorized(ctx context.Context, q *db.Queries, u *url.URL) (bool, error) {
	hostname := u.Hostname()
	authorized, err := q.IsAuthorized(ctx, hostname)
	if err != nil {
		return false, err
	}

	// If not authorized, add it to the database for future triage.
	if !authorized {
		err = q.InsertUnauthorizedDomain(ctx, hostname)
		if err != nil {
			// Log the error but don’t fail the authorization check.
			// Caller can decide how to handle this.
		}
	}

	return authorized, nil
}
