// Package s3util moves source photos and edited results between the local
// session and S3. Objects are addressed with s3://bucket/key URIs.
package s3util

import (
	"errors"
	"fmt"
	"strings"
)

const scheme = "s3://"

// ErrInvalidURI is returned when a string is not a usable s3://bucket/key URI.
var ErrInvalidURI = errors.New("invalid S3 URI")

// Location identifies one S3 object.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return scheme + l.Bucket + "/" + l.Key
}

// IsURI reports whether s uses the s3:// scheme.
func IsURI(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), scheme)
}

// ParseURI splits s3://bucket/key into its parts. Both parts are required and
// a key ending in "/" is rejected since it cannot name a single object.
func ParseURI(s string) (Location, error) {
	if !IsURI(s) {
		return Location{}, fmt.Errorf("%w: %q does not start with %s", ErrInvalidURI, s, scheme)
	}
	rest := s[len(scheme):]
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return Location{}, fmt.Errorf("%w: %q needs both bucket and key", ErrInvalidURI, s)
	}
	if strings.HasSuffix(key, "/") {
		return Location{}, fmt.Errorf("%w: %q names a prefix, not an object", ErrInvalidURI, s)
	}
	return Location{Bucket: bucket, Key: key}, nil
}
