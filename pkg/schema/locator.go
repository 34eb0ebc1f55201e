package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidLocator is returned for locators that are not <source>:<name>.
var ErrInvalidLocator = errors.New("invalid schema locator")

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Locator names a schema document and a definition inside it.
type Locator struct {
	Source string
	Name   string
}

// ParseLocator parses <source>:<name>. The split happens on the last colon so
// URLs and drive-letter paths work as sources.
func ParseLocator(s string) (Locator, error) {
	idx := strings.LastIndex(s, ":")
	if idx < 0 {
		return Locator{}, fmt.Errorf("%w: '%s' must be in the format <source>:<name>", ErrInvalidLocator, s)
	}

	loc := Locator{Source: s[:idx], Name: s[idx+1:]}
	if loc.Source == "" {
		return Locator{}, fmt.Errorf("%w: '%s' has an empty source", ErrInvalidLocator, s)
	}
	if !identifierPattern.MatchString(loc.Name) {
		return Locator{}, fmt.Errorf("%w: invalid definition name '%s'. Must be a valid identifier", ErrInvalidLocator, loc.Name)
	}
	return loc, nil
}

// IsRemote reports whether the source is an http(s) URL.
func (l Locator) IsRemote() bool {
	return strings.HasPrefix(l.Source, "http://") || strings.HasPrefix(l.Source, "https://")
}

func (l Locator) String() string {
	return l.Source + ":" + l.Name
}
