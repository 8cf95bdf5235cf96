// Package steamid classifies user-supplied profile identifiers.
package steamid

import "regexp"

// Kind distinguishes a SteamID64 from a vanity alias.
type Kind int

const (
	// Alias is any input that must be resolved before use.
	Alias Kind = iota
	// Canonical is an all-digit SteamID64, used as given.
	Canonical
)

var canonicalPattern = regexp.MustCompile(`^[0-9]+$`)

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == Canonical {
		return "canonical"
	}
	return "alias"
}

// Classify reports whether input is a SteamID64. No range check is applied;
// an all-digit string for a nonexistent account is still canonical.
func Classify(input string) Kind {
	if canonicalPattern.MatchString(input) {
		return Canonical
	}
	return Alias
}
