package comments

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no comments can be served for an identifier.
var ErrNotFound = errors.New("comments not found")

var (
	// ErrAliasUnresolved means the vanity alias did not map to an account.
	ErrAliasUnresolved = fmt.Errorf("%w: steam account not found", ErrNotFound)
	// ErrEmptyFeed means the feed reported zero comments. A missing account
	// produces the same response upstream, so the two are not distinguished.
	ErrEmptyFeed = fmt.Errorf("%w: no comments found", ErrNotFound)
)
