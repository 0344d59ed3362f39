package types

import "github.com/oklog/ulid/v2"

// NewID returns a new lexicographically sortable correlation id, used for
// submission ids, session ids, and approval request ids.
func NewID() string {
	return ulid.Make().String()
}
