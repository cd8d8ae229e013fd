package registry

import (
	"fmt"
	"strings"
)

// NotFoundError reports an unknown source or feed identifier. It carries
// the valid alternatives so callers can surface them directly.
type NotFoundError struct {
	Kind  string // "source" or "feed"
	Key   string
	Valid []string
}

func (e *NotFoundError) Error() string {
	if len(e.Valid) == 0 {
		return fmt.Sprintf("unknown %s '%s'", e.Kind, e.Key)
	}
	return fmt.Sprintf("unknown %s '%s' (valid: %s)", e.Kind, e.Key, strings.Join(e.Valid, ", "))
}
