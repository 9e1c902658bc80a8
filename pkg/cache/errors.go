package cache

import "fmt"

// DeserializationError means an entry was found for the requested fingerprint
// but its payload could not be decoded: the tag is not one of the known kinds,
// or the encoded bytes are invalid. Unlike an unreadable table file (treated
// as a miss), this surfaces to the caller because it signals a semantically
// corrupt table that needs operator attention.
type DeserializationError struct {
	Function string
	Tag      string
	Err      error
}

func (e *DeserializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cache: cannot decode entry of %q (tag %q): %v", e.Function, e.Tag, e.Err)
	}
	return fmt.Sprintf("cache: unknown payload tag %q in table of %q", e.Tag, e.Function)
}

func (e *DeserializationError) Unwrap() error { return e.Err }
