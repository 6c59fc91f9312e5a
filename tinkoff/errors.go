package tinkoff

import "fmt"

// DecodeError reports a response body that does not match the expected
// envelope or entity shape. Transport failures are returned as-is and never
// wrapped in a DecodeError, so callers can tell the two apart with errors.As.
type DecodeError struct {
	Err  error
	Path string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
