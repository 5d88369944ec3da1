package geo

import "fmt"

// ParseError reports a malformed feature collection import. State is left
// untouched when one is returned.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse feature collection: %s: %v", e.Reason, e.Err)
	}
	return "parse feature collection: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// NetworkError reports a failed fetch. Status and Body carry the upstream
// response for the user-visible notice.
type NetworkError struct {
	Status int
	Body   string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch feature collection: status %d: %s", e.Status, e.Body)
}
