package similarity

import "errors"

// ErrUnreachable indicates the similarity service could not be reached at
// all (connection refused, DNS failure, timeout). Not retried; the caller
// aborts the current run.
var ErrUnreachable = errors.New("similarity service unreachable")

// ErrUnexpectedResponse indicates the service answered with a non-success
// status or a body that does not decode into the expected shape.
var ErrUnexpectedResponse = errors.New("unexpected similarity service response")
