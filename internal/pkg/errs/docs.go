// Package errs provides the typed errors shared by the fulfillment service.
//
// Every error type follows the same pattern:
//   - a sentinel error variable (e.g. ErrObjectNotFound) usable with errors.Is
//   - a struct carrying the details of the failure
//   - constructors with and without an underlying cause
//   - Error() for the message and Unwrap() returning the sentinel
//
// The sentinels double as the error taxonomy of the service:
//   - ErrValueIsRequired, ErrValueIsInvalid, ErrValueIsOutOfRange: malformed input, no side effect
//   - ErrObjectNotFound: unknown order or restaurant
//   - ErrUnauthorized: caller has no valid operator session
//   - ErrForbidden: caller does not own the resource
//   - ErrConflict: illegal state transition or a lost compare-and-set race
//   - ErrRateLimited: the request gate rejected the client
//
// Transport adapters map the sentinels to status codes; domain and application
// code only ever construct and wrap them.
package errs
