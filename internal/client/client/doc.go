// Package client is the REST Data Gateway of the club client.
//
// # Overview
//
// Client is the transport-agnostic contract (auth, reference data lookups,
// admin validation of pending members); HTTPClient implements it over
// net/http. Every list endpoint may answer with a bare JSON array or with an
// object wrapping the array under a named key; ListResponse models both
// shapes and decodeList is the only place they are normalized.
//
// # Authentication
//
// Authenticated requests carry "Authorization: Bearer <token>", read from a
// TokenStore on every call. A 401 triggers exactly one POST /auth/refresh;
// on success the new token is stored and the request retried once. If the
// refresh fails the TokenStore is cleared unconditionally, the
// OnUnauthorized hook runs, and ErrUnauthorized is returned.
//
// # Resilience
//
// Requests are bounded by Options.Timeout, paced by a token-bucket limiter
// (golang.org/x/time/rate) and guarded by a circuit breaker
// (github.com/sony/gobreaker) that counts transport errors and 5xx answers.
// Each request carries a fresh X-Request-ID.
//
// # Error Handling
//
// Match with errors.Is: ErrUnavailable (transport, timeout, open breaker),
// ErrUnauthorized, ErrNotFound, ErrBadResponse, and ErrInvalidInput for a
// login or register body rejected by its validate tags before sending.
// Other statuses surface as *APIError. IsRetryable tells the UI whether a
// retry makes sense.
package client
