package auth

import "errors"

// Failure classes reported by credential suppliers.
//
// These errors should be wrapped with call-site context where appropriate and
// matched with errors.Is.
var (
	// ErrMalformedRegistryHost is returned when an account ID cannot be derived
	// from a registry host.
	ErrMalformedRegistryHost = errors.New("malformed registry host")

	// ErrUnexpectedAuthorizationData is returned when the token issuer responds
	// with a number of authorization data entries other than one.
	ErrUnexpectedAuthorizationData = errors.New("unexpected authorization data")

	// ErrTokenFetchFailed is returned when the token issuer keeps failing with
	// server faults after all retries are exhausted.
	ErrTokenFetchFailed = errors.New("fetching authorization token failed")

	// ErrTokenRequestRejected is returned when the token issuer rejects the
	// request as invalid. Rejected requests are never retried.
	ErrTokenRequestRejected = errors.New("authorization token request rejected")

	// ErrTokenDecodeFailed is returned when an authorization token is missing
	// or cannot be decoded.
	ErrTokenDecodeFailed = errors.New("decoding authorization token failed")

	// ErrMalformedCredential is returned when a decoded authorization token
	// does not contain a username:password pair.
	ErrMalformedCredential = errors.New("malformed credential")

	// ErrMalformedEndpoint is returned when a registry endpoint cannot be
	// parsed as a URL.
	ErrMalformedEndpoint = errors.New("malformed registry endpoint")
)
