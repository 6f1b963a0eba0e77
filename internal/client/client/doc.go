// Package client is the remote side of an interview: it starts a session on
// a TalentScout server over gRPC, keeps the signed session token and
// attaches it to every later call through an interceptor.
//
// gRPC status codes are mapped to the sentinel errors ErrUnavailable,
// ErrUnauthorized and ErrNoSession so callers can match them with
// errors.Is.
package client
