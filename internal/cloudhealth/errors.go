package cloudhealth

import "errors"

var (
	// ErrAuth means the server rejected the credentials. Fatal for the
	// whole run.
	ErrAuth = errors.New("authentication failed")
	// ErrTransport covers network and timeout failures reaching the
	// endpoint.
	ErrTransport = errors.New("transport failure")
	// ErrAPI means the server answered with a well-formed GraphQL error
	// payload.
	ErrAPI = errors.New("api error")
)
