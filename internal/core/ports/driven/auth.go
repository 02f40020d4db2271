package driven

import (
	"context"

	"golang.org/x/oauth2"
)

// AuthHandle is a resolved credential. Remote sources call Token() whenever
// they need an access token; implementations refresh transparently.
type AuthHandle = oauth2.TokenSource

// AuthResolver produces the credential for one run.
type AuthResolver interface {
	// Resolve returns explicit unchanged when it is non-nil. Otherwise it
	// builds a delegated-identity credential acting as userID with scopes.
	Resolve(ctx context.Context, userID string, scopes []string, explicit AuthHandle) (AuthHandle, error)

	// Describe returns a human-readable note on where credentials come from,
	// attached to listing errors for diagnosis. It never contains secrets.
	Describe() string
}
