// Package google provides shared infrastructure for the Google Drive connector.
//
// This package contains:
//   - CredentialResolver, which builds a delegated-identity credential from a
//     service account key file and impersonates the content owner
//   - Service factory for creating Drive API clients
//   - Error classification for common Google API errors (401, 403, 404, 429)
//   - Request pacing to stay under Google API quotas
//
// # Usage
//
//	resolver := google.NewCredentialResolver(keyFile)
//	ts, err := resolver.Resolve(ctx, "owner@example.com", scopes, nil)
//	svc, err := google.NewDriveService(ctx, ts)
//
// # Delegated identity
//
// The service account must have domain-wide delegation for the requested
// scopes. Scopes have to match the delegation exactly; the default is
// https://www.googleapis.com/auth/drive.readonly.
//
// When no key file is configured the path is read from the
// SVC_ACCT_CREDENTIALS environment variable.
package google
