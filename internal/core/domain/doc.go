// Package domain defines the core entities of a drive extraction run.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - FileDescriptor: One remote file as returned by a listing call
//   - InputRecord: The downloaded bytes of one file plus how they were fetched
//   - OutputRecord: The artefact a converter produced for one file
//   - ResultRecord: The unit flowing through the pipeline to every consumer
//   - Error: Structured error carrying a kind, context fields and a cause
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
