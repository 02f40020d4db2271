// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - AuthResolver: Resolves the credential a run authenticates with
//   - SourceFactory: Builds a RemoteSource from a resolved credential
//   - RemoteSource: Lists and downloads remote files
//
// # Optional Interfaces
//
//   - Transformer: Converts one InputRecord. Nil means passthrough.
//   - SinkFactory: Builds the directory Sink. Only used when an output directory is set.
//   - ConfigStore: Application configuration, used by the CLI only.
//
// # Import Rules
//
//   - Can Import: domain package, golang.org/x/oauth2 (credential handle type)
//   - Cannot Import: Any adapter, connector, or converter package
package driven
