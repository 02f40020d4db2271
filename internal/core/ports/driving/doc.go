// Package driving defines the interface the CLI uses to start extraction
// runs. These are the "driving" ports in hexagonal architecture terminology.
//
// Implementations live in internal/core/services.
package driving
