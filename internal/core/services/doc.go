// Package services implements the driving port interfaces.
// Services contain the run orchestration and call out to driven ports
// (remote source, credential resolver, sink) only.
package services
