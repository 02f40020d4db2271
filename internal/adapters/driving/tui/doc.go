// Package tui renders a live progress view for extract runs that write to
// an output directory.
package tui
