// Package file provides the TOML config store persisted under the
// drive-etl config directory.
package file
