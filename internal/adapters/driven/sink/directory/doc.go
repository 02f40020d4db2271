// Package directory persists result records as files in an existing directory.
package directory
