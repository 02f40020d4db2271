// Package converters dispatches downloaded records to format converters.
//
// Dispatch is purely on the record's extension. Recognised extensions are
// converted and flagged Converted; everything else passes through untouched.
//
// Converters are registered with a Registry at startup:
//
//	reg := converters.Default() // .md -> .html, .json -> compact .json
//	res, err := reg.Transform(ctx, in)
package converters
