// Package canon provides the canonical value encoding used for content
// addressing throughout kineticdb.
//
// Two structurally equal values always produce byte-identical encodings:
//   - Object keys sorted by UTF-16 code units
//   - No HTML escaping, strings NFC normalized
//   - Floats in shortest round-trip form; NaN and Inf rejected
//   - Set elements sorted by their own encoding and de-duplicated
//
// The output is valid JSON, so an encoding can be decoded back into the
// typed struct it was produced from with encoding/json.
//
// canon imports nothing internal.
package canon
