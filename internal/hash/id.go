// Package hash computes the 64-bit keys used to store field identities.
package hash

import "github.com/cespare/xxhash/v2"

// separator cannot appear in a normalized source or field name.
const separator = "\x00"

// FieldID computes the key of a (source, name) identity. Both parts are
// expected to be normalized already.
func FieldID(source, name string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(source)
	_, _ = d.WriteString(separator)
	_, _ = d.WriteString(name)

	return d.Sum64()
}
