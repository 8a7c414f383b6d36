// Package fspath derives filesystem paths from logical identifiers.
package fspath

import "github.com/homeland-social/parcel/version"

// Generator generates a relative, solidus delimited file path from a
// given identifier.
type Generator interface {
	Generate(string) string
}

// GeneratorFunc is a function that can be used to satisfy the Generator
// interface.
type GeneratorFunc func(string) string

// Generate a path from a given id string.
func (g GeneratorFunc) Generate(id string) string {
	return g(id)
}

// DefaultParcelName is the Generator used to derive a built parcel's
// default output filename from its "name-version" identifier.
var DefaultParcelName Generator = GeneratorFunc(func(id string) string {
	return id + ".pcl"
})

// ManifestIdentifier returns the "name-version" identifier a manifest is
// known by for the purpose of deriving a default output path.
func ManifestIdentifier(name string, v version.Version) string {
	return name + "-" + v.String()
}
