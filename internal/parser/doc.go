// Package parser reads and rewrites the version field of package manifests
// (TOML, JSON and YAML). Rewrites touch only the bytes of the version value so
// the rest of the manifest, including comments and key order, is preserved.
package parser
