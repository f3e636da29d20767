// Package discovery locates package directories in a monorepo and attributes
// changed files to them. A package is a directory holding one of the known
// manifest files; the directory of the root manifest is never a package.
package discovery
