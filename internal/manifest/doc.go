// Package manifest reads npm package descriptors (package.json). Dependency
// maps keep the file's key order so that callers iterating them behave the
// same on every run. It also validates descriptors against an embedded JSON
// schema and classifies dependency constraint strings for diagnostics.
package manifest
