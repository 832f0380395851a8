// Package bundler turns a linker resolution into the configuration a module
// bundler consumes: the project roots to watch and the extraNodeModules alias
// table. Outside development mode it produces an empty configuration.
package bundler
