// Package linker classifies a project's installed dependencies as npm-linked
// working copies or regular installs, and collects the names the linked
// libraries themselves depend on. Those names are what a bundler must alias
// to the host project's copies so that a linked library does not load a
// second instance of a shared package from its own node_modules.
package linker
