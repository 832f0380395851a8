// Package platform provides the read-only filesystem capability used by the
// resolver: lstat, readlink, realpath and file reads. OSFS serves the real
// filesystem through afero; MemFS is an in-memory stand-in with a symlink
// table, so resolution can be tested without creating real links.
package platform
