// Package config resolves metrolink settings from defaults, the user config
// file under $XDG_CONFIG_HOME, the project's .metrolink.yaml, the project's
// .env file and METROLINK_* environment variables, in increasing order of
// precedence. It also owns the development-mode switch that gates resolution.
package config
