// Package config holds the editor engine's tunable settings and their
// TOML loader. Every value has a working default; a missing config
// file is not an error. Values arrive as plain data and are converted
// to richer types (durations) by accessor methods, keeping the on-disk
// format simple integers.
package config
