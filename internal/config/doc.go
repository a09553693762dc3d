// Package config loads topology parameters from CUE files. Every field
// is optional; anything unset keeps its default, so a config file only
// names what it changes.
package config
