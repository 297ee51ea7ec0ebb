// Package config loads habitr's YAML configuration.
package config

// DefaultConfigDir holds the config file, database and log.
const DefaultConfigDir = "~/.config/habitr"

const (
	DefaultDBName     = "habitr.db"
	DefaultLogName    = "habitr.log"
	DefaultLogLevel   = "info"
	DefaultWindowDays = 30
)

// DefaultOutput enables colour; it is still suppressed when stdout is not a
// terminal.
var DefaultOutput = Output{Color: true}
