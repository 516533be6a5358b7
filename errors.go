package structscan

import "errors"

// Common errors used throughout the structscan package
var (
	// ErrInputNotSpecified is returned when neither the command line nor the config names an input file.
	ErrInputNotSpecified = errors.New("input file is not specified")
	// ErrDatabaseNotConfigured indicates the requested catalog environment is missing from the config.
	ErrDatabaseNotConfigured = errors.New("database environment is not configured")
)

