package main

import "errors"

// Sentinel errors
var (
	ErrGeneratorNotConfigured = errors.New("generator is not configured")
	ErrConfigExists           = errors.New("configuration file already exists")
)
