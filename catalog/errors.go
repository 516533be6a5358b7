package catalog

import "errors"

// Sentinel errors
var (
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrRunNotFound       = errors.New("run not found")
)
