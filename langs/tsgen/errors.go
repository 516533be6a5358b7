package tsgen

import "errors"

// ErrCodeParamMissing is returned in strict mode for declarations without a code
var ErrCodeParamMissing = errors.New("declaration has no code parameter")
