package examples

import "errors"

// ErrNotFound indicates the requested example does not exist.
var ErrNotFound = errors.New("example not found")
