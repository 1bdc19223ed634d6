package domain

import "errors"

// ErrNotFound indicates that the requested task or queue message does not
// exist in the backing store.
var ErrNotFound = errors.New("not found")
