package entity

import "errors"

// ErrNotFound is returned by repositories when the requested row does
// not exist. Use cases translate it into their own typed errors.
var ErrNotFound = errors.New("entity not found")
