package models

import "errors"

// ErrNotFound is returned by stores when no document matches.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned by stores when a unique index rejects a write.
var ErrDuplicate = errors.New("duplicate record")
