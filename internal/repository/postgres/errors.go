package postgres

import "errors"

// ErrNotFound is returned when a targeted update matched no rows
var ErrNotFound = errors.New("record not found")
