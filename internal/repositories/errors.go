package repositories

import "errors"

// ErrNotFound is returned when a record does not exist. Callers match it
// with errors.Is to map missing resources to 404 responses.
var ErrNotFound = errors.New("record not found")
