package bench

import "errors"

var (
	// ErrConnect is returned when the store cannot be reached.
	ErrConnect = errors.New("store connection failed")
	// ErrWrite is returned when deleting or inserting records fails.
	ErrWrite = errors.New("store write failed")
	// ErrRead is returned when a find, lookup or aggregation fails.
	ErrRead = errors.New("store read failed")
	// ErrInvalidScale is returned for author or book counts out of range.
	ErrInvalidScale = errors.New("invalid scale")
)
