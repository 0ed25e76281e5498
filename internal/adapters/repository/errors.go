package repository

import "errors"

// Sentinel kinds for snapshot publishing.
var (
	ErrStale           = errors.New("snapshot superseded by a newer fetch")
	ErrUnknownSequence = errors.New("snapshot sequence was never issued")
)
