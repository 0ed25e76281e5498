package probe

import "time"

// Defaults for flags.
const (
	DefaultBaseURL      = "http://localhost:9080"
	DefaultMinMagnitude = 4.0
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 250 * time.Millisecond
	DefaultSettleWait   = time.Minute
)

// Results of one submission.
const (
	resultAccepted     = "accepted"
	resultDuplicate    = "duplicate"
	resultBackpressure = "backpressure"
	resultFailed       = "failed"
)

const (
	// magStep spreads burst submissions over distinct magnitude floors.
	magStep              = 0.1
	percentageMultiplier = 100
)
