// Package probe drives a running quakeboard service from the command line.
package probe

import (
	"time"

	"github.com/okian/quakeboard/internal/adapters/repository"
)

// Config holds configuration for one probe run.
type Config struct {
	BaseURL      string        // Base URL of the service
	StartDate    string        // YYYY-MM-DD, empty for the service default
	EndDate      string        // YYYY-MM-DD, empty for the service default
	MinMagnitude float64       // Magnitude floor of the synchronous fetch
	Burst        int           // Number of concurrent async submissions
	Workers      int           // Number of concurrent submitters
	Timeout      time.Duration // HTTP request timeout
	PollInterval time.Duration // Session polling interval while fetches settle
	SettleWait   time.Duration // Upper bound on waiting for the burst to settle
	Verbose      bool          // Log every submission
}

// Stats holds probe statistics.
type Stats struct {
	Submitted    int
	Accepted     int
	Duplicate    int
	Backpressure int
	Failed       int
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	JobID     string `json:"job_id"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type sessionResponse struct {
	Loading  bool                `json:"loading"`
	Snapshot repository.Snapshot `json:"snapshot"`
}

type fetchRequest struct {
	RequestID    string  `json:"request_id"`
	StartDate    string  `json:"start"`
	EndDate      string  `json:"end"`
	MinMagnitude float64 `json:"minmag"`
}
