// Package seedcli populates a running chore board over its HTTP API and
// verifies the resulting week reads back as expected.
package seedcli

import (
	"time"
)

// Config controls a seeding run.
type Config struct {
	// BaseURL of the running service, e.g. http://localhost:9090.
	BaseURL string

	// People to create before the group is assembled.
	People int

	// Chores to create.
	Chores int

	// Rotate runs a seven day rotation for the first chore over the group.
	Rotate bool

	// Timeout per HTTP request.
	Timeout time.Duration

	// Verbose enables per-request logging.
	Verbose bool
}
