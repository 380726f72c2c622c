package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Ranked list errors
	ErrDuplicateSong  = fmt.Errorf("song is already ranked")
	ErrInvalidRank    = fmt.Errorf("rank must be between 1 and 10")
	ErrIncompleteList = fmt.Errorf("exactly 10 ranked songs are required")

	// API and service errors
	ErrNetwork            = fmt.Errorf("network request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNotFound           = fmt.Errorf("not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
