package tui

import "errors"

// ErrMissingAdvisoryService is returned when the advisory service is not provided.
var ErrMissingAdvisoryService = errors.New("tui: advisory service is required")
